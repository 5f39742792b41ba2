// Package schema holds the shared data types of the module and the JSON
// schema reflection used to describe tool parameters to providers.
package schema

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	cache   = make(map[reflect.Type]*Schema)
	cacheMu sync.RWMutex
)

// Schema describes a Go type as a JSON schema suitable for a function
// definition sent to a provider.
type Schema struct {
	*jsonschema.Schema
	// Parameters represents the function parameters definition,
	// with all $refs resolved.
	Parameters *jsonschema.Schema
}

// New creates a new schema from the given type.
func New(t reflect.Type) (*Schema, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if s, ok := cache[t]; ok {
		return s, nil
	}

	s, err := buildSchema(t)
	if err != nil {
		return nil, err
	}
	cache[t] = s

	return s, nil
}

// For creates a new schema for the type of the given value.
func For[T any]() (*Schema, error) {
	var v T
	return New(reflect.TypeOf(v))
}

func buildSchema(t reflect.Type) (*Schema, error) {
	schema := JSONSchema(t)

	funcDef, err := ToFunctionSchema(schema)
	if err != nil {
		return nil, err
	}
	return &Schema{
		Schema:     schema,
		Parameters: funcDef,
	}, nil
}

// ToFunctionSchema flattens a reflected schema into a single object schema
// with all $defs inlined, which is what providers expect for tool parameters.
func ToFunctionSchema(tSchema *jsonschema.Schema) (*jsonschema.Schema, error) {
	refID := strings.TrimPrefix(tSchema.Ref, "#/$defs/")

	defs := make(map[string]*jsonschema.Schema)
	var root *jsonschema.Schema

	for name, def := range tSchema.Definitions {
		if name == refID {
			root = def
		} else {
			defs[name] = def
		}
	}
	if root == nil {
		return nil, errors.Newf("schema: root definition %q not found", refID)
	}

	res := &jsonschema.Schema{
		Type:       root.Type,
		Properties: root.Properties,
		Required:   root.Required,
	}

	if err := resolveRefs(res.Properties, defs); err != nil {
		return nil, err
	}
	return res, nil
}

func resolveRefs(props *orderedmap.OrderedMap[string, *jsonschema.Schema], defs map[string]*jsonschema.Schema) error {
	if props == nil {
		return nil
	}
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		child := pair.Value
		if child.Ref != "" {
			name := strings.TrimPrefix(child.Ref, "#/$defs/")
			def, ok := defs[name]
			if !ok {
				return errors.Newf("schema: unresolved $ref %q", child.Ref)
			}
			pair.Value = def
			child = def
		}
		if child.Properties != nil {
			if err := resolveRefs(child.Properties, defs); err != nil {
				return err
			}
		}
		if child.Items != nil && child.Items.Ref != "" {
			name := strings.TrimPrefix(child.Items.Ref, "#/$defs/")
			def, ok := defs[name]
			if !ok {
				return errors.Newf("schema: unresolved $ref %q", child.Items.Ref)
			}
			child.Items = def
		}
	}
	return nil
}

// NameFromRef returns the type name from the schema $ref, ex: '#/$defs/MyStruct'.
func (s *Schema) NameFromRef() string {
	parts := strings.Split(s.Ref, "/")
	return parts[len(parts)-1]
}

// JSONSchema returns the reflected json schema of the type.
func JSONSchema(t reflect.Type) *jsonschema.Schema {
	r := new(jsonschema.Reflector)

	// Struct names can collide across packages, which breaks $ref resolution.
	// Disambiguate by hashing the full package path into the name.
	r.Namer = func(t reflect.Type) string {
		name := t.Name()
		if t.Kind() == reflect.Struct {
			fullname := t.PkgPath() + "/" + t.Name()
			name = t.Name() + "@" + strconv.FormatUint(xxhash.Sum64String(fullname), 10)
		}
		return name
	}

	return r.ReflectFromType(t)
}
