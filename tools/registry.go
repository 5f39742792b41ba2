package tools

import (
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// Constructor builds a registered tool on demand.
type Constructor func() (ITool, error)

// Registry holds named tool constructors. Lookup is case-insensitive.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
	names        []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Register adds a tool constructor under a name.
func (r *Registry) Register(name string, ctor Constructor) error {
	key := strings.ToLower(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.constructors[key]; ok {
		return errors.WithMessagef(ErrDuplicateTool, "%q", name)
	}
	r.constructors[key] = ctor
	r.names = append(r.names, name)
	sort.Strings(r.names)
	return nil
}

// MustRegister adds a tool constructor and panics on a duplicate name.
// Intended for package init of built-in tools.
func (r *Registry) MustRegister(name string, ctor Constructor) {
	if err := r.Register(name, ctor); err != nil {
		panic(err)
	}
}

// Names returns the sorted names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Get constructs the tool registered under the given name.
func (r *Registry) Get(name string) (ITool, error) {
	r.mu.RLock()
	ctor, ok := r.constructors[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.WithMessagef(ErrToolNotFound, "%q", name)
	}
	return ctor()
}

// Load constructs the tools registered under the given names, in order.
func (r *Registry) Load(names ...string) ([]ITool, error) {
	list := make([]ITool, 0, len(names))
	for _, name := range names {
		tool, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		list = append(list, tool)
	}
	return list, nil
}

// Default is the process-wide registry built-in tools attach to.
var Default = NewRegistry()
