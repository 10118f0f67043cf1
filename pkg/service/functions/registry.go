package functions

import (
	"context"
	"sync"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/cenate-lab/citabot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Registry is the in-process implementation of FunctionRegistry.
// Registration happens at wiring time; Execute is called concurrently
// from tool round trips.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]model.FunctionDefinition
	execs map[string]interfaces.FunctionExecutor
	order []string
}

var _ interfaces.FunctionRegistry = &Registry{}

func NewRegistry() *Registry {
	return &Registry{
		defs:  map[string]model.FunctionDefinition{},
		execs: map[string]interfaces.FunctionExecutor{},
	}
}

func (r *Registry) Register(def model.FunctionDefinition, exec interfaces.FunctionExecutor) error {
	if err := def.Validate(); err != nil {
		return goerr.Wrap(err, "invalid function definition")
	}
	if exec == nil {
		return goerr.New("function executor is nil", goerr.V("name", def.Name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return goerr.New("function already registered", goerr.V("name", def.Name))
	}

	r.defs[def.Name] = def
	r.execs[def.Name] = exec
	r.order = append(r.order, def.Name)
	return nil
}

func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	r.mu.RLock()
	exec, ok := r.execs[name]
	r.mu.RUnlock()

	if !ok {
		return "", goerr.Wrap(types.ErrFunctionCall, "unknown function",
			goerr.V("name", name),
		)
	}

	logging.From(ctx).Debug("executing function", "name", name, "args", args)

	result, err := exec(ctx, args)
	if err != nil {
		return "", goerr.Wrap(types.ErrFunctionCall, "function execution failed",
			goerr.V("name", name),
			goerr.V("cause", err.Error()),
		)
	}
	return result, nil
}

func (r *Registry) Definitions() []model.FunctionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]model.FunctionDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.defs[name])
	}
	return defs
}

func (r *Registry) List() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make(map[string]string, len(r.defs))
	for name, def := range r.defs {
		list[name] = def.Description
	}
	return list
}
