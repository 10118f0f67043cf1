package llm

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/m-mizutani/gollem"
)

// registryTool bridges one FunctionDefinition into the gollem tool loop.
// Every call is recorded, success or failure, so the orchestrator can
// inspect what the model actually did.
type registryTool struct {
	def      model.FunctionDefinition
	registry interfaces.FunctionRegistry
	recorder *invocationRecorder
}

var _ gollem.Tool = &registryTool{}

func (t *registryTool) Spec() gollem.ToolSpec {
	params := make(map[string]*gollem.Parameter, len(t.def.Parameters))
	for name, p := range t.def.Parameters {
		params[name] = toGollemParameter(p)
	}
	return gollem.ToolSpec{
		Name:        t.def.Name,
		Description: t.def.Description,
		Parameters:  params,
	}
}

func (t *registryTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	result, err := t.registry.Execute(ctx, t.def.Name, args)

	invocation := interfaces.ToolInvocation{
		Name:   t.def.Name,
		Args:   args,
		Result: result,
	}
	if err != nil {
		invocation.Error = err.Error()
	}
	t.recorder.record(invocation)

	if err != nil {
		return nil, err
	}

	// Executors return JSON text; hand it back structured when possible.
	var parsed map[string]any
	if json.Unmarshal([]byte(result), &parsed) == nil {
		return parsed, nil
	}
	return map[string]any{"result": result}, nil
}

func toGollemParameter(p *model.FunctionParameter) *gollem.Parameter {
	if p == nil {
		return nil
	}

	param := &gollem.Parameter{
		Description: p.Description,
		Required:    p.Required,
	}

	switch p.Type {
	case model.ParamTypeInteger:
		param.Type = gollem.TypeInteger
	case model.ParamTypeObject:
		param.Type = gollem.TypeObject
	case model.ParamTypeArray:
		param.Type = gollem.TypeArray
	default:
		param.Type = gollem.TypeString
	}

	if len(p.Properties) > 0 {
		param.Properties = make(map[string]*gollem.Parameter, len(p.Properties))
		for name, child := range p.Properties {
			param.Properties[name] = toGollemParameter(child)
		}
	}
	if p.Items != nil {
		param.Items = toGollemParameter(p.Items)
	}
	return param
}

// invocationRecorder accumulates tool invocations across one agent
// execution. The agent may run tools from multiple goroutines.
type invocationRecorder struct {
	mu      sync.Mutex
	entries []interfaces.ToolInvocation
}

func (r *invocationRecorder) record(invocation interfaces.ToolInvocation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, invocation)
}

func (r *invocationRecorder) invocations() []interfaces.ToolInvocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]interfaces.ToolInvocation(nil), r.entries...)
}
