package interfaces

import (
	"context"

	"github.com/cenate-lab/citabot/pkg/domain/model"
)

// FunctionExecutor maps a named-argument bag to a JSON result string.
type FunctionExecutor func(ctx context.Context, args map[string]any) (string, error)

// FunctionRegistry maps callable-function names to domain executors and
// exposes their schemas. Registration happens once at process start.
type FunctionRegistry interface {
	// Register adds a function. A duplicate name is rejected.
	Register(def model.FunctionDefinition, exec FunctionExecutor) error

	// Execute dispatches a call by name. Fails with
	// types.ErrFunctionCall if the name is unregistered or the executor
	// itself fails.
	Execute(ctx context.Context, name string, args map[string]any) (string, error)

	// Definitions returns the model-facing schemas of all registered
	// functions.
	Definitions() []model.FunctionDefinition

	// List returns a name to description mapping for introspection.
	List() map[string]string
}
