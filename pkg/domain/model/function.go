package model

import "github.com/m-mizutani/goerr/v2"

// ParameterType is the closed set of parameter types a function schema
// may declare.
type ParameterType string

const (
	ParamTypeString  ParameterType = "string"
	ParamTypeInteger ParameterType = "integer"
	ParamTypeObject  ParameterType = "object"
	ParamTypeArray   ParameterType = "array"
)

// FunctionParameter is one named parameter in a function schema,
// JSON-schema shaped.
type FunctionParameter struct {
	Type        ParameterType                 `json:"type"`
	Description string                        `json:"description,omitempty"`
	Required    bool                          `json:"required,omitempty"`
	Properties  map[string]*FunctionParameter `json:"properties,omitempty"`
	Items       *FunctionParameter            `json:"items,omitempty"`
}

// FunctionDefinition is a capability advertised to the model. Name is the
// unique dispatch key; Description is the model-facing usage hint.
type FunctionDefinition struct {
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Parameters  map[string]*FunctionParameter `json:"parameters"`
}

// Validate checks definition invariants
func (d *FunctionDefinition) Validate() error {
	if d.Name == "" {
		return goerr.New("function name is required")
	}
	if d.Description == "" {
		return goerr.New("function description is required", goerr.V("name", d.Name))
	}
	for name, p := range d.Parameters {
		if p == nil {
			return goerr.New("function parameter is nil",
				goerr.V("function", d.Name),
				goerr.V("parameter", name),
			)
		}
	}
	return nil
}
