package interfaces

// PromptResolver resolves named templates and substitutes {name}
// placeholders into final instruction text. Unknown templates and
// unresolved placeholders fail with types.ErrPromptValidation.
type PromptResolver interface {
	// GetTemplate returns the raw template text.
	GetTemplate(templateID string) (string, error)

	// Fill substitutes every {name} placeholder with the corresponding
	// variable value.
	Fill(templateID string, variables map[string]string) (string, error)

	// Save registers or replaces a template at runtime. Administrative,
	// out of the hot path.
	Save(templateID, text string) error

	// List returns the IDs of all known templates.
	List() []string
}
