package prompt

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

//go:embed templates/*.md
var templateFS embed.FS

// placeholderRegex matches {name} substitution points. Placeholder names
// are identifiers, so literal braces in prose pass through untouched.
var placeholderRegex = regexp.MustCompile(`\{([a-zA-Z][a-zA-Z0-9_]*)\}`)

// Resolver serves named instruction templates. Embedded defaults can be
// overlaid by a TOML catalog file and by runtime Save calls.
type Resolver struct {
	mu        sync.RWMutex
	templates map[string]string
}

var _ interfaces.PromptResolver = &Resolver{}

type Option func(*Resolver) error

// WithCatalogFile overlays templates from a TOML catalog:
//
//	[templates]
//	"availability-system-v1" = "..."
func WithCatalogFile(filePath string) Option {
	return func(r *Resolver) error {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return goerr.Wrap(err, "failed to read prompt catalog",
				goerr.V("path", filePath),
			)
		}

		var catalog struct {
			Templates map[string]string `toml:"templates"`
		}
		if err := toml.Unmarshal(data, &catalog); err != nil {
			return goerr.Wrap(err, "failed to parse prompt catalog",
				goerr.V("path", filePath),
			)
		}

		for id, text := range catalog.Templates {
			r.templates[id] = text
		}
		return nil
	}
}

// New builds a resolver preloaded with the embedded templates.
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		templates: map[string]string{},
	}

	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read embedded templates")
	}
	for _, entry := range entries {
		data, err := templateFS.ReadFile(path.Join("templates", entry.Name()))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read embedded template",
				goerr.V("name", entry.Name()),
			)
		}
		id := strings.TrimSuffix(entry.Name(), ".md")
		r.templates[id] = string(data)
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Resolver) GetTemplate(templateID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	text, ok := r.templates[templateID]
	if !ok {
		return "", goerr.Wrap(types.ErrPromptValidation, "unknown prompt template",
			goerr.V("templateID", templateID),
		)
	}
	return text, nil
}

func (r *Resolver) Fill(templateID string, variables map[string]string) (string, error) {
	text, err := r.GetTemplate(templateID)
	if err != nil {
		return "", err
	}

	var unresolved []string
	filled := placeholderRegex.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := variables[name]
		if !ok {
			unresolved = append(unresolved, name)
			return match
		}
		return value
	})

	if len(unresolved) > 0 {
		return "", goerr.Wrap(types.ErrPromptValidation, "unresolved prompt placeholders",
			goerr.V("templateID", templateID),
			goerr.V("placeholders", unresolved),
		)
	}
	return filled, nil
}

func (r *Resolver) Save(templateID, text string) error {
	if templateID == "" {
		return goerr.Wrap(types.ErrPromptValidation, "template ID is empty")
	}
	if strings.TrimSpace(text) == "" {
		return goerr.Wrap(types.ErrPromptValidation, "template text is empty",
			goerr.V("templateID", templateID),
		)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[templateID] = text
	return nil
}

func (r *Resolver) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
