package prompt_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/cenate-lab/citabot/pkg/service/prompt"
	"github.com/m-mizutani/gt"
)

func TestResolverEmbeddedTemplates(t *testing.T) {
	resolver, err := prompt.New()
	gt.NoError(t, err).Required()

	ids := resolver.List()
	gt.Array(t, ids).Has("availability-system-v1")
	gt.Array(t, ids).Has("general-assistant-v1")

	text, err := resolver.GetTemplate("availability-system-v1")
	gt.NoError(t, err).Required()
	gt.Bool(t, strings.Contains(text, "{subjectId}")).True()
	gt.Bool(t, strings.Contains(text, "{currentDate}")).True()
}

func TestResolverFill(t *testing.T) {
	resolver, err := prompt.New()
	gt.NoError(t, err).Required()

	t.Run("substitutes all placeholders", func(t *testing.T) {
		filled, err := resolver.Fill("availability-system-v1", map[string]string{
			"subjectId":   "12345678",
			"currentDate": "2026-09-01",
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, strings.Contains(filled, "12345678")).True()
		gt.Bool(t, strings.Contains(filled, "2026-09-01")).True()
		gt.Bool(t, strings.Contains(filled, "{subjectId}")).False()
		gt.Bool(t, strings.Contains(filled, "{currentDate}")).False()
	})

	t.Run("extra variables are ignored", func(t *testing.T) {
		filled, err := resolver.Fill("availability-system-v1", map[string]string{
			"subjectId":   "12345678",
			"currentDate": "2026-09-01",
			"unused":      "x",
		})
		gt.NoError(t, err).Required()
		gt.String(t, filled).NotEqual("")
	})

	t.Run("missing variable fails", func(t *testing.T) {
		_, err := resolver.Fill("availability-system-v1", map[string]string{
			"subjectId": "12345678",
		})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, types.ErrPromptValidation)).True()
	})

	t.Run("unknown template fails", func(t *testing.T) {
		_, err := resolver.Fill("no-such-template", map[string]string{})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, types.ErrPromptValidation)).True()
	})
}

func TestResolverSave(t *testing.T) {
	resolver, err := prompt.New()
	gt.NoError(t, err).Required()

	t.Run("registers a new template", func(t *testing.T) {
		gt.NoError(t, resolver.Save("triage-v1", "Hola {subjectId}")).Required()

		filled, err := resolver.Fill("triage-v1", map[string]string{"subjectId": "99"})
		gt.NoError(t, err).Required()
		gt.Value(t, filled).Equal("Hola 99")
	})

	t.Run("replaces an existing template", func(t *testing.T) {
		gt.NoError(t, resolver.Save("availability-system-v1", "Versión corta {subjectId} {currentDate}")).Required()

		text, err := resolver.GetTemplate("availability-system-v1")
		gt.NoError(t, err).Required()
		gt.Value(t, text).Equal("Versión corta {subjectId} {currentDate}")
	})

	t.Run("rejects empty ID and empty text", func(t *testing.T) {
		gt.Error(t, resolver.Save("", "algo"))
		gt.Error(t, resolver.Save("x", "   "))
	})
}

func TestResolverCatalogFile(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "prompts.toml")
	catalog := `[templates]
"availability-system-v1" = "Catálogo {subjectId} {currentDate}"
"custom-v1" = "Plantilla personalizada"
`
	gt.NoError(t, os.WriteFile(catalogPath, []byte(catalog), 0600)).Required()

	resolver, err := prompt.New(prompt.WithCatalogFile(catalogPath))
	gt.NoError(t, err).Required()

	text, err := resolver.GetTemplate("availability-system-v1")
	gt.NoError(t, err).Required()
	gt.Value(t, text).Equal("Catálogo {subjectId} {currentDate}")

	custom, err := resolver.GetTemplate("custom-v1")
	gt.NoError(t, err).Required()
	gt.Value(t, custom).Equal("Plantilla personalizada")

	gt.Array(t, resolver.List()).Has("general-assistant-v1")
}

func TestResolverCatalogFileMissing(t *testing.T) {
	_, err := prompt.New(prompt.WithCatalogFile("/no/such/catalog.toml"))
	gt.Error(t, err)
}
