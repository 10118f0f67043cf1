package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// LLM holds configuration for the Gemini-backed language model client
type LLM struct {
	projectID string
	location  string
	modelName string
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("CITABOT_GEMINI_PROJECT"),
			Destination: &l.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("CITABOT_GEMINI_LOCATION"),
			Destination: &l.location,
		},
		&cli.StringFlag{
			Name:        "llm-model-name",
			Usage:       "Model identifier reported by the gateway",
			Value:       "gemini",
			Sources:     cli.EnvVars("CITABOT_LLM_MODEL_NAME"),
			Destination: &l.modelName,
		},
	}
}

// LogAttrs returns log attributes for the LLM configuration
func (l *LLM) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", l.projectID),
		slog.String("location", l.location),
		slog.String("model_name", l.modelName),
	}
}

// ModelName returns the configured gateway model label
func (l *LLM) ModelName() string {
	return l.modelName
}

// Configure creates the Gemini LLM client. Returns nil when no project
// is configured, which disables the conversational features.
func (l *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if l.projectID == "" {
		return nil, nil
	}

	client, err := gemini.New(ctx, l.projectID, l.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}
	return client, nil
}
