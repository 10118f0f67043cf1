package config

import (
	"log/slog"
	"time"

	"github.com/cenate-lab/citabot/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Chatbot holds CLI flags for the orchestration knobs
type Chatbot struct {
	templateID    string
	windowSize    int
	temperature   float64
	maxTokens     int
	promptCatalog string
}

// Flags returns CLI flags for chatbot configuration
func (c *Chatbot) Flags() []cli.Flag {
	defaults := usecase.DefaultChatbotConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "chatbot-template-id",
			Usage:       "Prompt template for availability conversations",
			Value:       defaults.TemplateID,
			Sources:     cli.EnvVars("CITABOT_CHATBOT_TEMPLATE_ID"),
			Destination: &c.templateID,
		},
		&cli.IntFlag{
			Name:        "chatbot-window-size",
			Usage:       "Number of trailing messages sent to the model",
			Value:       defaults.WindowSize,
			Sources:     cli.EnvVars("CITABOT_CHATBOT_WINDOW_SIZE"),
			Destination: &c.windowSize,
		},
		&cli.FloatFlag{
			Name:        "chatbot-temperature",
			Usage:       "Sampling temperature for model calls",
			Value:       defaults.Temperature,
			Sources:     cli.EnvVars("CITABOT_CHATBOT_TEMPERATURE"),
			Destination: &c.temperature,
		},
		&cli.IntFlag{
			Name:        "chatbot-max-tokens",
			Usage:       "Maximum tokens per model reply",
			Value:       defaults.MaxTokens,
			Sources:     cli.EnvVars("CITABOT_CHATBOT_MAX_TOKENS"),
			Destination: &c.maxTokens,
		},
		&cli.StringFlag{
			Name:        "prompt-catalog",
			Usage:       "Optional TOML catalog overriding the embedded prompt templates",
			Sources:     cli.EnvVars("CITABOT_PROMPT_CATALOG"),
			Destination: &c.promptCatalog,
		},
	}
}

// PromptCatalog returns the optional catalog file path
func (c *Chatbot) PromptCatalog() string {
	return c.promptCatalog
}

// LogAttrs returns log attributes for the chatbot configuration
func (c *Chatbot) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("template_id", c.templateID),
		slog.Int("window_size", c.windowSize),
		slog.Float64("temperature", c.temperature),
		slog.Int("max_tokens", c.maxTokens),
	}
}

// Config builds the orchestrator configuration with the given session
// TTL.
func (c *Chatbot) Config(sessionTTL time.Duration) usecase.ChatbotConfig {
	return usecase.ChatbotConfig{
		TemplateID:  c.templateID,
		WindowSize:  c.windowSize,
		SessionTTL:  sessionTTL,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
}
