package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cenate-lab/citabot/pkg/cli/config"
	httpctrl "github.com/cenate-lab/citabot/pkg/controller/http"
	"github.com/cenate-lab/citabot/pkg/service/availability"
	"github.com/cenate-lab/citabot/pkg/service/functions"
	"github.com/cenate-lab/citabot/pkg/service/llm"
	"github.com/cenate-lab/citabot/pkg/service/prompt"
	"github.com/cenate-lab/citabot/pkg/usecase"
	"github.com/cenate-lab/citabot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var llmCfg config.LLM
	var sessionCfg config.SessionStore
	var auditCfg config.Audit
	var chatbotCfg config.Chatbot

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CITABOT_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, sessionCfg.Flags()...)
	flags = append(flags, auditCfg.Flags()...)
	flags = append(flags, chatbotCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required for serve")
			}

			sessions, closeSessions, err := sessionCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize session store")
			}
			defer closeSessions()

			audit, closeAudit, err := auditCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize audit repository")
			}
			defer closeAudit()

			promptOpts := []prompt.Option{}
			if path := chatbotCfg.PromptCatalog(); path != "" {
				promptOpts = append(promptOpts, prompt.WithCatalogFile(path))
			}
			prompts, err := prompt.New(promptOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize prompt resolver")
			}

			// TODO: replace the in-memory scheduling backend with the
			// institutional scheduling API client once it is available.
			scheduling := availability.New(
				availability.WithSlots(availability.DemoSlots(time.Now().UTC())...),
			)
			registry := functions.NewRegistry()
			if err := functions.RegisterDefaults(registry, scheduling); err != nil {
				return goerr.Wrap(err, "failed to register functions")
			}

			gateway := llm.New(llmClient, registry,
				llm.WithModelName(llmCfg.ModelName()),
			)

			uc := usecase.NewChatbot(sessions, gateway, registry, prompts, audit,
				usecase.WithConfig(chatbotCfg.Config(sessionCfg.TTL())),
			)

			server := httpctrl.New(uc,
				httpctrl.WithHealthGateway(gateway),
			)

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				logger.Info("Starting HTTP server", "addr", addr, "model", gateway.ModelName())
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "HTTP server failed")
				}
				return nil
			})
			eg.Go(func() error {
				<-ctx.Done()
				logger.Info("Shutting down HTTP server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shut down HTTP server")
				}
				return nil
			})

			return eg.Wait()
		},
	}
}
