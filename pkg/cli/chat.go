package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/cenate-lab/citabot/pkg/cli/config"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/cenate-lab/citabot/pkg/repository/memory"
	"github.com/cenate-lab/citabot/pkg/service/availability"
	"github.com/cenate-lab/citabot/pkg/service/functions"
	"github.com/cenate-lab/citabot/pkg/service/llm"
	"github.com/cenate-lab/citabot/pkg/service/prompt"
	"github.com/cenate-lab/citabot/pkg/usecase"
)

func cmdChat() *cli.Command {
	var subjectID string
	var actorID int
	var kind string
	var llmCfg config.LLM
	var chatbotCfg config.Chatbot

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "subject-id",
			Usage:       "Patient document number for the conversation",
			Value:       "00000000",
			Sources:     cli.EnvVars("CITABOT_SUBJECT_ID"),
			Destination: &subjectID,
		},
		&cli.IntFlag{
			Name:        "actor-id",
			Usage:       "User ID recorded in the audit trail",
			Value:       1,
			Sources:     cli.EnvVars("CITABOT_ACTOR_ID"),
			Destination: &actorID,
		},
		&cli.StringFlag{
			Name:        "kind",
			Usage:       "Conversation kind (AVAILABILITY_SEARCH, GENERAL, ...)",
			Value:       string(types.KindAvailabilitySearch),
			Sources:     cli.EnvVars("CITABOT_CHAT_KIND"),
			Destination: &kind,
		},
	}
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, chatbotCfg.Flags()...)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Interactive chat session against the in-memory stack",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required for chat")
			}

			promptOpts := []prompt.Option{}
			if path := chatbotCfg.PromptCatalog(); path != "" {
				promptOpts = append(promptOpts, prompt.WithCatalogFile(path))
			}
			prompts, err := prompt.New(promptOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize prompt resolver")
			}

			scheduling := availability.New(
				availability.WithSlots(availability.DemoSlots(time.Now().UTC())...),
			)
			registry := functions.NewRegistry()
			if err := functions.RegisterDefaults(registry, scheduling); err != nil {
				return goerr.Wrap(err, "failed to register functions")
			}

			cfg := chatbotCfg.Config(usecase.DefaultChatbotConfig().SessionTTL)
			uc := usecase.NewChatbot(
				memory.NewSessionStore(cfg.SessionTTL),
				llm.New(llmClient, registry, llm.WithModelName(llmCfg.ModelName())),
				registry,
				prompts,
				memory.NewAuditRepository(),
				usecase.WithConfig(cfg),
			)

			return runChatLoop(ctx, uc, types.ConversationKind(kind), subjectID, int64(actorID))
		},
	}
}

func runChatLoop(ctx context.Context, uc *usecase.Chatbot, kind types.ConversationKind, subjectID string, actorID int64) error {
	info := color.New(color.FgYellow)
	assistant := color.New(color.FgCyan)
	errOut := color.New(color.FgRed)

	info.Println("citabot: escriba su consulta. Comandos: /confirmar <id>, /historial, /salir")

	var sessionID types.SessionID
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := runChatCommand(ctx, uc, sessionID, line, info, assistant)
			if err != nil {
				errOut.Println(err.Error())
				continue
			}
			if done {
				break
			}
			continue
		}

		resp, err := sendChatMessage(ctx, uc, kind, subjectID, actorID, sessionID, line)
		if err != nil {
			errOut.Println(err.Error())
			continue
		}
		sessionID = resp.SessionID

		assistant.Println(resp.Reply)
		if resp.ActionRequired {
			printSuggestions(info, resp.Suggestions)
		}
	}

	if sessionID != "" {
		if err := uc.EndConversation(ctx, sessionID); err != nil {
			return goerr.Wrap(err, "failed to end conversation")
		}
	}
	return scanner.Err()
}

func sendChatMessage(ctx context.Context, uc *usecase.Chatbot, kind types.ConversationKind, subjectID string, actorID int64, sessionID types.SessionID, message string) (*usecase.ChatResponse, error) {
	if sessionID == "" {
		return uc.StartConversation(ctx, kind, subjectID, actorID, message)
	}
	return uc.ContinueConversation(ctx, sessionID, message)
}

func runChatCommand(ctx context.Context, uc *usecase.Chatbot, sessionID types.SessionID, line string, info, assistant *color.Color) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/salir", "/exit":
		return true, nil

	case "/confirmar", "/confirm":
		if len(fields) < 2 {
			return false, goerr.New("uso: /confirmar <availabilityId>")
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return false, goerr.Wrap(err, "invalid availability ID", goerr.V("input", fields[1]))
		}
		if sessionID == "" {
			return false, goerr.New("no hay una conversación activa")
		}
		resp, err := uc.ConfirmAppointment(ctx, sessionID, types.AvailabilityID(id))
		if err != nil {
			return false, err
		}
		assistant.Println(resp.Message)
		assistant.Println(resp.FollowUpNote)
		info.Printf("cita %d confirmada, sesión %s\n", resp.AppointmentID, resp.SessionID)
		return true, nil

	case "/historial", "/history":
		if sessionID == "" {
			return false, goerr.New("no hay una conversación activa")
		}
		history, err := uc.GetHistory(ctx, sessionID)
		if err != nil {
			return false, err
		}
		for _, msg := range history {
			info.Printf("[%s] %s\n", msg.Role, msg.Content)
		}
		return false, nil

	default:
		return false, goerr.New("comando desconocido", goerr.V("command", fields[0]))
	}
}

func printSuggestions(out *color.Color, suggestions []model.AvailabilitySuggestion) {
	out.Println("Horarios sugeridos:")
	for _, s := range suggestions {
		out.Printf("  [%d] %s con %s, %s %s-%s (%s)\n",
			s.AvailabilityID, s.Specialty, s.ProviderName,
			s.Date, s.StartTime, s.EndTime, s.FacilityName,
		)
	}
	out.Println("Use /confirmar <id> para reservar un horario.")
}
