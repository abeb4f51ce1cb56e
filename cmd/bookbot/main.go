package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "bookbot/handlers/autoload"

	"bookbot/internal/calendar"
	"bookbot/internal/chat"
	"bookbot/internal/config"
	"bookbot/internal/handler"
	"bookbot/internal/intent"
	"bookbot/internal/llm"
	"bookbot/internal/logging"
	"bookbot/internal/schedule"
	"bookbot/internal/telegram"
	"bookbot/internal/timeparse"
	"bookbot/internal/tui"
	"bookbot/internal/webui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bookbot",
		Short:        "Conversational appointment booking assistant",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd.Context())
		},
	}
	root.AddCommand(newChatCmd(), newServeCmd(), newTelegramCmd(), newAskCmd())
	return root
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive terminal chat",
		RunE: func(*cobra.Command, []string) error {
			app, err := bootstrap(context.Background())
			if err != nil {
				return err
			}
			defer app.close()
			return tui.Run(app.newService(), app.rules)
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web chat UI",
		RunE: func(*cobra.Command, []string) error {
			ctx, stop := signalContext()
			defer stop()

			app, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			srv := webui.NewServer(app.newService(), app.rules, app.cfg.HTTPPort, app.log)
			return srv.Start(ctx)
		},
	}
}

func newTelegramCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "telegram",
		Short: "Run the Telegram bot",
		RunE: func(*cobra.Command, []string) error {
			ctx, stop := signalContext()
			defer stop()

			app, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			bot, err := telegram.NewBot(app.cfg.TelegramToken, app.newService, app.log)
			if err != nil {
				return err
			}
			return bot.Start(ctx)
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [message]",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer app.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			reply, err := app.newService().Send(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(reply.Text)
			return nil
		},
	}
}

func runREPL(ctx context.Context) error {
	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.close()

	service := app.newService()

	fmt.Printf("bookbot (%s, hours %s)\n", app.cfg.LLMModel, app.rules.HoursDisplay())
	fmt.Println("Type /exit to quit, /clear to reset context.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		switch input {
		case "/exit", "exit", "quit":
			return nil
		case "/clear":
			service.Clear()
			fmt.Println("context cleared")
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctx, time.Minute)
		reply, err := service.Send(turnCtx, input)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(reply.Text)
	}
}

// app holds everything one front end needs.
type app struct {
	cfg       config.Config
	rules     schedule.Rules
	deps      handler.Deps
	extractor intent.Extractor
	log       *zap.Logger
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}

	provider, err := buildProvider(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	deps := handler.Deps{
		Rules:    rules,
		Parser:   timeparse.New(rules.Location),
		Engine:   schedule.NewEngine(rules, calendar.BusySource{Provider: provider}, log),
		Provider: provider,
		Log:      log,
	}

	return &app{
		cfg:       cfg,
		rules:     rules,
		deps:      deps,
		extractor: buildExtractor(cfg, rules, log),
		log:       log,
	}, nil
}

// newService builds a fresh conversation over the shared dependencies.
func (a *app) newService() *chat.Service {
	return chat.NewService(a.extractor, a.deps)
}

func (a *app) close() {
	_ = a.log.Sync()
}

func buildProvider(ctx context.Context, cfg config.Config, log *zap.Logger) (calendar.Provider, error) {
	if cfg.GoogleCredentialsFile == "" && cfg.GoogleCredentialsJSON == "" {
		log.Warn("no calendar credentials configured, using in-memory calendar")
		return calendar.NewMemoryProvider(), nil
	}
	return calendar.NewGoogleProvider(ctx, calendar.GoogleOptions{
		CalendarID:      cfg.CalendarID,
		CredentialsPath: cfg.GoogleCredentialsFile,
		CredentialsJSON: cfg.GoogleCredentialsJSON,
	}, log)
}

func buildExtractor(cfg config.Config, rules schedule.Rules, log *zap.Logger) intent.Extractor {
	client, err := llm.New(llm.Provider(cfg.LLMProvider), cfg.LLMModel, cfg.LLMBaseURL)
	if err != nil {
		log.Warn("intent model unavailable, using keyword extraction", zap.Error(err))
		return intent.KeywordExtractor{}
	}
	return intent.NewLLMExtractor(client, rules, log)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
