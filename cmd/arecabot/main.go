package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/arecabot/internal/api"
	"github.com/alexanderramin/arecabot/internal/cli"
	"github.com/alexanderramin/arecabot/internal/config"
	"github.com/alexanderramin/arecabot/internal/db"
	"github.com/alexanderramin/arecabot/internal/dialogue"
	"github.com/alexanderramin/arecabot/internal/domain"
	"github.com/alexanderramin/arecabot/internal/knowledge"
	"github.com/alexanderramin/arecabot/internal/logger"
	"github.com/alexanderramin/arecabot/internal/metrics"
	"github.com/alexanderramin/arecabot/internal/repository"
	"github.com/alexanderramin/arecabot/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "_CONFIG"))
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	kb, err := loadKnowledge(cfg.Knowledge.Path)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	convRepo := repository.NewSQLiteConversationRepo(database)
	turnRepo := repository.NewSQLiteTurnRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	engineOpts := []dialogue.Option{
		dialogue.WithThresholds(cfg.Dialogue.Thresholds),
		dialogue.WithLogger(log.With(logger.Fields{"component": "dialogue"})),
	}
	if cfg.Dialogue.Seed != 0 {
		engineOpts = append(engineOpts, dialogue.WithSeed(cfg.Dialogue.Seed))
	}
	engine := dialogue.NewEngine(kb, engineOpts...)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	observers := []service.UseCaseObserver{
		service.NewLogUseCaseObserver(log),
		service.NewMetricsUseCaseObserver(m),
	}

	newChat := func(ch domain.Channel) service.ChatService {
		return service.NewChatService(engine, convRepo, turnRepo, uow,
			service.WithChannel(ch),
			service.WithSessionTTL(cfg.Dialogue.SessionTTL),
			service.WithLogger(log.With(logger.Fields{"channel": string(ch)})),
			service.WithObservers(observers...),
		)
	}
	advice := service.NewAdviceService(kb, observers...)

	app := &cli.App{
		Chat:        newChat(domain.ChannelCLI),
		Advice:      advice,
		HistoryPath: cfg.History.Path,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	app.Serve = func(ctx context.Context) error {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		chat := newChat(domain.ChannelHTTP)
		go service.RunSweeper(ctx, chat, sweepInterval(cfg.Dialogue.SessionTTL))

		router := api.NewRouter(api.Deps{
			Chat:     chat,
			Advice:   advice,
			Log:      log.With(logger.Fields{"component": "http"}),
			Metrics:  m,
			Gatherer: reg,
		})
		return api.Serve(ctx, cfg.Server.Addr(), router, log)
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

// loadKnowledge returns the embedded knowledge base, or the one at path.
func loadKnowledge(path string) (*knowledge.Base, error) {
	if path == "" {
		return knowledge.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening knowledge base: %w", err)
	}
	defer f.Close()

	kb, err := knowledge.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base %s: %w", path, err)
	}
	return kb, nil
}

// sweepInterval checks for idle sessions a few times per TTL. Zero disables
// the sweeper.
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return max(ttl/4, time.Second)
}
