package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/gregt1993/Health-Bridge/components/healthboard"
	"github.com/gregt1993/Health-Bridge/components/healthboard/queries"
	"github.com/gregt1993/Health-Bridge/components/ingest"
	"github.com/gregt1993/Health-Bridge/components/ingest/commands"
	"github.com/gregt1993/Health-Bridge/components/server"
	"github.com/gregt1993/Health-Bridge/pkg/config"
	"github.com/gregt1993/Health-Bridge/pkg/states"
)

type cli struct {
	Serve serveCmd `cmd:"" default:"1" help:"Run the webhook receiver and dashboard."`
	Prune pruneCmd `cmd:"" help:"Delete persisted readings older than the retention window."`
}

type serveCmd struct {
	Config    string   `type:"path" help:"Path to the YAML configuration file."`
	Listen    string   `help:"Listen address override (e.g. :8099)."`
	DB        string   `type:"path" help:"SQLite database path override."`
	Manifests []string `type:"path" help:"Card manifest files to register (repeatable)."`
}

type pruneCmd struct {
	Config string `type:"path" help:"Path to the YAML configuration file."`
	DB     string `type:"path" help:"SQLite database path override."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Health Bridge webhook receiver and dashboard."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Listen != "" {
		cfg.Server.Listen = cmd.Listen
	}
	if cmd.DB != "" {
		cfg.Storage.Path = cmd.DB
	}

	store, err := states.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := states.NewRegistry()
	persisted, err := store.States()
	if err != nil {
		return err
	}
	registry.Load(persisted)

	notices := ingest.NewNotificationCenter()
	service, err := ingest.NewService(ingest.Options{
		States:   registry,
		History:  store,
		Notifier: notices,
	})
	if err != nil {
		return err
	}

	cards := healthboard.NewRegistry()
	for _, path := range append(cfg.Dashboard.Manifests, cmd.Manifests...) {
		doc, err := cards.LoadManifestFile(path)
		if err != nil {
			return err
		}
		log.Printf("registered %d cards from %s", len(doc.Cards), path)
	}
	cardConfig := map[string]any{"title": cfg.Dashboard.Title}
	if err := cards.ValidateConfig(healthboard.CardType, cardConfig); err != nil {
		return fmt.Errorf("healthbridged: dashboard config invalid: %w", err)
	}

	renderer, err := healthboard.NewTemplateRenderer()
	if err != nil {
		return err
	}
	card := healthboard.NewMetricsCard(healthboard.CardOptions{Renderer: renderer})
	card.Configure(cardConfig)

	srv, err := server.New(server.Options{
		States:        registry,
		Sync:          commands.NewSyncCommand(service, nil),
		TestConn:      commands.NewTestConnectionCommand(service, nil),
		Card:          card,
		Board:         queries.NewBoardQuery(card, registry),
		Groups:        queries.NewUserGroupQuery(card),
		Trends:        healthboard.NewTrendProvider(store),
		Notifications: notices,
		Renderer:      renderer,
		Title:         cfg.Dashboard.Title,
	})
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("listening on %s (dashboard at /dashboard)", cfg.Server.Listen)
	return srv.Run(runCtx, cfg.Server.Listen)
}

func (cmd *pruneCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.DB != "" {
		cfg.Storage.Path = cmd.DB
	}

	store, err := states.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	prune := commands.NewPruneHistoryCommand(store, nil)
	if err := prune.Execute(ctx, commands.PruneHistoryInput{Retention: cfg.Storage.Retention}); err != nil {
		return err
	}
	log.Printf("pruned readings older than %s", cfg.Storage.Retention)
	return nil
}
