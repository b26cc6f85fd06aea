package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
	"gopkg.in/natefinch/lumberjack.v2"

	"git.home.luguber.info/inful/texbuilder/internal/build"
	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/metrics"
	"git.home.luguber.info/inful/texbuilder/internal/repo"
	"git.home.luguber.info/inful/texbuilder/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"texbuilder.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Document string   `arg:"" help:"LaTeX document to compile (path inside --repo when set)"`
		Output   string   `short:"o" help:"Output directory (overrides config)"`
		Exclude  []string `help:"Source entry names to exclude from the build"`
		Repo     string   `help:"Git repository URL to clone and build from"`
		Branch   string   `help:"Branch to check out when --repo is set"`
	} `cmd:"" help:"Compile a LaTeX document"`

	Watch struct {
		Document string   `arg:"" help:"LaTeX document to compile on every change"`
		Output   string   `short:"o" help:"Output directory (overrides config)"`
		Exclude  []string `help:"Source entry names to exclude from the build"`
	} `cmd:"" help:"Watch the source tree and rebuild on changes"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	History struct {
		Limit int `short:"n" help:"Number of builds to show" default:"20"`
	} `cmd:"" help:"Show recent builds"`
}

func main() {
	ctx := kong.Parse(&CLI)

	switch ctx.Command() {
	case "build <document>":
		cfg := mustLoadConfig()
		setupLogging(cfg)
		if err := runBuild(cfg); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "watch <document>":
		cfg := mustLoadConfig()
		setupLogging(cfg)
		if err := runWatch(cfg); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	case "init":
		setupLogging(config.Default())
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Wrote configuration", "path", CLI.Config)
	case "history":
		cfg := mustLoadConfig()
		setupLogging(cfg)
		if err := runHistory(cfg); err != nil {
			slog.Error("History failed", "error", err)
			os.Exit(1)
		}
	}
}

// mustLoadConfig loads the configuration file, falling back to defaults when
// the default config path does not exist.
func mustLoadConfig() *config.Config {
	if _, err := os.Stat(CLI.Config); os.IsNotExist(err) && CLI.Config == "texbuilder.yaml" {
		return config.Default()
	}
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if cfg.Logging.File != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func runBuild(cfg *config.Config) error {
	sourcePath := CLI.Build.Document

	if CLI.Build.Repo != "" {
		workspace, err := os.MkdirTemp("", "texbuilder-repo-")
		if err != nil {
			return fmt.Errorf("failed to create repository workspace: %w", err)
		}
		defer func() {
			if err := os.RemoveAll(workspace); err != nil {
				slog.Warn("Failed to clean repository workspace", "error", err)
			}
		}()

		repoPath, err := repo.NewClient(workspace).Clone(repo.CloneOptions{
			URL:    CLI.Build.Repo,
			Branch: CLI.Build.Branch,
			Token:  os.Getenv("TEXBUILDER_GIT_TOKEN"),
		})
		if err != nil {
			return err
		}
		sourcePath = joinInside(repoPath, CLI.Build.Document)
	}

	req := build.Request{
		SourcePath: sourcePath,
		OutputDir:  outputDir(cfg, CLI.Build.Output),
		Exclude:    append(append([]string{}, cfg.Exclude...), CLI.Build.Exclude...),
	}

	builder := build.NewBuilder(cfg, nil, nil)
	sink := newResultSink(cfg)
	defer sink.Close()

	res, err := builder.Compile(context.Background(), req)
	sink.Record(res, err)
	return err
}

func runWatch(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	req := build.Request{
		SourcePath: CLI.Watch.Document,
		OutputDir:  outputDir(cfg, CLI.Watch.Output),
		Exclude:    append(append([]string{}, cfg.Exclude...), CLI.Watch.Exclude...),
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)
	builder := build.NewBuilder(cfg, nil, recorder)

	sink := newResultSink(cfg)
	defer sink.Close()

	daemon := watch.NewDaemon(cfg, builder, req).
		WithResultHook(sink.Record).
		WithMetricsHandler(metrics.HTTPHandler(registry))
	return daemon.Run(ctx)
}

func runHistory(cfg *config.Config) error {
	if cfg.History.Path == "" {
		return fmt.Errorf("build history is not configured (set history.path)")
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), CLI.History.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No builds recorded yet.")
		return nil
	}
	for _, rec := range records {
		line := fmt.Sprintf("%s  %-7s  %s  passes=%d  %s",
			rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.Outcome, rec.Document, rec.EnginePasses, rec.Duration)
		if rec.ErrorText != "" {
			line += "  error: " + rec.ErrorText
		}
		fmt.Println(line)
	}
	return nil
}

func outputDir(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.Output.Directory
}
