package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/danielfard/PruebaTecnica/internal/config"
	"github.com/danielfard/PruebaTecnica/internal/output"
	"github.com/danielfard/PruebaTecnica/internal/pipeline"
	"go.uber.org/zap"
)

var Version = "dev"

type CLI struct {
	Run     RunCmd     `cmd:"" default:"withargs" help:"Parse a DNS query log, ship it to the collector, and print a summary (default)."`
	Version VersionCmd `cmd:"version" help:"Print version."`
}

type RunCmd struct {
	File        string        `arg:"" name:"file" help:"Path to the BIND-style DNS query log."`
	CollectorID string        `env:"COLLECTOR_ID" help:"Lumu collector identifier."`
	ClientKey   string        `env:"LUMU_CLIENT_KEY" help:"Lumu client authentication key."`
	APIURL      string        `name:"api-url" help:"Collector API base URL."`
	Config      string        `name:"config" type:"path" help:"Optional YAML config file."`
	BatchSize   int           `help:"Records per upload batch."`
	Concurrency int           `help:"Maximum in-flight upload requests."`
	Top         int           `help:"Rank size for the summary tables."`
	Timeout     time.Duration `help:"Per-request upload timeout."`
	DryRun      bool          `help:"Parse and summarize without uploading."`
	Output      string        `enum:"pretty,json" default:"pretty" help:"Output format."`
	Verbose     bool          `help:"Enable verbose logging."`
	Debug       bool          `help:"Enable debug logging (includes per-line parse diagnostics)."`
}

type VersionCmd struct{}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("lumufeed"),
		kong.Description("Ship BIND DNS query logs to a Lumu collector and summarize them."),
	)

	if ctx.Selected() != nil && ctx.Selected().Name == "version" {
		fmt.Println(Version)
		return
	}

	logger, err := newLogger(cli.Run.Verbose, cli.Run.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	run(cli.Run, logger)
}

func run(cmd RunCmd, logger *zap.Logger) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !cmd.DryRun {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	result, err := pipeline.Run(ctx, pipeline.Config{
		File:        cmd.File,
		Endpoint:    cfg.Endpoint(),
		BatchSize:   cfg.Upload.BatchSize,
		Concurrency: cfg.Upload.Concurrency,
		TopN:        cfg.Report.TopN,
		Timeout:     timeout,
		DryRun:      cmd.DryRun,
		Logger:      logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var rendered string
	if cmd.Output == "json" {
		rendered, err = output.RenderJSON(result.Report)
	} else {
		rendered = output.RenderPretty(result.Report)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(rendered)
}

// loadConfig layers defaults, the optional YAML file, and CLI/env
// overrides, in that order.
func loadConfig(cmd RunCmd) (config.Config, error) {
	cfg := config.Default()
	if cmd.Config != "" {
		loaded, err := config.Load(cmd.Config)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if cmd.CollectorID != "" {
		cfg.Collector.ID = cmd.CollectorID
	}
	if cmd.ClientKey != "" {
		cfg.Collector.Key = cmd.ClientKey
	}
	if cmd.APIURL != "" {
		cfg.API.URL = cmd.APIURL
	}
	if cmd.BatchSize != 0 {
		cfg.Upload.BatchSize = cmd.BatchSize
	}
	if cmd.Concurrency != 0 {
		cfg.Upload.Concurrency = cmd.Concurrency
	}
	if cmd.Top != 0 {
		cfg.Report.TopN = cmd.Top
	}
	if cmd.Timeout != 0 {
		cfg.API.Timeout = cmd.Timeout.String()
	}
	return cfg, nil
}

func newLogger(verbose bool, debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}
