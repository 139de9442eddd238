package pipeline

import (
	"context"
	"time"

	"github.com/danielfard/PruebaTecnica/internal/batch"
	"github.com/danielfard/PruebaTecnica/internal/model"
	"github.com/danielfard/PruebaTecnica/internal/parser"
	"github.com/danielfard/PruebaTecnica/internal/stats"
	"github.com/danielfard/PruebaTecnica/internal/uploader"
	"go.uber.org/zap"
)

type Config struct {
	File        string
	Endpoint    string
	BatchSize   int
	Concurrency int
	TopN        int
	Timeout     time.Duration
	DryRun      bool
	Client      uploader.Doer
	Logger      *zap.Logger
}

type Result struct {
	Report   model.Report
	Outcomes []uploader.Outcome
}

// Run executes the full pipeline: a sequential parse of the whole log,
// then a bounded-concurrency upload of the batches, then an aggregation
// pass over the same records. Parsing completes before either
// downstream stage starts. Only an unreadable log or an invalid batch
// size is fatal; delivery failures land in Result.Outcomes.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 500
	}
	if cfg.TopN == 0 {
		cfg.TopN = 5
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	records, err := parser.ParseFile(cfg.File, parser.Config{Logger: cfg.Logger})
	if err != nil {
		return Result{}, err
	}
	cfg.Logger.Info("parsed query log", zap.String("file", cfg.File), zap.Int("records", len(records)))

	batches, err := batch.Split(records, cfg.BatchSize)
	if err != nil {
		return Result{}, err
	}

	result := Result{}
	if !cfg.DryRun && len(batches) > 0 {
		up := uploader.New(uploader.Options{
			Endpoint:    cfg.Endpoint,
			Concurrency: cfg.Concurrency,
			Timeout:     cfg.Timeout,
			Client:      cfg.Client,
			Logger:      cfg.Logger,
		})
		result.Outcomes = up.Upload(ctx, batches)

		failed := 0
		for _, outcome := range result.Outcomes {
			if !outcome.OK() {
				failed++
			}
		}
		if failed > 0 {
			cfg.Logger.Warn("some batches were not delivered",
				zap.Int("batches", len(batches)),
				zap.Int("failed", failed),
			)
		} else {
			cfg.Logger.Info("all batches delivered", zap.Int("batches", len(batches)))
		}
	}

	result.Report = stats.Summarize(records, cfg.TopN)
	return result, nil
}
