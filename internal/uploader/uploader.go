package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/danielfard/PruebaTecnica/internal/model"
	"go.uber.org/zap"
)

// Doer abstracts the HTTP client so tests can inject a fake collector.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	Endpoint    string
	Concurrency int
	Timeout     time.Duration
	Client      Doer
	Logger      *zap.Logger
}

type Uploader struct {
	opts Options
}

// Outcome is the terminal state of one batch delivery.
type Outcome struct {
	Batch      int
	Records    int
	StatusCode int
	Err        error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

func New(opts Options) *Uploader {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Uploader{opts: opts}
}

// Upload posts every batch to the collector, at most Concurrency in
// flight at a time, and returns once all of them are terminal. A failed
// batch never blocks or cancels its siblings; the caller gets one
// Outcome per batch, in batch order, and no aggregate error.
func (u *Uploader) Upload(ctx context.Context, batches [][]model.Record) []Outcome {
	outcomes := make([]Outcome, len(batches))
	wg := sync.WaitGroup{}
	sem := make(chan struct{}, u.opts.Concurrency)

	for i, records := range batches {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, recs []model.Record) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := u.post(ctx, idx, recs)
			if outcome.Err != nil {
				u.opts.Logger.Warn("batch delivery failed",
					zap.Int("batch", idx),
					zap.Int("records", len(recs)),
					zap.Error(outcome.Err),
				)
			} else {
				u.opts.Logger.Debug("batch delivered",
					zap.Int("batch", idx),
					zap.Int("records", len(recs)),
					zap.Int("status", outcome.StatusCode),
				)
			}
			outcomes[idx] = outcome
		}(i, records)
	}

	wg.Wait()
	return outcomes
}

func (u *Uploader) post(ctx context.Context, idx int, records []model.Record) Outcome {
	outcome := Outcome{Batch: idx, Records: len(records)}

	body, err := json.Marshal(records)
	if err != nil {
		outcome.Err = fmt.Errorf("encode batch: %w", err)
		return outcome
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		outcome.Err = fmt.Errorf("build request: %w", err)
		return outcome
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.opts.Client.Do(req)
	if err != nil {
		outcome.Err = fmt.Errorf("post batch: %w", err)
		return outcome
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	outcome.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome.Err = fmt.Errorf("collector returned %s", resp.Status)
	}
	return outcome
}
