package uploader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielfard/PruebaTecnica/internal/model"
)

func makeBatches(total, size int) [][]model.Record {
	records := make([]model.Record, total)
	for i := range records {
		records[i] = model.Record{
			Timestamp:  model.Timestamp(time.Date(2021, 5, 18, 16, 34, 13, 3000, time.UTC)),
			Name:       fmt.Sprintf("host-%d.example.com", i),
			ClientIP:   "10.0.0.1",
			ClientName: "@0xdeadbeef",
			Type:       "A",
		}
	}
	batches := [][]model.Record{}
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

func TestUploadDeliversAllBatches(t *testing.T) {
	var mu sync.Mutex
	sizes := []int{}
	var firstBody []map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/collectors/abc/dns/queries" || r.URL.Query().Get("key") != "s3cret" {
			t.Errorf("unexpected request target: %s", r.URL)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		var payload []map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("decode body: %v", err)
		}
		mu.Lock()
		sizes = append(sizes, len(payload))
		if firstBody == nil {
			firstBody = payload
		}
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	up := New(Options{Endpoint: server.URL + "/collectors/abc/dns/queries?key=s3cret"})
	outcomes := up.Upload(context.Background(), makeBatches(1200, 500))

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	for i, outcome := range outcomes {
		if !outcome.OK() {
			t.Fatalf("batch %d failed: %v", i, outcome.Err)
		}
		if outcome.StatusCode != http.StatusOK {
			t.Fatalf("batch %d status %d", i, outcome.StatusCode)
		}
	}
	if outcomes[0].Records != 500 || outcomes[1].Records != 500 || outcomes[2].Records != 200 {
		t.Fatalf("unexpected batch sizes: %#v", outcomes)
	}

	total := 0
	for _, size := range sizes {
		total += size
	}
	if len(sizes) != 3 || total != 1200 {
		t.Fatalf("collector saw %d requests with %d records", len(sizes), total)
	}
	for _, key := range []string{"timestamp", "name", "client_ip", "client_name", "type"} {
		if _, ok := firstBody[0][key]; !ok {
			t.Fatalf("wire record missing key %q: %#v", key, firstBody[0])
		}
	}
	if firstBody[0]["timestamp"] != "2021-05-18T16:34:13.000003Z" {
		t.Fatalf("unexpected wire timestamp: %v", firstBody[0]["timestamp"])
	}
}

func TestUploadRespectsConcurrencyBound(t *testing.T) {
	var inflight, peak int64
	doer := &MockDoer{Handler: func(req *http.Request) (*http.Response, error) {
		current := atomic.AddInt64(&inflight, 1)
		for {
			seen := atomic.LoadInt64(&peak)
			if current <= seen || atomic.CompareAndSwapInt64(&peak, seen, current) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&inflight, -1)
		return &http.Response{StatusCode: http.StatusOK, Status: "200 OK", Body: http.NoBody}, nil
	}}

	up := New(Options{Endpoint: "http://collector.invalid/ingest", Concurrency: 3, Client: doer})
	outcomes := up.Upload(context.Background(), makeBatches(120, 10))

	if len(outcomes) != 12 {
		t.Fatalf("expected 12 outcomes, got %d", len(outcomes))
	}
	if got := atomic.LoadInt64(&peak); got > 3 {
		t.Fatalf("concurrency bound exceeded: peak %d", got)
	}
}

func TestUploadFailureDoesNotAbortSiblings(t *testing.T) {
	var calls int64
	doer := &MockDoer{Handler: func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		var payload []model.Record
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("decode body: %v", err)
		}
		atomic.AddInt64(&calls, 1)
		if payload[0].Name == "host-10.example.com" {
			return &http.Response{StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway", Body: http.NoBody}, nil
		}
		return &http.Response{StatusCode: http.StatusAccepted, Status: "202 Accepted", Body: http.NoBody}, nil
	}}

	up := New(Options{Endpoint: "http://collector.invalid/ingest", Client: doer})
	outcomes := up.Upload(context.Background(), makeBatches(30, 10))

	if got := atomic.LoadInt64(&calls); got != 3 {
		t.Fatalf("expected all 3 batches dispatched, got %d", got)
	}
	if outcomes[0].Err != nil || outcomes[2].Err != nil {
		t.Fatalf("sibling batches affected: %#v", outcomes)
	}
	if outcomes[1].Err == nil || outcomes[1].StatusCode != http.StatusBadGateway {
		t.Fatalf("expected batch 1 to fail with 502: %#v", outcomes[1])
	}
}

func TestUploadTransportErrorRecorded(t *testing.T) {
	doer := &MockDoer{Handler: func(req *http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("connection refused")
	}}

	up := New(Options{Endpoint: "http://collector.invalid/ingest", Client: doer})
	outcomes := up.Upload(context.Background(), makeBatches(5, 5))

	if len(outcomes) != 1 || outcomes[0].OK() {
		t.Fatalf("expected failed outcome, got %#v", outcomes)
	}
}
