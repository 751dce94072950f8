// Package loader replays a generated payment dataset into a running server
// through the submission endpoint.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/natnael/payops/internal/generator"
)

// TaskError accumulates multiple errors produced during bulk submission.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Loader submits payment records concurrently using a worker pool. Each
// request carries a generated Idempotency-Key so interrupted runs can be
// re-executed safely.
type Loader struct {
	client  *http.Client
	baseURL string
	workers int
}

// New creates a Loader targeting the given server base URL.
func New(baseURL string, workers int) *Loader {
	if workers <= 0 {
		workers = 4
	}
	return &Loader{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		workers: workers,
	}
}

// Submit posts the provided records through the worker pool.
func (l *Loader) Submit(ctx context.Context, records []generator.Record) error {
	if len(records) == 0 {
		return nil
	}

	indexCh := make(chan int)
	errCh := make(chan error, len(records))
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := l.submitOne(ctx, records[idx]); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < l.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := range records {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}

func (l *Loader) submitOne(ctx context.Context, record generator.Record) error {
	payload, err := json.Marshal(map[string]any{
		"id":               record.ID,
		"amount":           record.Amount,
		"currency":         record.Currency,
		"recipientName":    record.RecipientName,
		"recipientAccount": record.RecipientAccount,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", record.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/payments", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request for %s: %w", record.ID, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit %s: %w", record.ID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		// Already present; bulk loads are restartable.
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("submit %s: unexpected status %d: %s", record.ID, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
