// Package seed fetches the demo transaction list.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/transfer"
)

// DefaultLocation is the demo file shipped with the repository.
const DefaultLocation = "data/demo.json"

// Source fetches seed data from a file path or an http(s) URL.
type Source struct {
	Location string
	Client   *http.Client
}

func New(location string) *Source {
	if location == "" {
		location = DefaultLocation
	}
	return &Source{
		Location: location,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Source) isRemote() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

// Fetch returns the seed transactions. Every failure, including a payload
// that is not a JSON array of valid records, is a *core.FetchError.
func (s *Source) Fetch(ctx context.Context) ([]core.Transaction, error) {
	var (
		data []byte
		err  error
	)
	if s.isRemote() {
		data, err = s.fetchRemote(ctx)
	} else {
		data, err = os.ReadFile(s.Location)
	}
	if err != nil {
		return nil, &core.FetchError{Source: s.Location, Err: err}
	}

	txs, err := transfer.DecodeJSON(data)
	if err != nil {
		return nil, &core.FetchError{Source: s.Location, Err: err}
	}
	return txs, nil
}

func (s *Source) fetchRemote(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}

// LoadOrEmpty is Fetch with the failure resolved to an empty list. The error
// is still returned so callers can surface it.
func (s *Source) LoadOrEmpty(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.Fetch(ctx)
	if err != nil {
		return []core.Transaction{}, err
	}
	return txs, nil
}

// IsFetchError reports whether err came from a seed fetch.
func IsFetchError(err error) bool {
	var fe *core.FetchError
	return errors.As(err, &fe)
}
