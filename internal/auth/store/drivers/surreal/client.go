// Package surreal implements the store against a SurrealDB instance
// reached over its HTTP /sql endpoint. Every statement travels with bound
// $vars; values are never interpolated into query text.
package surreal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config carries the connection settings for the remote database. All
// fields except HTTPClient are required and validated by NewStore.
type Config struct {
	Endpoint  string // base URL, e.g. https://db.example.com
	Namespace string
	Database  string // "main" in production
	Token     string // bearer token

	// HTTPClient overrides the default client (10s timeout). Mainly for
	// tests.
	HTTPClient *http.Client
}

// DatabaseError is returned for transport failures, non-2xx responses and
// per-statement errors from the remote database.
type DatabaseError struct {
	Op     string
	Status int    // HTTP status, 0 for transport errors
	Detail string // remote error detail, if any
	Err    error
}

func (e *DatabaseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("surreal: %s: %s", e.Op, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("surreal: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("surreal: %s: http %d", e.Op, e.Status)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// envelope is one per-statement result in the /sql response array.
type envelope struct {
	Status string          `json:"status"` // "OK" or "ERR"
	Detail string          `json:"detail,omitempty"`
	Result json.RawMessage `json:"result"`
}

type client struct {
	cfg  Config
	http *http.Client
}

func newClient(cfg Config) *client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &client{cfg: cfg, http: hc}
}

// query POSTs one or more statements to <endpoint>/sql and returns the
// per-statement result sets. With vars the body is the JSON document
// {"query": ..., "vars": ...}; without vars the raw query string is sent
// as-is. Any statement reporting a non-OK status fails the whole call.
func (c *client) query(ctx context.Context, op, query string, vars map[string]any) ([]json.RawMessage, error) {
	var (
		body        io.Reader
		contentType string
	)
	if len(vars) > 0 {
		payload, err := json.Marshal(map[string]any{"query": query, "vars": vars})
		if err != nil {
			return nil, &DatabaseError{Op: op, Err: err}
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	} else {
		body = strings.NewReader(query)
		contentType = "text/plain"
	}

	url := strings.TrimSuffix(c.cfg.Endpoint, "/") + "/sql"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, &DatabaseError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Surreal-NS", c.cfg.Namespace)
	req.Header.Set("Surreal-DB", c.cfg.Database)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &DatabaseError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &DatabaseError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DatabaseError{Op: op, Status: resp.StatusCode, Detail: truncate(string(raw), 256)}
	}

	var envelopes []envelope
	if err := json.Unmarshal(raw, &envelopes); err != nil {
		// An empty or malformed envelope from a 2xx response counts as an
		// empty result set rather than a failure.
		return nil, nil
	}

	results := make([]json.RawMessage, 0, len(envelopes))
	for _, env := range envelopes {
		if !strings.EqualFold(env.Status, "OK") {
			detail := env.Detail
			if detail == "" {
				// Some server versions report the error text in result.
				detail = strings.Trim(string(env.Result), `"`)
			}
			return nil, &DatabaseError{Op: op, Status: resp.StatusCode, Detail: detail}
		}
		results = append(results, env.Result)
	}
	return results, nil
}

// rows decodes the first result set into a slice of T. A nil or empty
// result yields an empty slice.
func rows[T any](results []json.RawMessage) ([]T, error) {
	if len(results) == 0 || len(results[0]) == 0 {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(results[0], &out); err != nil {
		return nil, fmt.Errorf("decode result set: %w", err)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
