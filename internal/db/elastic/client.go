package elastic

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/tananushka/employees/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DriverName identifies the driver in config, logs and metrics.
const DriverName = "elasticsearch"

// DefaultRefresh makes writes visible to the next search before returning.
const DefaultRefresh = "wait_for"

// Config holds connection parameters for an Elasticsearch store.
type Config struct {
	Addrs              []string
	Username           string
	Password           string
	InsecureSkipVerify bool
	Refresh            string // "true", "false" or "wait_for"; empty means DefaultRefresh
}

// Store implements db.Store via the official go-elasticsearch client.
type Store struct {
	es      *elasticsearch.Client
	refresh string
}

// NewStore creates an Elasticsearch store. No request is sent until first use.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}
	if cfg.InsecureSkipVerify {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed dev clusters
		esCfg.Transport = tr
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	refresh := cfg.Refresh
	if refresh == "" {
		refresh = DefaultRefresh
	}
	return &Store{es: client, refresh: refresh}, nil
}

// Driver returns the driver name.
func (s *Store) Driver() string { return DriverName }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.es.Ping(s.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer closeBody(res)

	if res.IsError() {
		return fmt.Errorf("ping: %s", res.Status())
	}
	return nil
}

// Close releases idle connections held by the transport.
func (s *Store) Close() {
	if tr, ok := s.es.Transport.(interface{ CloseIdleConnections() }); ok {
		tr.CloseIdleConnections()
	}
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// ResponseError is a non-2xx reply from the cluster.
type ResponseError struct {
	Status int
	Type   string
	Reason string
}

func (e *ResponseError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s: %s", e.Status, e.Type, e.Reason)
}

// decodeError reads the error envelope of a failed response.
// The body may be empty (HEAD) or carry "error" as a plain string.
func decodeError(res *esapi.Response) *ResponseError {
	re := &ResponseError{Status: res.StatusCode}
	if res.Body == nil {
		return re
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil || len(envelope.Error) == 0 {
		return re
	}

	var cause struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(envelope.Error, &cause); err == nil {
		re.Type, re.Reason = cause.Type, cause.Reason
		return re
	}

	var msg string
	if err := json.Unmarshal(envelope.Error, &msg); err == nil {
		re.Reason = msg
	}
	return re
}

func decodeBody(res *esapi.Response, v any) error {
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// closeBody drains and closes the body so the connection can be reused.
func closeBody(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
