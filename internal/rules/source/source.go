// Package source fetches rule documents from their configured origin. A
// document is fetched once at startup; the parsed rule set stays immutable
// for the life of the process.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/admitware/scholarship-advisor/internal/rules"
)

// Source loads a raw rule document and reports its serialization format.
type Source interface {
	// Load fetches the document. Implementations honor ctx cancellation.
	Load(ctx context.Context) ([]byte, rules.Format, error)
	// Describe names the origin for logs and API responses.
	Describe() string
}

// File reads the document from disk; format follows the file extension.
type File struct {
	Path string
}

func (f File) Load(ctx context.Context) ([]byte, rules.Format, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, "", fmt.Errorf("read rules file: %w", err)
	}
	return data, formatForPath(f.Path), nil
}

func (f File) Describe() string {
	return "file:" + f.Path
}

// HTTP fetches the document from a service endpoint.
type HTTP struct {
	URL    string
	Client *http.Client
}

func (h HTTP) Load(ctx context.Context) ([]byte, rules.Format, error) {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build rules request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch rules: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch rules: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read rules response: %w", err)
	}

	format := rules.FormatJSON
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "yaml") {
		format = rules.FormatYAML
	} else if f := formatForPath(h.URL); f == rules.FormatYAML {
		format = rules.FormatYAML
	}
	return data, format, nil
}

func (h HTTP) Describe() string {
	return "http:" + h.URL
}

// Redis reads the document from a single key.
type Redis struct {
	Client *redis.Client
	Key    string
}

func (r Redis) Load(ctx context.Context) ([]byte, rules.Format, error) {
	data, err := r.Client.Get(ctx, r.Key).Bytes()
	if err != nil {
		return nil, "", fmt.Errorf("read rules key %q: %w", r.Key, err)
	}
	return data, rules.FormatJSON, nil
}

func (r Redis) Describe() string {
	return "redis:" + r.Key
}

// NewRedisClient dials redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func formatForPath(path string) rules.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return rules.FormatYAML
	default:
		return rules.FormatJSON
	}
}
