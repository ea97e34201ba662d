// Package feed obtains the earthquake CSV byte stream and splits it into
// header-keyed rows.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Source supplies the raw feed. The caller closes the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Describe names the source for logs, e.g. the URL or file path.
	Describe() string
}

// HTTPSource fetches the feed with a GET request.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource creates a source for url with the given request timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch feed: status %d: %s", resp.StatusCode, body)
	}
	return resp.Body, nil
}

func (s *HTTPSource) Describe() string { return s.url }

// FileSource reads the feed from a local file.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open feed file: %w", err)
	}
	return f, nil
}

func (s *FileSource) Describe() string { return s.path }
