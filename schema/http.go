package schema

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPSource fetches a JSON column array from a URL, usually a CI seed.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Key() string { return s.URL }

func (s *HTTPSource) Load(ctx context.Context) (*List, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrSchemaFetchFailed, s.URL, resp.StatusCode)
	}

	l, err := Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrSchemaFetchFailed, s.URL, err)
	}
	return l, nil
}
