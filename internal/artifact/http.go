package artifact

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Skufu/heartguard/internal/profile"
)

// HTTPStore downloads <base>/<variant>.yaml from an artifact server.
type HTTPStore struct {
	client *resty.Client
}

func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/yaml, application/json")
	return &HTTPStore{client: client}
}

func (s *HTTPStore) Fetch(ctx context.Context, variant profile.Variant) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("variant", string(variant)).
		Get("/{variant}.yaml")
	if err != nil {
		return nil, fmt.Errorf("download %s artifact: %w", variant, err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s returned 404", ErrArtifactNotFound, resp.Request.URL)
	case resp.IsError():
		return nil, fmt.Errorf("download %s artifact: unexpected status %s", variant, resp.Status())
	}
	return resp.Body(), nil
}

// Ping checks the artifact server answers a HEAD on its base URL.
func (s *HTTPStore) Ping(ctx context.Context) error {
	resp, err := s.client.R().SetContext(ctx).Head("/")
	if err != nil {
		return err
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("artifact server status %s", resp.Status())
	}
	return nil
}
