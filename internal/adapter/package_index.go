package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultIndexURL is the PyPI JSON API.
const DefaultIndexURL = "https://pypi.org/pypi"

// PackageIndex answers questions about published distributions.
type PackageIndex interface {
	// LatestVersion returns the newest version the index advertises for name.
	LatestVersion(ctx context.Context, name string) (string, error)
	// Download fetches an arbitrary URL, following redirects.
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPStatusError reports a non-2xx response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPPackageIndex talks to a PyPI-compatible JSON API.
type HTTPPackageIndex struct {
	baseURL    string
	client     *http.Client
	maxRetries uint64
}

// NewHTTPPackageIndex creates an index client for baseURL. A nil client uses
// a client with a one minute timeout.
func NewHTTPPackageIndex(baseURL string, client *http.Client) *HTTPPackageIndex {
	if baseURL == "" {
		baseURL = DefaultIndexURL
	}

	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}

	return &HTTPPackageIndex{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     client,
		maxRetries: 3,
	}
}

type projectInfo struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
}

// LatestVersion reads info.version from <base>/<name>/json.
func (i *HTTPPackageIndex) LatestVersion(ctx context.Context, name string) (string, error) {
	endpoint := i.baseURL + "/" + url.PathEscape(name) + "/json"

	body, err := i.get(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("could not determine latest version for %s: %w", name, err)
	}

	var info projectInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("could not determine latest version for %s: %w", name, err)
	}

	if info.Info.Version == "" {
		return "", fmt.Errorf("could not determine latest version for %s: no version in response", name)
	}

	return info.Info.Version, nil
}

// Download returns the body of rawURL.
func (i *HTTPPackageIndex) Download(ctx context.Context, rawURL string) ([]byte, error) {
	return i.get(ctx, rawURL)
}

func (i *HTTPPackageIndex) get(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := i.client.Do(req)
		if err != nil {
			return err
		}

		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &HTTPStatusError{URL: rawURL, StatusCode: resp.StatusCode}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return statusErr
			}

			return backoff.Permanent(statusErr)
		}

		body, err = io.ReadAll(resp.Body)

		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, i.maxRetries), ctx))
	if err != nil {
		return nil, err
	}

	return body, nil
}
