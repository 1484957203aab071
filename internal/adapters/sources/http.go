package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sentimental/pkg/errors"
)

const maxBodyBytes = 8 << 20

// StatusError is a non-2xx answer from a source
type StatusError struct {
	Code int
	Host string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.Host)
}

func (e *StatusError) StatusCode() int {
	return e.Code
}

// httpDoer issues GET requests with a fixed user agent
type httpDoer struct {
	client    *http.Client
	userAgent string
}

func newHTTPDoer(timeout time.Duration, userAgent string) httpDoer {
	return httpDoer{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// get returns the body of a 2xx response; anything else is an error
func (d httpDoer) get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Host: req.URL.Host}
	}
	return body, nil
}

// getJSON decodes a 2xx JSON response into dest
func (d httpDoer) getJSON(ctx context.Context, url string, headers map[string]string, dest interface{}) error {
	body, err := d.get(ctx, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
