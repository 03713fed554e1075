// Package apiclient talks to the workoutlog HTTP API. Its sub-clients implement
// the exercises, workouts and schedule stores, so the client side components
// run against a remote backend the same way the server runs against postgres.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/2beens/workoutlog/internal/middleware"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout = 15 * time.Second
	userAgent      = "workoutctl/1.0"
)

// APIError is a non-2xx answer of the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error [%d]: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mutex sync.RWMutex
	token string
}

// New creates a client for the API at baseURL. A nil httpClient is replaced by
// a traced one.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   DefaultTimeout,
		}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) SetToken(token string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.token
}

func (c *Client) Exercises() *ExercisesClient {
	return &ExercisesClient{client: c}
}

func (c *Client) Workouts() *WorkoutsClient {
	return &WorkoutsClient{client: c}
}

func (c *Client) Schedule() *ScheduleClient {
	return &ScheduleClient{client: c}
}

// statusErrors maps response status codes to domain errors for one call.
type statusErrors map[int]error

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
	mapped statusErrors,
) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "apiclient."+strings.ToLower(method))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", pkg.ContentType.JSON)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", pkg.ContentType.JSON)
	}
	if token := c.Token(); token != "" {
		req.Header.Set(middleware.AuthTokenHeader, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response of %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBytes),
		}
		log.Debugf("api client, %s %s: %s", method, path, apiErr)
		if domainErr, ok := mapped[resp.StatusCode]; ok {
			return fmt.Errorf("%w: %w", domainErr, apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("unmarshal response of %s %s: %w", method, path, err)
	}

	return nil
}

func errorMessage(respBytes []byte) string {
	var errResp pkg.ErrorResponse
	if err := json.Unmarshal(respBytes, &errResp); err == nil && errResp.Error != "" {
		if errResp.Message != "" {
			return errResp.Message
		}
		return errResp.Error
	}
	return strings.TrimSpace(string(respBytes))
}

// StatusCode returns the API status code carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
