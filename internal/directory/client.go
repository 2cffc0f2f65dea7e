package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// LatencyObserver receives the duration of every lookup, whatever the outcome.
type LatencyObserver interface {
	ObserveLookup(operation string, outcome string, elapsed time.Duration)
}

type ClientConfig struct {
	BaseURL string
	APIKey  string

	// Timeout bounds a single HTTP exchange. Callers usually pass a shorter deadline on ctx.
	Timeout time.Duration

	// ConsecutiveFailures trips the breaker. OpenFor is how long it stays open.
	ConsecutiveFailures uint32
	OpenFor             time.Duration
}

// Client is an HTTP directory client guarded by a circuit breaker.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	observer   LatencyObserver
}

func NewClient(cfg ClientConfig, logger *slog.Logger, observer LatencyObserver) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenFor <= 0 {
		cfg.OpenFor = 30 * time.Second
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:   logger,
		observer: observer,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "directory",
		MaxRequests: 1,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		// a definitive "no such account" is a healthy answer
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotRegistered)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return c
}

// VerifyAccount confirms that accountNumber exists at the bank identified by routingCode.
func (c *Client) VerifyAccount(ctx context.Context, routingCode, accountNumber string) (AccountMatch, error) {
	var resp struct {
		OK bool `json:"ok"`
		AccountMatch
	}

	endpoint := fmt.Sprintf("%s/v1/accounts/%s/%s", c.baseURL, url.PathEscape(routingCode), url.PathEscape(accountNumber))
	if err := c.execute(ctx, "verify_account", endpoint, &resp); err != nil {
		return AccountMatch{}, err
	}
	if !resp.OK {
		return AccountMatch{}, ErrNotRegistered
	}

	return resp.AccountMatch, nil
}

// VerifyDirectID looks up the payee registered for a localpart@handle identifier.
func (c *Client) VerifyDirectID(ctx context.Context, id string) (Payee, error) {
	var resp struct {
		OK bool `json:"ok"`
		Payee
	}

	endpoint := fmt.Sprintf("%s/v1/payees/%s", c.baseURL, url.PathEscape(id))
	if err := c.execute(ctx, "verify_direct_id", endpoint, &resp); err != nil {
		return Payee{}, err
	}
	if !resp.OK {
		return Payee{}, ErrNotRegistered
	}

	return resp.Payee, nil
}

func (c *Client) execute(ctx context.Context, operation, endpoint string, target any) error {
	start := time.Now()

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.get(ctx, endpoint, target)
	})

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotRegistered):
		outcome = "not_registered"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "circuit_open"
		c.logger.Warn("directory circuit open, request rejected", "operation", operation)
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	default:
		outcome = "error"
	}

	if c.observer != nil {
		c.observer.ObserveLookup(operation, outcome, time.Since(start))
	}

	return err
}

func (c *Client) get(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create directory request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotRegistered
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Warn("directory returned non-success status", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}

	return nil
}
