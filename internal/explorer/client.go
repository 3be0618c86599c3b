package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chainscore/internal/ratelimit"
	"chainscore/internal/version"
)

const (
	defaultBaseURL     = "https://api.etherscan.io/v2/api"
	defaultChainID     = 1
	defaultPageSize    = 1000
	defaultMaxPages    = 10
	defaultMinInterval = 400 * time.Millisecond
	defaultMaxRetries  = 6
	defaultBackoffBase = 800 * time.Millisecond
	defaultTimeout     = 20 * time.Second
)

// Options parameterise the explorer client.
type Options struct {
	BaseURL     string
	ChainID     int64
	APIKey      string
	PageSize    int
	MaxPages    int
	MinInterval time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	Timeout     time.Duration
	UserAgent   string
}

// Client talks to an Etherscan-compatible explorer. One shared rate limiter
// spaces every outbound call regardless of how many fetches run concurrently.
type Client struct {
	opts    Options
	logger  zerolog.Logger
	client  *http.Client
	limiter *ratelimit.Limiter
	baseURL string
}

// NewClient constructs an explorer client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	if opts.ChainID <= 0 {
		opts.ChainID = defaultChainID
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = defaultMinInterval
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = defaultBackoffBase
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = version.UserAgent()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		opts:    opts,
		logger:  logger.With().Str("component", "explorer_client").Logger(),
		client:  &http.Client{Timeout: timeout},
		limiter: ratelimit.New(opts.MinInterval),
		baseURL: baseURL,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (e *envelope) rows() ([]Transaction, error) {
	var rows []Transaction
	if err := json.Unmarshal(e.Result, &rows); err != nil {
		return nil, fmt.Errorf("decode result rows: %w", err)
	}
	return rows, nil
}

// resultText renders the result field for error reporting; on failure paths
// the upstream puts a plain string there instead of a row array.
func (e *envelope) resultText() string {
	var s string
	if json.Unmarshal(e.Result, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(e.Result))
}

// call performs one throttled explorer request, retrying rate-limited and
// unparseable responses with exponential backoff. Non-retryable upstream
// failures and an exhausted retry budget surface as *UpstreamError.
func (c *Client) call(ctx context.Context, action Action, query url.Values) (*envelope, error) {
	var lastErr string

	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		env, err := c.doRequest(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err.Error()
			c.logger.Debug().Err(err).Str("action", string(action)).Int("attempt", attempt).Msg("malformed response, retrying")
			if attempt == c.opts.MaxRetries {
				break
			}
			if serr := c.backoff(ctx, attempt); serr != nil {
				return nil, serr
			}
			continue
		}

		if env.Status == "1" && strings.EqualFold(env.Message, "OK") {
			return env, nil
		}

		combined := strings.ToLower(env.Message + " " + env.resultText())
		if strings.Contains(combined, "rate limit") || strings.Contains(combined, "max calls per sec") {
			lastErr = fmt.Sprintf("rate limited: %s / %s", env.Message, env.resultText())
			c.logger.Debug().Str("action", string(action)).Int("attempt", attempt).Msg("rate limited, backing off")
			if attempt == c.opts.MaxRetries {
				break
			}
			if serr := c.backoff(ctx, attempt); serr != nil {
				return nil, serr
			}
			continue
		}

		// Other NOTOK (invalid key, bad params). Retrying cannot help.
		return nil, &UpstreamError{
			Kind:    KindFatalUpstream,
			Action:  action,
			Message: fmt.Sprintf("status=%s message=%s result=%s", env.Status, env.Message, env.resultText()),
		}
	}

	return nil, &UpstreamError{
		Kind:    KindRetriesExhausted,
		Action:  action,
		Message: "retries exhausted, last error: " + lastErr,
	}
}

func (c *Client) doRequest(ctx context.Context, query url.Values) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

// backoff sleeps base * 2^(attempt-1), honouring ctx cancellation.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := c.opts.BackoffBase * time.Duration(1<<(attempt-1))
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) accountQuery(action Action, address string, page, offset int, sort string) url.Values {
	q := url.Values{}
	q.Set("chainid", strconv.FormatInt(c.opts.ChainID, 10))
	q.Set("module", "account")
	q.Set("action", string(action))
	q.Set("address", address)
	q.Set("page", strconv.Itoa(page))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("sort", sort)
	q.Set("apikey", c.opts.APIKey)
	return q
}

var _ Source = (*Client)(nil)
