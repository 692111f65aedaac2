package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"igexport/pkg/config"
	errs "igexport/pkg/errors"
	"igexport/pkg/logger"
	"igexport/pkg/ratelimit"
	"igexport/pkg/retry"
)

// Options configures a Client
type Options struct {
	BaseURL    string
	AppID      string
	UserAgents []string
	PageSize   int
	Timeout    time.Duration

	// Retry policy of the request executor
	MaxRetries  int
	BackoffBase time.Duration
	MaxJitter   time.Duration

	// Rand picks user agents and retry jitter
	Rand retry.Rand
	// Sleep performs backoff waits; defaults to retry.Wait
	Sleep retry.SleepFunc
	// Limiter is waited before every HTTP attempt; nil means unlimited
	Limiter ratelimit.Limiter
	// Transport overrides the HTTP round tripper, mainly for tests
	Transport http.RoundTripper
	Logger    logger.Logger
}

// OptionsFromConfig maps the loaded configuration onto client options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:     cfg.Instagram.BaseURL,
		AppID:       cfg.Instagram.AppID,
		UserAgents:  cfg.Instagram.UserAgents,
		PageSize:    cfg.Pagination.PageSize,
		Timeout:     cfg.HTTP.Timeout,
		MaxRetries:  cfg.RateLimit.MaxRetries,
		BackoffBase: cfg.RateLimit.BackoffBase,
		MaxJitter:   cfg.RateLimit.MaxJitter,
		Limiter:     ratelimit.NewRequestLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize),
	}
}

// Client talks to Instagram's internal web API. It holds no cookies; each
// Session created by Establish owns its own jar.
type Client struct {
	endpoints  Endpoints
	appID      string
	userAgents []string
	timeout    time.Duration
	transport  http.RoundTripper

	retrier *retry.Retrier
	rand    retry.Rand
	limiter ratelimit.Limiter
	logger  logger.Logger
}

// NewClient creates a new Instagram API client
func NewClient(opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}
	if opts.Rand == nil {
		opts.Rand = retry.NewTimeSeededRand()
	}
	if opts.Sleep == nil {
		opts.Sleep = retry.Wait
	}
	if opts.AppID == "" {
		opts.AppID = config.DefaultAppID
	}
	if len(opts.UserAgents) == 0 {
		opts.UserAgents = config.DefaultUserAgents
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	log := opts.Logger
	retrier := retry.NewRetrier(&retry.Config{
		MaxRetries: opts.MaxRetries,
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:  opts.BackoffBase,
			Multiplier: 2.0,
			MaxJitter:  opts.MaxJitter,
			Rand:       opts.Rand,
		},
		RetryIf: retry.DefaultRetryIf,
		Sleep:   opts.Sleep,
		Context: context.Background(),
		Logger:  log,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			if errs.IsType(err, errs.ErrorTypeRateLimit) {
				logger.LogRateLimit(log, "HTTP 429", delay)
			}
		},
	})

	return &Client{
		endpoints:  NewEndpoints(opts.BaseURL, opts.PageSize),
		appID:      opts.AppID,
		userAgents: opts.UserAgents,
		timeout:    opts.Timeout,
		transport:  opts.Transport,
		retrier:    retrier,
		rand:       opts.Rand,
		limiter:    opts.Limiter,
		logger:     log,
	}
}

// Endpoints returns the URL builder the client uses
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// userAgent draws one entry from the pool
func (c *Client) userAgent() string {
	return c.userAgents[c.rand.Int63n(int64(len(c.userAgents)))]
}

// setHeaders applies the browser-like header set. csrfToken is sent only
// once known.
func (c *Client) setHeaders(req *http.Request, csrfToken string) {
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", AcceptEncoding)
	req.Header.Set("X-IG-App-ID", c.appID)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Referer", c.endpoints.Root())
	if csrfToken != "" {
		req.Header.Set("X-CSRFToken", csrfToken)
	}
}

// doRequest performs a single GET and returns the decoded body of a 2xx
// response. Any other outcome is a typed *errors.Error.
func (c *Client) doRequest(ctx context.Context, httpClient *http.Client, url, csrfToken string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Err:     err,
		}
	}
	c.setHeaders(req, csrfToken)

	start := time.Now()
	resp, err := httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":      req.Method,
			"url":         url,
			"error":       err.Error(),
			"duration_ms": duration.Milliseconds(),
		})
		return nil, errs.NewNetworkError(err)
	}
	defer resp.Body.Close()

	logger.LogRequest(c.logger, req.Method, url, resp.StatusCode, duration)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.FromStatus(resp.StatusCode, url)
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, errs.NewNetworkError(err)
	}
	return body, nil
}

// execute is the request executor: one GET wrapped in the retry policy.
// Once ctx is done no further attempt is made.
func (c *Client) execute(ctx context.Context, httpClient *http.Client, url, csrfToken string) ([]byte, error) {
	var body []byte
	err := c.retrier.WithContext(ctx).Do(func() error {
		var err error
		body, err = c.doRequest(ctx, httpClient, url, csrfToken)
		return err
	})
	return body, err
}

// getJSON executes url and decodes the body into target. A decode failure is
// a parsing error and is not retried.
func (c *Client) getJSON(ctx context.Context, httpClient *http.Client, url, csrfToken string, target interface{}) error {
	body, err := c.execute(ctx, httpClient, url, csrfToken)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errs.NewParsingError(err, http.StatusOK)
	}

	return nil
}
