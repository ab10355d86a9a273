package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/studiowebux/proyectos/internal/cancel"
)

const (
	// DefaultDataTimeout bounds JSON calls
	DefaultDataTimeout = 15 * time.Second
	// DefaultDownloadTimeout bounds file downloads
	DefaultDownloadTimeout = 30 * time.Second

	// RequestIDHeader carries the token id of each call
	RequestIDHeader = "X-Request-ID"

	tracerName = "github.com/studiowebux/proyectos/internal/executor"
)

// Options configures a Client
type Options struct {
	BaseURL         string
	DataTimeout     time.Duration
	DownloadTimeout time.Duration
	TLS             *TLSConfig
	Logger          *zap.Logger
	Tracer          trace.Tracer
	HTTPClient      *http.Client // overrides TLS when set
}

// Client issues calls against the projects service
type Client struct {
	baseURL         string
	http            *http.Client
	registry        *cancel.Registry
	dataTimeout     time.Duration
	downloadTimeout time.Duration
	logger          *zap.Logger
	tracer          trace.Tracer
}

// New creates a client bound to registry
func New(registry *cancel.Registry, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		var err error
		httpClient, err = buildHTTPClient(opts.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
		}
	}

	c := &Client{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		http:            httpClient,
		registry:        registry,
		dataTimeout:     opts.DataTimeout,
		downloadTimeout: opts.DownloadTimeout,
		logger:          opts.Logger,
		tracer:          opts.Tracer,
	}
	if c.dataTimeout <= 0 {
		c.dataTimeout = DefaultDataTimeout
	}
	if c.downloadTimeout <= 0 {
		c.downloadTimeout = DefaultDownloadTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	return c, nil
}

// BaseURL returns the service root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Registry returns the cancellation registry used by the client
func (c *Client) Registry() *cancel.Registry {
	return c.registry
}

// Call is a pending backend call whose token has already been acquired
type Call struct {
	client   *Client
	endpoint Endpoint
	body     []byte
	bodyErr  error
	token    *cancel.Token
}

// Begin acquires the token for ep's purpose, cancelling the previous call of the
// same purpose, and returns the pending call. Endpoints without a purpose get a
// one-shot token.
func (c *Client) Begin(ep Endpoint, body any) *Call {
	call := &Call{client: c, endpoint: ep}
	if body != nil {
		call.body, call.bodyErr = json.Marshal(body)
	}
	if ep.Purpose == "" {
		call.token = c.registry.OneShot()
	} else {
		call.token = c.registry.Acquire(ep.Purpose)
	}
	return call
}

// Token returns the call's cancellation token
func (call *Call) Token() *cancel.Token {
	return call.token
}

// Endpoint returns the endpoint the call targets
func (call *Call) Endpoint() Endpoint {
	return call.endpoint
}

// Do performs a data call under the data timeout.
// Cancelling ctx cancels the call's token.
func (call *Call) Do(ctx context.Context) Result {
	return call.run(ctx, call.client.dataTimeout, readData)
}

// Download performs a file download under the download timeout, saving the body
// as dir/filename.
func (call *Call) Download(ctx context.Context, dir, filename string) Result {
	return call.run(ctx, call.client.downloadTimeout, func(ctx context.Context, resp *http.Response, res *Result) error {
		return saveDownload(ctx, resp, res, dir, filename)
	})
}

type responseHandler func(ctx context.Context, resp *http.Response, res *Result) error

func (call *Call) run(ctx context.Context, timeout time.Duration, handle responseHandler) Result {
	c := call.client
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, "backend."+call.endpoint.Name, trace.WithAttributes(
		attribute.String("http.method", call.endpoint.Method),
		attribute.String("url.path", call.endpoint.Path),
		attribute.String("request.purpose", string(call.endpoint.Purpose)),
		attribute.String("request.id", call.token.ID()),
	))
	defer span.End()

	stop := context.AfterFunc(ctx, call.token.Cancel)
	defer stop()

	res := Result{Endpoint: call.endpoint, Token: call.token}

	if call.bodyErr != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("failed to encode request body: %w", call.bodyErr)
		res.Message = res.Err.Error()
		call.finish(span, &res, start)
		return res
	}

	reqCtx, cancelTimeout := context.WithTimeout(call.token.Context(), timeout)
	defer cancelTimeout()

	c.logger.Debug("backend call started",
		zap.String("endpoint", call.endpoint.Name),
		zap.String("purpose", string(call.endpoint.Purpose)),
		zap.String("request_id", call.token.ID()),
	)

	if err := call.exchange(reqCtx, &res, handle); err != nil {
		res.Err = err
		switch {
		case errors.Is(reqCtx.Err(), context.DeadlineExceeded):
			res.Outcome = OutcomeCancelled
			res.TimedOut = true
			res.Message = fmt.Sprintf("Tiempo de espera agotado (%s)", timeout)
			call.token.Cancel()
		case call.token.Cancelled():
			res.Outcome = OutcomeCancelled
		default:
			res.Outcome = OutcomeNetwork
			res.Message = DescribeError(err)
		}
	}

	call.finish(span, &res, start)
	return res
}

func (call *Call) exchange(ctx context.Context, res *Result, handle responseHandler) error {
	c := call.client

	var body io.Reader
	if call.body != nil {
		body = bytes.NewReader(call.body)
	}

	req, err := http.NewRequestWithContext(ctx, call.endpoint.Method, c.baseURL+call.endpoint.Path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, call.token.ID())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	res.StatusText = statusText(resp)
	res.ContentType = resp.Header.Get("Content-Type")

	return handle(ctx, resp, res)
}

func (call *Call) finish(span trace.Span, res *Result, start time.Time) {
	res.Duration = time.Since(start)

	span.SetAttributes(
		attribute.String("request.outcome", res.Outcome.String()),
		attribute.Int("http.status_code", res.Status),
		attribute.Bool("request.timed_out", res.TimedOut),
	)
	if res.Outcome == OutcomeFailed || res.Outcome == OutcomeNetwork {
		span.SetStatus(codes.Error, res.Message)
	}

	fields := []zap.Field{
		zap.String("endpoint", call.endpoint.Name),
		zap.String("purpose", string(call.endpoint.Purpose)),
		zap.String("request_id", call.token.ID()),
		zap.String("outcome", res.Outcome.String()),
		zap.Int("status", res.Status),
		zap.Duration("duration", res.Duration),
	}
	switch res.Outcome {
	case OutcomeOK:
		call.client.logger.Info("backend call completed", fields...)
	case OutcomeCancelled:
		call.client.logger.Debug("backend call cancelled", append(fields, zap.Bool("timed_out", res.TimedOut))...)
	default:
		call.client.logger.Warn("backend call failed", append(fields, zap.String("message", res.Message), zap.Error(res.Err))...)
	}
}

func readData(_ context.Context, resp *http.Response, res *Result) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	res.Size = int64(len(data))

	if isJSONContentType(res.ContentType) {
		res.JSON = true
		if !json.Valid(data) {
			data = []byte("{}")
		}
		res.Body = data
	} else {
		res.Text = string(data)
	}

	if IsSuccessStatus(res.Status) {
		res.Outcome = OutcomeOK
		return nil
	}
	res.Outcome = OutcomeFailed
	res.Message = failureMessage(res)
	return nil
}

// statusText strips the numeric code from resp.Status ("404 Not Found" -> "Not Found")
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
