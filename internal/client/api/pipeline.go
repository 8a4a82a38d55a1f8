package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/dmitrijs2005/guildadmin/internal/client/models"
	"github.com/dmitrijs2005/guildadmin/internal/logging"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	// TopicSessionExpired is published with the refresh failure (an error)
	// after the stored tokens have been cleared.
	TopicSessionExpired = "session:expired"

	HeaderRequestID = "X-Request-ID"

	refreshPath = "/auth/refresh-token"
	tracerName  = "github.com/dmitrijs2005/guildadmin/internal/client/api"
)

// TokenStore is the part of the credential store the pipeline needs.
type TokenStore interface {
	Tokens(ctx context.Context) (models.Pair, error)
	RotateTokens(ctx context.Context, usedRefresh string, p models.Pair) (bool, error)
	ClearTokensIf(ctx context.Context, usedRefresh string) (bool, error)
}

// Call describes one logical request. Body, when not nil, is sent as JSON.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is a completed exchange with a status below 400.
type Response struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Pipeline sends calls to the backend with credentials attached, renewing
// the access token when the backend rejects it. It is safe for concurrent
// use.
type Pipeline struct {
	baseURL string
	http    *resty.Client
	store   TokenStore
	bus     evbus.Bus
	logger  logging.Logger
	limiter *rate.Limiter
	metrics *metrics
	tracer  trace.Tracer
	flight  singleflight.Group
}

type Option func(*Pipeline)

func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithEventBus makes the pipeline publish TopicSessionExpired on bus.
func WithEventBus(bus evbus.Bus) Option {
	return func(p *Pipeline) { p.bus = bus }
}

// WithRateLimit caps outbound sends at rps per second. Zero disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(p *Pipeline) {
		if rps <= 0 {
			p.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.http.SetTimeout(d) }
}

// WithRegisterer registers the pipeline metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *Pipeline) { p.metrics = newMetrics(reg) }
}

// WithHTTPClient sends through hc instead of a default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *Pipeline) {
		p.http = resty.NewWithClient(hc).
			SetBaseURL(p.baseURL).
			SetHeader("Content-Type", "application/json")
	}
}

func New(baseURL string, store TokenStore, opts ...Option) *Pipeline {
	baseURL = strings.TrimRight(baseURL, "/")
	p := &Pipeline{
		baseURL: baseURL,
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
		store:   store,
		logger:  logging.Discard(),
		metrics: newMetrics(nil),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) BaseURL() string {
	return p.baseURL
}

// Do sends call, refreshing credentials and resubmitting once if the first
// attempt is rejected with 401.
func (p *Pipeline) Do(ctx context.Context, call *Call) (*Response, error) {
	requestID := uuid.NewString()

	ctx, span := p.tracer.Start(ctx, call.Method+" "+call.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", call.Method),
			attribute.String("url.path", call.Path),
			attribute.String("request.id", requestID),
		))
	defer span.End()

	log := p.logger.With("request_id", requestID, "method", call.Method, "path", call.Path)

	resp, err := p.do(ctx, call, requestID, log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	return resp, nil
}

// JSON sends call and decodes the response body into out (which may be nil).
func (p *Pipeline) JSON(ctx context.Context, call *Call, out any) error {
	resp, err := p.Do(ctx, call)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

func (p *Pipeline) do(ctx context.Context, call *Call, requestID string, log logging.Logger) (*Response, error) {
	for attempt := 0; ; attempt++ {
		creds, err := p.store.Tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}

		resp, err := p.send(ctx, call, requestID, creds.AccessToken)
		if err != nil {
			return nil, err
		}
		log.Debug(ctx, "api response", "attempt", attempt, "status", resp.StatusCode)

		if resp.StatusCode != http.StatusUnauthorized {
			if resp.StatusCode >= http.StatusBadRequest {
				return nil, newHTTPError(resp.StatusCode, resp.Body)
			}
			return resp, nil
		}

		if attempt > 0 {
			return nil, newHTTPError(resp.StatusCode, resp.Body)
		}
		if err := p.renew(ctx, creds.AccessToken, log); err != nil {
			return nil, err
		}
	}
}

func (p *Pipeline) send(ctx context.Context, call *Call, requestID, accessToken string) (*Response, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	req := p.http.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, requestID)
	if accessToken != "" {
		req.SetAuthToken(accessToken)
	}
	if len(call.Query) > 0 {
		req.SetQueryParamsFromValues(call.Query)
	}
	if call.Body != nil {
		req.SetBody(call.Body)
	}

	res, err := req.Execute(call.Method, call.Path)
	if err != nil {
		p.metrics.requests.WithLabelValues(call.Method, "error").Inc()
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, call.Method, call.Path, err)
	}
	p.metrics.requests.WithLabelValues(call.Method, strconv.Itoa(res.StatusCode())).Inc()

	return &Response{StatusCode: res.StatusCode(), Body: res.Body(), RequestID: requestID}, nil
}

// renew makes sure the store holds an access token newer than stale. Calls
// that observed the same stale token share a single refresh.
func (p *Pipeline) renew(ctx context.Context, stale string, log logging.Logger) error {
	_, err, shared := p.flight.Do("refresh:"+stale, func() (any, error) {
		return nil, p.refreshIfStale(context.WithoutCancel(ctx), stale, log)
	})
	if shared {
		log.Debug(ctx, "joined in-flight token refresh")
	}
	return err
}

func (p *Pipeline) refreshIfStale(ctx context.Context, stale string, log logging.Logger) error {
	current, err := p.store.Tokens(ctx)
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}
	if current.AccessToken != "" && current.AccessToken != stale {
		p.metrics.refreshes.WithLabelValues(refreshSkipped).Inc()
		return nil
	}
	if current.RefreshToken == "" {
		return p.expire(ctx, "", errNoRefreshToken, log)
	}

	pair, err := p.refresh(ctx, current.RefreshToken)
	if err != nil {
		return p.expire(ctx, current.RefreshToken, err, log)
	}

	rotated, err := p.store.RotateTokens(ctx, current.RefreshToken, pair)
	if err != nil {
		return fmt.Errorf("store refreshed credentials: %w", err)
	}
	if !rotated {
		// Logout or a new login replaced the credentials while we were
		// refreshing; the resubmission uses whatever is stored now.
		log.Info(ctx, "credentials changed during refresh, result discarded")
	}
	p.metrics.refreshes.WithLabelValues(refreshSuccess).Inc()
	log.Info(ctx, "access token refreshed")
	return nil
}

func (p *Pipeline) refresh(ctx context.Context, refreshToken string) (models.Pair, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return models.Pair{}, err
		}
	}

	res, err := p.http.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, uuid.NewString()).
		SetBody(refreshRequest{RefreshToken: refreshToken}).
		Post(refreshPath)
	if err != nil {
		p.metrics.requests.WithLabelValues(http.MethodPost, "error").Inc()
		return models.Pair{}, fmt.Errorf("%w: refresh: %w", ErrUnavailable, err)
	}
	p.metrics.requests.WithLabelValues(http.MethodPost, strconv.Itoa(res.StatusCode())).Inc()

	if res.IsError() {
		return models.Pair{}, fmt.Errorf("refresh rejected: %w", newHTTPError(res.StatusCode(), res.Body()))
	}

	var body refreshResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return models.Pair{}, fmt.Errorf("%w: refresh: %v", ErrMalformedResponse, err)
	}
	if body.AccessToken == "" {
		return models.Pair{}, fmt.Errorf("%w: refresh returned no access token", ErrMalformedResponse)
	}
	return models.Pair{AccessToken: body.AccessToken, RefreshToken: body.RefreshToken}, nil
}

// expire clears both tokens, announces the expiry and returns the terminal
// error carrying cause. If a login replaced the credentials while usedRefresh
// was being rejected, nothing is cleared and nil is returned so the call is
// resubmitted with the new credentials.
func (p *Pipeline) expire(ctx context.Context, usedRefresh string, cause error, log logging.Logger) error {
	p.metrics.refreshes.WithLabelValues(refreshFailure).Inc()

	cleared, err := p.store.ClearTokensIf(ctx, usedRefresh)
	if err != nil {
		log.Error(ctx, "failed to clear credentials", "error", err)
	}
	if err == nil && !cleared {
		log.Info(ctx, "token refresh failed but credentials were replaced, keeping them", "error", cause)
		return nil
	}
	log.Warn(ctx, "token refresh failed, credentials cleared", "error", cause)

	expired := fmt.Errorf("%w: %w", ErrSessionExpired, cause)
	if p.bus != nil {
		p.bus.Publish(TopicSessionExpired, expired)
	}
	return expired
}
