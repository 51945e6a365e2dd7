package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"time"

	"storefront-client/internal/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Frontend-tier throttle, applied client-side so a burst of UI actions
// cannot hammer the backend.
const (
	limitFrontend = rate.Limit(20)
	burstFrontend = 40
)

// TokenSource yields the raw credential attached to authenticated
// requests. An empty token means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// Client is the gateway to the storefront backend. Construct one with
// New for anonymous access or NewAuthed to attach the stored credential
// to every request.
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	tokens   TokenSource
	validate *validator.Validate
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 15 * time.Second},
		limiter:  rate.NewLimiter(limitFrontend, burstFrontend),
		validate: validator.New(),
	}
}

func NewAuthed(baseURL string, tokens TokenSource) *Client {
	c := New(baseURL)
	c.tokens = tokens
	return c
}

// Response is the decoded JSON envelope every endpoint wraps its payload
// in: {"message": ..., "data": ..., "url": ...}.
type Response struct {
	StatusCode int
	Message    string
	URL        string
	Data       json.RawMessage
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	URL     string          `json:"url"`
}

type requestOptions struct {
	headers map[string]string
}

type Option func(*requestOptions)

// WithHeader adds a request header, e.g. an idempotency key on checkout.
func WithHeader(key, value string) Option {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = map[string]string{}
		}
		o.headers[key] = value
	}
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body, out, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, out any, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, out, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...Option) (*Response, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	var reqOpts requestOptions
	for _, opt := range opts {
		opt(&reqOpts)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Kind: KindNetwork, Err: err}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Kind: KindValidation, Message: "unencodable request body", Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &APIError{Kind: KindValidation, Message: "invalid request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		// Raw token, no Bearer prefix. The backend expects it verbatim.
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", token)
		}
	}
	for k, v := range reqOpts.headers {
		req.Header.Set(k, v)
	}

	res, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return nil, &APIError{Kind: KindNetwork, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Err: err}
	}

	var env envelope
	if len(raw) > 0 {
		// Malformed payloads are flagged, never trusted.
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, &APIError{Kind: KindValidation, StatusCode: res.StatusCode, Message: "malformed response payload", Err: err}
		}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		kind := KindServer
		switch res.StatusCode {
		case http.StatusNotFound:
			kind = KindNotFound
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			kind = KindValidation
		}
		log.Warn("request rejected",
			zap.Int("status", res.StatusCode),
			zap.String("server_message", env.Message),
		)
		return nil, &APIError{Kind: kind, StatusCode: res.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &APIError{Kind: KindValidation, StatusCode: res.StatusCode, Message: "response data does not match expected shape", Err: err}
		}
		if err := c.validateDecoded(out); err != nil {
			log.Warn("response failed schema validation", zap.Error(err))
			return nil, &APIError{Kind: KindValidation, StatusCode: res.StatusCode, Message: "response data failed validation", Err: err}
		}
	}

	return &Response{
		StatusCode: res.StatusCode,
		Message:    env.Message,
		URL:        env.URL,
		Data:       env.Data,
	}, nil
}

// validateDecoded runs struct tag validation over the decoded payload,
// element-wise for slices.
func (c *Client) validateDecoded(out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil
	}
	elem := v.Elem()
	switch elem.Kind() {
	case reflect.Struct:
		return c.validate.Struct(out)
	case reflect.Slice:
		for i := 0; i < elem.Len(); i++ {
			item := elem.Index(i)
			if item.Kind() == reflect.Struct {
				if err := c.validate.Struct(item.Interface()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
