// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/wpapi/wpapi/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "wpapi/dev"
)

// Ensure HTTPExecutor implements RequestExecutor at compile time.
var _ RequestExecutor = (*HTTPExecutor)(nil)

// HTTPExecutor executes requests with net/http. It keeps a cookie jar so that a
// session established by a login form POST is sent on the redirect that follows.
type HTTPExecutor struct {
	client     *http.Client
	userAgent  string
	maxRetries uint64
	logger     *zap.Logger

	timeout            time.Duration
	insecureSkipVerify bool
	customClient       bool
}

// HTTPOption configures an HTTPExecutor.
type HTTPOption func(*HTTPExecutor)

// WithTimeout sets the overall per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(e *HTTPExecutor) {
		e.timeout = d
	}
}

// WithUserAgent sets the User-Agent sent when a request does not set one.
func WithUserAgent(ua string) HTTPOption {
	return func(e *HTTPExecutor) {
		e.userAgent = ua
	}
}

// WithMaxRetries retries transport-level failures of idempotent requests up to
// n times with exponential backoff. POST requests, such as the login form, are
// sent once. Responses are never retried, whatever their status.
func WithMaxRetries(n uint64) HTTPOption {
	return func(e *HTTPExecutor) {
		e.maxRetries = n
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) HTTPOption {
	return func(e *HTTPExecutor) {
		e.insecureSkipVerify = skip
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) HTTPOption {
	return func(e *HTTPExecutor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHTTPClient uses client as is; timeout and TLS options are ignored.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(e *HTTPExecutor) {
		e.client = client
		e.customClient = true
	}
}

// NewHTTPExecutor creates an HTTPExecutor.
func NewHTTPExecutor(opts ...HTTPOption) (*HTTPExecutor, error) {
	e := &HTTPExecutor{
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	if !e.customClient {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if e.insecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local sites
		}
		e.client = &http.Client{
			Timeout:   e.timeout,
			Transport: transport,
			Jar:       jar,
		}
	}

	return e, nil
}

// Execute performs req. Transport failures are retried according to
// WithMaxRetries; the final failure is returned as *types.RequestExecutionError.
func (e *HTTPExecutor) Execute(ctx context.Context, req *types.NetworkRequest) (*types.NetworkResponse, error) {
	var resp *types.NetworkResponse
	operation := func() error {
		r, err := e.do(ctx, req)
		if err != nil {
			if ctx.Err() != nil || err.permanent {
				return backoff.Permanent(err.RequestExecutionError)
			}
			return err.RequestExecutionError
		}
		resp = r
		return nil
	}

	retries := e.maxRetries
	if !idempotent(req.Method) {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries), ctx)
	notify := func(err error, wait time.Duration) {
		e.logger.Debug("retrying request",
			zap.String("method", string(req.Method)),
			zap.String("url", req.URL),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		var execErr *types.RequestExecutionError
		if errors.As(err, &execErr) {
			return nil, execErr
		}
		return nil, types.NewRequestExecutionError(err.Error())
	}
	return resp, nil
}

// idempotent reports whether sending a request with method twice has the same
// effect as sending it once.
func idempotent(method types.RequestMethod) bool {
	switch method {
	case types.MethodGet, types.MethodHead, types.MethodPut, types.MethodDelete:
		return true
	default:
		return false
	}
}

type doError struct {
	*types.RequestExecutionError
	permanent bool
}

func (e *HTTPExecutor) do(ctx context.Context, req *types.NetworkRequest) (*types.NetworkResponse, *doError) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, body)
	if err != nil {
		return nil, &doError{
			RequestExecutionError: types.NewRequestExecutionError(fmt.Sprintf("create request: %v", err)),
			permanent:             true,
		}
	}
	if req.Headers != nil {
		httpReq.Header = req.Headers.Clone()
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", e.userAgent)
	}

	start := time.Now()
	httpResp, err := e.client.Do(httpReq)
	if err != nil {
		e.logger.Debug("request failed",
			zap.String("method", string(req.Method)),
			zap.String("url", req.URL),
			zap.Error(err))
		return nil, &doError{RequestExecutionError: types.NewRequestExecutionError(err.Error())}
	}
	defer func() { _ = httpResp.Body.Close() }()

	status := uint16(httpResp.StatusCode)
	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &doError{RequestExecutionError: &types.RequestExecutionError{
			StatusCode: &status,
			Reason:     fmt.Sprintf("read response body: %v", err),
		}}
	}

	e.logger.Debug("request executed",
		zap.String("method", string(req.Method)),
		zap.String("url", req.URL),
		zap.Uint16("status", status),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))

	return &types.NetworkResponse{
		StatusCode: status,
		Body:       data,
		Headers:    httpResp.Header,
	}, nil
}
