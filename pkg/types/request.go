// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// RequestMethod is the HTTP verb of a NetworkRequest.
type RequestMethod string

// Supported request methods.
const (
	MethodGet    RequestMethod = http.MethodGet
	MethodPost   RequestMethod = http.MethodPost
	MethodPut    RequestMethod = http.MethodPut
	MethodDelete RequestMethod = http.MethodDelete
	MethodHead   RequestMethod = http.MethodHead
)

// ParseRequestMethod converts a case-insensitive verb into a RequestMethod.
func ParseRequestMethod(s string) (RequestMethod, error) {
	switch m := RequestMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodHead:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported request method %q", s)
	}
}

// Common header names.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderLink          = "Link"
	HeaderNonce         = "X-WP-Nonce"
)

// NetworkRequest is a transport-agnostic HTTP request.
type NetworkRequest struct {
	Method  RequestMethod
	URL     string
	Headers http.Header
	Body    []byte
}

// NewRequest creates a request with an empty header map and no body.
func NewRequest(method RequestMethod, rawURL string) *NetworkRequest {
	return &NetworkRequest{
		Method:  method,
		URL:     rawURL,
		Headers: make(http.Header),
	}
}

// Clone returns a deep copy of r, so that headers can be mutated without
// affecting the original.
func (r *NetworkRequest) Clone() *NetworkRequest {
	c := &NetworkRequest{
		Method:  r.Method,
		URL:     r.URL,
		Headers: r.Headers.Clone(),
	}
	if c.Headers == nil {
		c.Headers = make(http.Header)
	}
	if r.Body != nil {
		c.Body = append([]byte(nil), r.Body...)
	}
	return c
}

// SetHeader sets a header, allocating the header map when needed.
func (r *NetworkRequest) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = make(http.Header)
	}
	r.Headers.Set(key, value)
}

// Host returns the host name (without port) of the request's target URL.
func (r *NetworkRequest) Host() (string, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("parse request url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("request url %q has no host", r.URL)
	}
	return u.Hostname(), nil
}

// NetworkResponse is a fully buffered HTTP response.
type NetworkResponse struct {
	StatusCode uint16
	Body       []byte
	Headers    http.Header
}

// HeaderValues returns every value of the named header, in the order received.
func (r *NetworkResponse) HeaderValues(name string) []string {
	return r.Headers.Values(name)
}

// BodyString returns the body as a string.
func (r *NetworkResponse) BodyString() string {
	return string(r.Body)
}

// RequestExecutionError is returned by a RequestExecutor when the request could
// not be executed. StatusCode is set when a status was received before failing.
type RequestExecutionError struct {
	StatusCode *uint16
	Reason     string
}

// NewRequestExecutionError builds a RequestExecutionError without a status code.
func NewRequestExecutionError(reason string) *RequestExecutionError {
	return &RequestExecutionError{Reason: reason}
}

func (e *RequestExecutionError) Error() string {
	if e.StatusCode != nil {
		return fmt.Sprintf("request execution failed (status %d): %s", *e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("request execution failed: %s", e.Reason)
}

// Credentials is a WordPress username and password pair. The password may be a
// login password or an application password depending on how it is used.
type Credentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"-" yaml:"-"`
}

// IsEmpty reports whether no username was provided.
func (c Credentials) IsEmpty() bool {
	return c.Username == ""
}

// BasicAuthToken returns base64("username:password").
func (c Credentials) BasicAuthToken() string {
	return base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
}

// String never includes the password.
func (c Credentials) String() string {
	return c.Username + ":<redacted>"
}
