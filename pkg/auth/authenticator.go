// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

// Package auth attaches WordPress credentials to outgoing requests.
//
// Two schemes are supported: HTTP Basic with an application password, and
// cookie authentication where a REST nonce obtained from the site is sent in
// the X-WP-Nonce header. Authenticators report failure as a bool rather than
// an error: an unauthenticated request is still sent and the server's answer
// is surfaced to the caller.
package auth

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wpapi/wpapi/pkg/transport"
	"github.com/wpapi/wpapi/pkg/types"
)

// Authenticator decides how credentials are attached to a request.
type Authenticator interface {
	// Authenticate mutates req and reports whether credentials were attached.
	Authenticate(ctx context.Context, req *types.NetworkRequest) bool

	// ReAuthenticate is called with the response to an authenticated request.
	// It reports whether req was updated with fresh credentials and should be
	// sent again.
	ReAuthenticate(ctx context.Context, req *types.NetworkRequest, previous *types.NetworkResponse) bool
}

// Compile-time checks
var (
	_ Authenticator = NilAuthenticator{}
	_ Authenticator = (*ApplicationPasswordAuthenticator)(nil)
	_ Authenticator = (*CookieAuthenticator)(nil)
)

// NilAuthenticator never attaches credentials.
type NilAuthenticator struct{}

// Authenticate always returns false.
func (NilAuthenticator) Authenticate(context.Context, *types.NetworkRequest) bool {
	return false
}

// ReAuthenticate always returns false.
func (NilAuthenticator) ReAuthenticate(context.Context, *types.NetworkRequest, *types.NetworkResponse) bool {
	return false
}

// ApplicationPasswordAuthenticator sends an application password with HTTP Basic.
type ApplicationPasswordAuthenticator struct {
	token string
}

// NewApplicationPasswordAuthenticator precomputes the Basic token for creds.
func NewApplicationPasswordAuthenticator(creds types.Credentials) *ApplicationPasswordAuthenticator {
	return &ApplicationPasswordAuthenticator{token: creds.BasicAuthToken()}
}

// Authenticate sets the Authorization header.
func (a *ApplicationPasswordAuthenticator) Authenticate(_ context.Context, req *types.NetworkRequest) bool {
	req.SetHeader(types.HeaderAuthorization, "Basic "+a.token)
	return true
}

// ReAuthenticate always returns false: a rejected application password is not
// transient.
func (a *ApplicationPasswordAuthenticator) ReAuthenticate(context.Context, *types.NetworkRequest, *types.NetworkResponse) bool {
	return false
}

// Mode selects an authentication scheme by name.
type Mode string

// Supported authentication modes.
const (
	ModeNone                Mode = "none"
	ModeApplicationPassword Mode = "application-password"
	ModeCookie              Mode = "cookie"
)

// Modes lists every supported mode.
func Modes() []Mode {
	return []Mode{ModeNone, ModeApplicationPassword, ModeCookie}
}

// ParseMode converts a case-insensitive name into a Mode. An empty name is ModeNone.
func ParseMode(s string) (Mode, error) {
	name := Mode(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return ModeNone, nil
	}
	for _, m := range Modes() {
		if m == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported auth mode %q", s)
}

// NewAuthenticator builds the Authenticator for mode. The executor is only
// used by cookie authentication to negotiate nonces.
func NewAuthenticator(mode Mode, apiBaseURL types.APIBaseURL, creds types.Credentials, executor transport.RequestExecutor, opts ...Option) (Authenticator, error) {
	switch mode {
	case ModeNone, "":
		return NilAuthenticator{}, nil
	case ModeApplicationPassword:
		if creds.IsEmpty() {
			return nil, fmt.Errorf("auth mode %s requires a username", mode)
		}
		return NewApplicationPasswordAuthenticator(creds), nil
	case ModeCookie:
		if creds.IsEmpty() {
			return nil, fmt.Errorf("auth mode %s requires a username", mode)
		}
		return NewCookieAuthenticator(apiBaseURL, creds, executor, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", mode)
	}
}

// Option configures the cookie authenticator, nonce negotiation and the
// authenticated executor.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SameHost reports whether requestURL targets the host of apiBaseURL. Host
// names are compared case-insensitively and without ports; an unparseable
// request URL never matches.
func SameHost(requestURL string, apiBaseURL types.APIBaseURL) bool {
	target, err := types.ParseURL(requestURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(target.Host(), apiBaseURL.Host())
}
