// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/wpapi/wpapi/pkg/transport"
	"github.com/wpapi/wpapi/pkg/types"
)

// Ensure AuthenticatedRequestExecutor implements RequestExecutor at compile time.
var _ transport.RequestExecutor = (*AuthenticatedRequestExecutor)(nil)

// AuthenticatedRequestExecutor authenticates each request before handing it
// to the wrapped executor, and sends it at most once more when the
// authenticator refreshes its credentials after the first response.
type AuthenticatedRequestExecutor struct {
	authenticator Authenticator
	executor      transport.RequestExecutor
	logger        *zap.Logger
}

// NewAuthenticatedRequestExecutor wraps executor with authenticator.
func NewAuthenticatedRequestExecutor(authenticator Authenticator, executor transport.RequestExecutor, opts ...Option) *AuthenticatedRequestExecutor {
	o := buildOptions(opts)
	return &AuthenticatedRequestExecutor{
		authenticator: authenticator,
		executor:      executor,
		logger:        o.logger,
	}
}

// Execute sends an authenticated copy of req; the caller's request is never
// modified. A second 401 after re-authentication is returned as is.
func (e *AuthenticatedRequestExecutor) Execute(ctx context.Context, req *types.NetworkRequest) (*types.NetworkResponse, error) {
	authed := req.Clone()
	e.authenticator.Authenticate(ctx, authed)

	resp, err := e.executor.Execute(ctx, authed)
	if err != nil {
		return nil, err
	}

	if e.authenticator.ReAuthenticate(ctx, authed, resp) {
		e.logger.Debug("re-sending request with refreshed credentials",
			zap.String("method", string(authed.Method)),
			zap.String("url", authed.URL))
		return e.executor.Execute(ctx, authed)
	}
	return resp, nil
}
