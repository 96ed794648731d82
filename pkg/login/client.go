// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

// Package login discovers the REST API of a WordPress site from an address
// typed by a user, and negotiates nonces for callers that authenticate
// requests themselves.
//
// Discovery tries every candidate URL derived from the address concurrently
// and always waits for all of them, so that a failed discovery can report
// what went wrong for each variant.
package login

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wpapi/wpapi/pkg/auth"
	"github.com/wpapi/wpapi/pkg/transport"
	"github.com/wpapi/wpapi/pkg/types"
)

// LoginClient runs API discovery and nonce negotiation through an injected
// RequestExecutor.
type LoginClient struct {
	executor transport.RequestExecutor
	logger   *zap.Logger
}

// Option configures a LoginClient.
type Option func(*LoginClient)

// WithLogger sets the logger used for discovery diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *LoginClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewLoginClient creates a LoginClient.
func NewLoginClient(executor transport.RequestExecutor, opts ...Option) *LoginClient {
	c := &LoginClient{
		executor: executor,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIDiscovery locates the REST API of the site at siteURL. Every candidate
// from ConstructAttempts is tried concurrently and all of them run to
// completion. The winner is the first success in candidate order, regardless
// of which finished first. When no candidate succeeds the error is a
// *DiscoveryError.
func (c *LoginClient) APIDiscovery(ctx context.Context, siteURL string) (*DiscoverySuccess, error) {
	candidates := ConstructAttempts(siteURL)

	c.logger.Debug("starting api discovery",
		zap.String("input", siteURL),
		zap.Strings("candidates", candidates))

	return c.discover(ctx, candidates)
}

// discover runs one attempt per candidate and joins all of them. candidates
// must be in order of preference.
func (c *LoginClient) discover(ctx context.Context, candidates []string) (*DiscoverySuccess, error) {
	results := make([]AttemptState, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		i, candidate := i, candidate
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger := c.logger.With(
				zap.String("attempt", uuid.NewString()),
				zap.String("candidate", candidate))
			results[i] = runAttempt(ctx, c.executor, candidate, logger)
		}()
	}
	wg.Wait()

	attempts := make(map[string]AttemptState, len(results))
	var winner *AttemptSuccess
	for _, result := range results {
		switch state := result.(type) {
		case *AttemptSuccess:
			attempts[state.SiteURL.String()] = state
			if winner == nil {
				winner = state
			}
		case *AttemptFailure:
			attempts[state.Err.SiteURL()] = state
		}
	}

	if winner == nil {
		c.logger.Info("api discovery failed", zap.Int("attempts", len(attempts)))
		return nil, &DiscoveryError{Attempts: attempts}
	}

	c.logger.Info("api discovery succeeded",
		zap.String("siteURL", winner.SiteURL.String()),
		zap.String("apiRoot", winner.APIRootURL.String()))

	return &DiscoverySuccess{
		SiteURL:    winner.SiteURL,
		APIRootURL: winner.APIRootURL,
		APIDetails: winner.APIDetails,
		Attempts:   attempts,
	}, nil
}

// InsertRestNonce returns a copy of req carrying a freshly negotiated REST
// nonce. It returns false, leaving req untouched, when req targets another
// host than apiBaseURL or when no nonce could be obtained.
func (c *LoginClient) InsertRestNonce(ctx context.Context, req *types.NetworkRequest, apiBaseURL types.APIBaseURL, creds types.Credentials) (*types.NetworkRequest, bool) {
	if !auth.SameHost(req.URL, apiBaseURL) {
		c.logger.Debug("refusing to insert nonce into cross-origin request", zap.String("url", req.URL))
		return nil, false
	}

	nonce, ok := auth.FetchRestNonce(ctx, c.executor, apiBaseURL, creds, auth.WithLogger(c.logger))
	if !ok {
		return nil, false
	}

	out := req.Clone()
	out.SetHeader(types.HeaderNonce, nonce)
	return out, true
}
