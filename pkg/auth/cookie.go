// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package auth

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/wpapi/wpapi/pkg/transport"
	"github.com/wpapi/wpapi/pkg/types"
)

// CookieAuthenticator sends a REST nonce with every same-host request. The
// nonce is fetched lazily and cached per instance; a 401 clears it.
//
// Concurrent callers may both miss the cache and fetch a nonce; the last one
// stored wins. A stale nonce only costs a 401 and a refetch.
type CookieAuthenticator struct {
	apiBaseURL  types.APIBaseURL
	credentials types.Credentials
	executor    transport.RequestExecutor
	opts        []Option
	logger      *zap.Logger

	mu    sync.RWMutex
	nonce *string
}

// NewCookieAuthenticator creates a CookieAuthenticator. The executor should
// keep cookies between requests for the login step to be useful.
func NewCookieAuthenticator(apiBaseURL types.APIBaseURL, creds types.Credentials, executor transport.RequestExecutor, opts ...Option) *CookieAuthenticator {
	o := buildOptions(opts)
	return &CookieAuthenticator{
		apiBaseURL:  apiBaseURL,
		credentials: creds,
		executor:    executor,
		opts:        opts,
		logger:      o.logger.With(zap.String("apiRoot", apiBaseURL.String())),
	}
}

// Authenticate sets X-WP-Nonce when req targets the API host and a nonce is
// available.
func (a *CookieAuthenticator) Authenticate(ctx context.Context, req *types.NetworkRequest) bool {
	if !SameHost(req.URL, a.apiBaseURL) {
		a.logger.Debug("not attaching nonce to cross-origin request", zap.String("url", req.URL))
		return false
	}

	nonce, ok := a.cachedNonce()
	if !ok {
		nonce, ok = FetchRestNonce(ctx, a.executor, a.apiBaseURL, a.credentials, a.opts...)
		if !ok {
			return false
		}
		a.storeNonce(nonce)
	}

	req.SetHeader(types.HeaderNonce, nonce)
	return true
}

// ReAuthenticate treats a 401 as an expired nonce: the cache is cleared and
// Authenticate runs once more.
func (a *CookieAuthenticator) ReAuthenticate(ctx context.Context, req *types.NetworkRequest, previous *types.NetworkResponse) bool {
	if previous == nil || previous.StatusCode != http.StatusUnauthorized {
		return false
	}
	a.logger.Debug("request was unauthorized, refreshing nonce")
	a.InvalidateNonce()
	return a.Authenticate(ctx, req)
}

// InvalidateNonce clears the cached nonce.
func (a *CookieAuthenticator) InvalidateNonce() {
	a.mu.Lock()
	a.nonce = nil
	a.mu.Unlock()
}

func (a *CookieAuthenticator) cachedNonce() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.nonce == nil {
		return "", false
	}
	return *a.nonce, true
}

func (a *CookieAuthenticator) storeNonce(nonce string) {
	a.mu.Lock()
	a.nonce = &nonce
	a.mu.Unlock()
}
