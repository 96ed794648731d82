// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wpapi/wpapi/pkg/types"
)

var testCreds = types.Credentials{Username: "admin", Password: "secret"}

func TestCookieAuthenticator_CachesNonce(t *testing.T) {
	exec := &scriptedExecutor{handle: func(n int, _ *types.NetworkRequest) (*types.NetworkResponse, error) {
		return respond(200, fmt.Sprintf("nonce%d", n)), nil
	}}
	a := NewCookieAuthenticator(testBase(t), testCreds, exec, WithLogger(zap.NewNop()))

	for i := 0; i < 3; i++ {
		req := types.NewRequest(types.MethodGet, "https://example.com/wp-json/wp/v2/posts")
		require.True(t, a.Authenticate(context.Background(), req))
		assert.Equal(t, "nonce1", req.Headers.Get(types.HeaderNonce))
	}
	assert.Equal(t, 1, exec.count(), "nonce should be fetched once")
}

func TestCookieAuthenticator_CrossOrigin(t *testing.T) {
	exec := &scriptedExecutor{handle: func(int, *types.NetworkRequest) (*types.NetworkResponse, error) {
		return respond(200, "nonce"), nil
	}}
	a := NewCookieAuthenticator(testBase(t), testCreds, exec)

	req := types.NewRequest(types.MethodGet, "https://cdn.other.org/file.json")
	assert.False(t, a.Authenticate(context.Background(), req))
	assert.Empty(t, req.Headers.Get(types.HeaderNonce))
	assert.Equal(t, 0, exec.count(), "no nonce fetch for foreign hosts")
}

func TestCookieAuthenticator_FailureIsNotCached(t *testing.T) {
	exec := &scriptedExecutor{handle: func(n int, _ *types.NetworkRequest) (*types.NetworkResponse, error) {
		// first Authenticate: both phases fail; second: nonce endpoint works
		if n <= 2 {
			return respond(403, ""), nil
		}
		return respond(200, "late"), nil
	}}
	a := NewCookieAuthenticator(testBase(t), testCreds, exec)

	req := types.NewRequest(types.MethodGet, "https://example.com/wp-json/")
	assert.False(t, a.Authenticate(context.Background(), req))
	assert.Empty(t, req.Headers.Get(types.HeaderNonce))

	req = types.NewRequest(types.MethodGet, "https://example.com/wp-json/")
	assert.True(t, a.Authenticate(context.Background(), req))
	assert.Equal(t, "late", req.Headers.Get(types.HeaderNonce))
	assert.Equal(t, 3, exec.count())
}

func TestCookieAuthenticator_ReAuthenticate(t *testing.T) {
	tests := []struct {
		name        string
		status      uint16
		want        bool
		wantNonce   string
		wantFetches int
	}{
		{"unauthorized refreshes", 401, true, "nonce2", 2},
		{"forbidden does not", 403, false, "nonce1", 1},
		{"ok does not", 200, false, "nonce1", 1},
		{"server error does not", 500, false, "nonce1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &scriptedExecutor{handle: func(n int, _ *types.NetworkRequest) (*types.NetworkResponse, error) {
				return respond(200, fmt.Sprintf("nonce%d", n)), nil
			}}
			a := NewCookieAuthenticator(testBase(t), testCreds, exec)

			req := types.NewRequest(types.MethodGet, "https://example.com/wp-json/wp/v2/users/me")
			require.True(t, a.Authenticate(context.Background(), req))

			got := a.ReAuthenticate(context.Background(), req, respond(tt.status, ""))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantNonce, req.Headers.Get(types.HeaderNonce))
			assert.Equal(t, tt.wantFetches, exec.count())
		})
	}
}

func TestCookieAuthenticator_ReAuthenticateFailsWhenNoNonce(t *testing.T) {
	exec := &scriptedExecutor{handle: func(n int, _ *types.NetworkRequest) (*types.NetworkResponse, error) {
		if n == 1 {
			return respond(200, "first"), nil
		}
		return respond(403, ""), nil
	}}
	a := NewCookieAuthenticator(testBase(t), testCreds, exec)

	req := types.NewRequest(types.MethodGet, "https://example.com/wp-json/")
	require.True(t, a.Authenticate(context.Background(), req))
	assert.False(t, a.ReAuthenticate(context.Background(), req, respond(401, "")))

	// The stale nonce was cleared, so the next call fetches again.
	before := exec.count()
	a.Authenticate(context.Background(), types.NewRequest(types.MethodGet, "https://example.com/wp-json/"))
	assert.Greater(t, exec.count(), before)
}

func TestCookieAuthenticator_Concurrent(t *testing.T) {
	exec := &scriptedExecutor{handle: func(int, *types.NetworkRequest) (*types.NetworkResponse, error) {
		return respond(200, "shared"), nil
	}}
	a := NewCookieAuthenticator(testBase(t), testCreds, exec)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := types.NewRequest(types.MethodGet, "https://example.com/wp-json/")
			if a.Authenticate(context.Background(), req) && i%5 == 0 {
				a.InvalidateNonce()
			}
		}()
	}
	wg.Wait()

	req := types.NewRequest(types.MethodGet, "https://example.com/wp-json/")
	assert.True(t, a.Authenticate(context.Background(), req))
	assert.Equal(t, "shared", req.Headers.Get(types.HeaderNonce))
}
