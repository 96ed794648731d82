// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/wpapi/wpapi/pkg/types"
)

// scriptedExecutor answers requests with a handler and records what it saw.
type scriptedExecutor struct {
	mu       sync.Mutex
	requests []*types.NetworkRequest
	handle   func(n int, req *types.NetworkRequest) (*types.NetworkResponse, error)
}

func (s *scriptedExecutor) Execute(_ context.Context, req *types.NetworkRequest) (*types.NetworkResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req.Clone())
	n := len(s.requests)
	s.mu.Unlock()
	return s.handle(n, req)
}

func (s *scriptedExecutor) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *scriptedExecutor) request(i int) *types.NetworkRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[i]
}

func respond(status uint16, body string) *types.NetworkResponse {
	return &types.NetworkResponse{StatusCode: status, Body: []byte(body), Headers: make(http.Header)}
}

// fixedAuthenticator attaches a counter header and re-authenticates a fixed
// number of times.
type fixedAuthenticator struct {
	authenticated   int
	reauthenticated int
	reauthAllowed   int
}

func (f *fixedAuthenticator) Authenticate(_ context.Context, req *types.NetworkRequest) bool {
	f.authenticated++
	req.SetHeader("X-Test-Auth", "yes")
	return true
}

func (f *fixedAuthenticator) ReAuthenticate(_ context.Context, req *types.NetworkRequest, previous *types.NetworkResponse) bool {
	if previous.StatusCode != http.StatusUnauthorized || f.reauthenticated >= f.reauthAllowed {
		return false
	}
	f.reauthenticated++
	req.SetHeader("X-Test-Auth", "again")
	return true
}
