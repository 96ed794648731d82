// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

// Package transport defines the RequestExecutor capability every wpapi component
// sends HTTP traffic through, plus a net/http implementation of it.
package transport

import (
	"context"

	"github.com/wpapi/wpapi/pkg/types"
)

// RequestExecutor performs a single HTTP request. Implementations return a
// *types.RequestExecutionError when the request could not be executed; any
// received response, whatever its status, is returned without error.
type RequestExecutor interface {
	Execute(ctx context.Context, req *types.NetworkRequest) (*types.NetworkResponse, error)
}

// ExecutorFunc adapts a function to the RequestExecutor interface.
type ExecutorFunc func(ctx context.Context, req *types.NetworkRequest) (*types.NetworkResponse, error)

// Execute calls f(ctx, req).
func (f ExecutorFunc) Execute(ctx context.Context, req *types.NetworkRequest) (*types.NetworkResponse, error) {
	return f(ctx, req)
}
