// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package login

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/wpapi/wpapi/pkg/types"
)

type handlerFunc func(ctx context.Context, req *types.NetworkRequest) (*types.NetworkResponse, error)

// fakeSite routes requests by "METHOD URL" and counts every call.
type fakeSite struct {
	mu     sync.Mutex
	routes map[string]handlerFunc
	calls  map[string]int
}

func newFakeSite() *fakeSite {
	return &fakeSite{routes: map[string]handlerFunc{}, calls: map[string]int{}}
}

func (f *fakeSite) handle(method types.RequestMethod, url string, h handlerFunc) {
	f.routes[string(method)+" "+url] = h
}

func (f *fakeSite) respond(method types.RequestMethod, url string, resp *types.NetworkResponse) {
	f.handle(method, url, func(context.Context, *types.NetworkRequest) (*types.NetworkResponse, error) {
		return resp, nil
	})
}

func (f *fakeSite) wordpress(site, apiRoot string) {
	f.respond(types.MethodHead, site, linkResponse(fmt.Sprintf(`<%s>; rel="https://api.w.org/"`, apiRoot)))
	f.respond(types.MethodGet, apiRoot, jsonResponse(detailsJSON(site)))
}

func (f *fakeSite) count(method types.RequestMethod, url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[string(method)+" "+url]
}

func (f *fakeSite) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeSite) Execute(ctx context.Context, req *types.NetworkRequest) (*types.NetworkResponse, error) {
	key := string(req.Method) + " " + req.URL
	f.mu.Lock()
	f.calls[key]++
	h, ok := f.routes[key]
	f.mu.Unlock()
	if !ok {
		return nil, types.NewRequestExecutionError("no route for " + key)
	}
	return h(ctx, req)
}

func linkResponse(links ...string) *types.NetworkResponse {
	h := make(http.Header)
	for _, l := range links {
		h.Add(types.HeaderLink, l)
	}
	return &types.NetworkResponse{StatusCode: 200, Headers: h}
}

func jsonResponse(body string) *types.NetworkResponse {
	h := make(http.Header)
	h.Set(types.HeaderContentType, "application/json")
	return &types.NetworkResponse{StatusCode: 200, Body: []byte(body), Headers: h}
}

func textResponse(status uint16, body string) *types.NetworkResponse {
	return &types.NetworkResponse{StatusCode: status, Body: []byte(body), Headers: make(http.Header)}
}

func detailsJSON(site string) string {
	return fmt.Sprintf(`{
		"name": "Test Site",
		"description": "Just another WordPress site",
		"url": %q,
		"home": %q,
		"gmt_offset": "0",
		"timezone_string": "",
		"namespaces": ["oembed/1.0", "wp/v2"],
		"authentication": [],
		"routes": {}
	}`, site, site)
}
