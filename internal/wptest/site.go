// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

// Package wptest serves a minimal WordPress site for tests.
//
// Like WordPress, the nonce endpoint only answers logged-in sessions, so
// cookie authentication always goes through wp-login.php first.
package wptest

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	loggedInCookie = "wordpress_logged_in_test"
	apiRel         = "https://api.w.org/"
)

// Site is a running fake WordPress site.
type Site struct {
	server *httptest.Server
	router *chi.Mux

	username            string
	password            string
	applicationPassword string
	plainPermalinks     bool

	mu     sync.Mutex
	nonce  string
	serial int
	hits   map[string]int
}

// Option configures a Site.
type Option func(*Site)

// WithUser sets the login credentials accepted by wp-login.php.
func WithUser(username, password string) Option {
	return func(s *Site) {
		s.username = username
		s.password = password
	}
}

// WithApplicationPassword sets the password accepted through HTTP Basic.
func WithApplicationPassword(password string) Option {
	return func(s *Site) {
		s.applicationPassword = password
	}
}

// WithPlainPermalinks advertises the API root as /?rest_route=/.
func WithPlainPermalinks() Option {
	return func(s *Site) {
		s.plainPermalinks = true
	}
}

// New starts a Site. Call Close when done.
func New(opts ...Option) *Site {
	s := &Site{
		username:            "admin",
		password:            "password",
		applicationPassword: "abcd efgh ijkl mnop",
		hits:                map[string]int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rotate()

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.count)

	router.Head("/", s.handleHome)
	router.Get("/", s.handleHome)
	router.Get("/wp-json", s.handleIndex)
	router.Get("/wp-json/*", s.handleRoute)
	router.Get("/wp-admin/admin-ajax.php", s.handleAdminAjax)
	router.Post("/wp-login.php", s.handleLogin)

	s.router = router
	s.server = httptest.NewServer(router)
	return s
}

// URL returns the site address without a trailing slash.
func (s *Site) URL() string {
	return s.server.URL
}

// APIRoot returns the API root the site advertises.
func (s *Site) APIRoot() string {
	if s.plainPermalinks {
		return s.server.URL + "/?rest_route=/"
	}
	return s.server.URL + "/wp-json/"
}

// Close shuts the server down.
func (s *Site) Close() {
	s.server.Close()
}

// Nonce returns the nonce currently handed out.
func (s *Site) Nonce() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonce
}

// ExpireNonce replaces the current nonce, invalidating the one clients hold.
func (s *Site) ExpireNonce() {
	s.rotate()
}

// Hits returns how many requests were made for "METHOD /path".
func (s *Site) Hits(methodAndPath string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[methodAndPath]
}

func (s *Site) rotate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serial++
	s.nonce = fmt.Sprintf("n%09d", s.serial)
}

func (s *Site) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	if route := r.URL.Query().Get("rest_route"); route != "" && s.plainPermalinks {
		s.serveRoute(w, r, strings.TrimPrefix(route, "/"))
		return
	}
	w.Header().Add("Link", fmt.Sprintf(`<%s>; rel="%s"`, s.APIRoot(), apiRel))
	w.Header().Add("Link", fmt.Sprintf(`<%s/?p=1>; rel="shortlink"`, s.server.URL))
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	if r.Method == http.MethodGet {
		_, _ = w.Write([]byte("<html><body>Test Site</body></html>"))
	}
}

func (s *Site) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.serveRoute(w, r, "")
}

func (s *Site) handleRoute(w http.ResponseWriter, r *http.Request) {
	s.serveRoute(w, r, chi.URLParam(r, "*"))
}

func (s *Site) serveRoute(w http.ResponseWriter, r *http.Request, route string) {
	route = strings.Trim(route, "/")
	switch route {
	case "":
		writeJSON(w, http.StatusOK, s.index())
	case "wp/v2/posts":
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "title": map[string]string{"rendered": "Hello world!"}},
		})
	case "wp/v2/users/me":
		if !s.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"code":    "rest_not_logged_in",
				"message": "You are not currently logged in.",
				"data":    map[string]int{"status": http.StatusUnauthorized},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "name": s.username})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{
			"code":    "rest_no_route",
			"message": "No route was found matching the URL and request method.",
		})
	}
}

func (s *Site) index() map[string]any {
	return map[string]any{
		"name":            "Test Site",
		"description":     "Just another WordPress site",
		"url":             s.server.URL,
		"home":            s.server.URL,
		"gmt_offset":      "0",
		"timezone_string": "",
		"namespaces":      []string{"oembed/1.0", "wp/v2", "wp-site-health/v1"},
		"authentication": map[string]any{
			"application-passwords": map[string]any{
				"endpoints": map[string]string{
					"authorization": s.server.URL + "/wp-admin/authorize-application.php",
				},
			},
		},
		"routes": map[string]any{
			"/":               map[string]any{"namespace": "", "methods": []string{"GET"}},
			"/wp/v2":          map[string]any{"namespace": "wp/v2", "methods": []string{"GET"}},
			"/wp/v2/posts":    map[string]any{"namespace": "wp/v2", "methods": []string{"GET", "POST"}},
			"/wp/v2/users/me": map[string]any{"namespace": "wp/v2", "methods": []string{"GET", "POST", "PUT", "PATCH", "DELETE"}},
		},
	}
}

func (s *Site) handleAdminAjax(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("action") != "rest-nonce" {
		http.Error(w, "0", http.StatusBadRequest)
		return
	}
	if !s.loggedIn(r) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("0"))
		return
	}
	_, _ = w.Write([]byte(s.Nonce()))
}

func (s *Site) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("log") != s.username || r.PostForm.Get("pwd") != s.password {
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		_, _ = w.Write([]byte(`<html><body><div id="login_error">The password you entered is incorrect.</div></body></html>`))
		return
	}

	http.SetCookie(w, &http.Cookie{Name: loggedInCookie, Value: s.username, Path: "/"})
	redirect := r.PostForm.Get("redirect_to")
	if redirect == "" {
		redirect = s.server.URL + "/wp-admin/"
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}

func (s *Site) loggedIn(r *http.Request) bool {
	c, err := r.Cookie(loggedInCookie)
	return err == nil && c.Value == s.username
}

func (s *Site) authorized(r *http.Request) bool {
	if user, pass, ok := r.BasicAuth(); ok {
		return user == s.username && subtle.ConstantTimeCompare([]byte(pass), []byte(s.applicationPassword)) == 1
	}
	nonce := r.Header.Get("X-WP-Nonce")
	return nonce != "" && nonce == s.Nonce() && s.loggedIn(r)
}

// BasicAuth returns the Authorization header value for the application password.
func (s *Site) BasicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(s.username+":"+s.applicationPassword))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
