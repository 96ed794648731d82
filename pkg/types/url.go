// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types provides the core data structures shared by the wpapi client packages.
package types

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	restNoncePath  = "wp-admin/admin-ajax.php"
	restNonceQuery = "action=rest-nonce"
	loginPath      = "wp-login.php"
	restRouteParam = "rest_route"
)

// URLParseError is returned when a string is not a valid absolute URL.
type URLParseError struct {
	Input  string
	Reason string
}

func (e *URLParseError) Error() string {
	return fmt.Sprintf("invalid url %q: %s", e.Input, e.Reason)
}

// ParsedURL is a validated, absolute URL. The zero value is not a valid URL;
// values are only produced by ParseURL.
type ParsedURL struct {
	inner url.URL
}

// ParseURL parses raw and requires it to carry both a scheme and a host.
func ParseURL(raw string) (ParsedURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ParsedURL{}, &URLParseError{Input: raw, Reason: err.Error()}
	}
	if u.Scheme == "" {
		return ParsedURL{}, &URLParseError{Input: raw, Reason: "relative URL without a base"}
	}
	if u.Host == "" {
		return ParsedURL{}, &URLParseError{Input: raw, Reason: "empty host"}
	}
	return ParsedURL{inner: *u}, nil
}

// MustParseURL is like ParseURL but panics on error. Intended for constants and tests.
func MustParseURL(raw string) ParsedURL {
	u, err := ParseURL(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// IsZero reports whether u was never initialized.
func (u ParsedURL) IsZero() bool {
	return u.inner.Scheme == "" && u.inner.Host == ""
}

// String returns the URL in its canonical string form.
func (u ParsedURL) String() string {
	return u.inner.String()
}

// Host returns the host name without any port.
func (u ParsedURL) Host() string {
	return u.inner.Hostname()
}

// URL returns a copy of the underlying net/url value.
func (u ParsedURL) URL() *url.URL {
	c := u.inner
	return &c
}

// Resolve resolves ref against u. The result must itself be absolute.
func (u ParsedURL) Resolve(ref string) (ParsedURL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return ParsedURL{}, &URLParseError{Input: ref, Reason: err.Error()}
	}
	return ParseURL(u.inner.ResolveReference(r).String())
}

// MarshalText implements encoding.TextMarshaler.
func (u ParsedURL) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *ParsedURL) UnmarshalText(text []byte) error {
	parsed, err := ParseURL(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// APIBaseURL is the root under which every REST route of a site lives, as
// discovered from the site's Link header. Both pretty (/wp-json/) and plain
// (?rest_route=/) roots are supported.
type APIBaseURL struct {
	root ParsedURL
}

// NewAPIBaseURL wraps an already parsed API root.
func NewAPIBaseURL(root ParsedURL) APIBaseURL {
	return APIBaseURL{root: root}
}

// ParseAPIBaseURL parses raw as an API root.
func ParseAPIBaseURL(raw string) (APIBaseURL, error) {
	root, err := ParseURL(raw)
	if err != nil {
		return APIBaseURL{}, err
	}
	return APIBaseURL{root: root}, nil
}

// URL returns the API root itself.
func (b APIBaseURL) URL() ParsedURL {
	return b.root
}

func (b APIBaseURL) String() string {
	return b.root.String()
}

// Host returns the host name of the API root.
func (b APIBaseURL) Host() string {
	return b.root.Host()
}

// IsPlain reports whether the root uses the ?rest_route= form.
func (b APIBaseURL) IsPlain() bool {
	return b.root.inner.Query().Has(restRouteParam)
}

// SiteURL derives the site root from the API root: the last wp-json path segment
// and what follows it (or the rest_route query for plain roots) is removed and a
// trailing slash is kept.
func (b APIBaseURL) SiteURL() ParsedURL {
	u := b.root.URL()
	path := u.Path
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "wp-json" {
			path = strings.Join(segments[:i], "/")
			break
		}
	}
	path = strings.TrimSuffix(path, "index.php")
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	u.Path = path
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return ParsedURL{inner: *u}
}

// DerivedRestNonceURL returns the admin-ajax endpoint that echoes a REST nonce.
func (b APIBaseURL) DerivedRestNonceURL() string {
	site := b.SiteURL().URL()
	return site.ResolveReference(&url.URL{Path: restNoncePath, RawQuery: restNonceQuery}).String()
}

// DerivedLoginURL returns the site's wp-login.php endpoint.
func (b APIBaseURL) DerivedLoginURL() string {
	site := b.SiteURL().URL()
	return site.ResolveReference(&url.URL{Path: loginPath}).String()
}

// ByAppendingRoute builds the URL of a REST route such as "wp/v2/posts". A query
// string on route is preserved.
func (b APIBaseURL) ByAppendingRoute(route string) string {
	route = strings.TrimPrefix(route, "/")
	path, query, _ := strings.Cut(route, "?")
	u := b.root.URL()

	if b.IsPlain() {
		values, err := url.ParseQuery(query)
		if err != nil {
			values = url.Values{}
		}
		values.Set(restRouteParam, "/"+path)
		u.RawQuery = values.Encode()
		return u.String()
	}

	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.Path += path
	u.RawPath = ""
	u.RawQuery = query
	return u.String()
}
