// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ApplicationPasswordsAuthKey is the authentication map key WordPress uses to
// advertise application password support.
const ApplicationPasswordsAuthKey = "application-passwords"

// WpAPIDetails is the document served at a site's REST API root.
type WpAPIDetails struct {
	// Name is the site title
	Name string `json:"name" yaml:"name"`

	// Description is the site tagline
	Description string `json:"description" yaml:"description"`

	// URL is the WordPress address (siteurl option)
	URL string `json:"url" yaml:"url"`

	// Home is the site address (home option)
	Home string `json:"home" yaml:"home"`

	// GMTOffset is the site's UTC offset in hours
	GMTOffset GMTOffset `json:"gmt_offset" yaml:"gmtOffset"`

	// TimezoneString is the site's named timezone, if configured
	TimezoneString string `json:"timezone_string" yaml:"timezoneString"`

	// Namespaces lists every REST namespace registered on the site
	Namespaces []string `json:"namespaces" yaml:"namespaces"`

	// Authentication maps authentication scheme names to their endpoints
	Authentication AuthenticationMap `json:"authentication" yaml:"authentication,omitempty"`

	// Routes maps route patterns to their descriptions
	Routes map[string]RouteDetails `json:"routes,omitempty" yaml:"routes,omitempty"`

	// SiteLogo is the attachment ID of the site logo
	SiteLogo int `json:"site_logo,omitempty" yaml:"siteLogo,omitempty"`

	// SiteIcon is the attachment ID of the site icon
	SiteIcon int `json:"site_icon,omitempty" yaml:"siteIcon,omitempty"`

	// SiteIconURL is the full URL of the site icon
	SiteIconURL string `json:"site_icon_url,omitempty" yaml:"siteIconUrl,omitempty"`
}

// RouteDetails describes a single REST route.
type RouteDetails struct {
	Namespace string   `json:"namespace" yaml:"namespace"`
	Methods   []string `json:"methods" yaml:"methods"`
}

// AuthenticationScheme describes one entry of the authentication map.
type AuthenticationScheme struct {
	Endpoints AuthenticationEndpoints `json:"endpoints" yaml:"endpoints"`
}

// AuthenticationEndpoints holds the endpoints of an authentication scheme.
type AuthenticationEndpoints struct {
	Authorization string `json:"authorization" yaml:"authorization"`
}

// AuthenticationMap is keyed by scheme name. PHP serializes an empty map as [],
// which decodes to an empty map.
type AuthenticationMap map[string]AuthenticationScheme

// UnmarshalJSON accepts both an object and an empty array.
func (m *AuthenticationMap) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*m = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			return errors.New("authentication must be an object")
		}
		*m = AuthenticationMap{}
		return nil
	}
	raw := map[string]AuthenticationScheme{}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*m = raw
	return nil
}

// GMTOffset is a UTC offset in hours. WordPress emits it either as a number or
// as a numeric string depending on how the option was saved.
type GMTOffset float64

// UnmarshalJSON accepts a number or a numeric string.
func (o *GMTOffset) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*o = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("gmt_offset %q is not numeric", s)
		}
		*o = GMTOffset(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return err
	}
	*o = GMTOffset(f)
	return nil
}

// ParseWpAPIDetails decodes an API root document. A body that decodes as JSON
// but does not look like an API root (for example a REST error object) is
// rejected.
func ParseWpAPIDetails(body []byte) (*WpAPIDetails, error) {
	var details WpAPIDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to decode api details: %w", err)
	}
	if details.URL == "" {
		return nil, errors.New("api details are missing the url field")
	}
	if details.Namespaces == nil {
		return nil, errors.New("api details are missing the namespaces field")
	}
	return &details, nil
}

// FindApplicationPasswordsAuthenticationURL returns the authorization endpoint
// advertised for application passwords, if any.
func (d *WpAPIDetails) FindApplicationPasswordsAuthenticationURL() (string, bool) {
	scheme, ok := d.Authentication[ApplicationPasswordsAuthKey]
	if !ok || scheme.Endpoints.Authorization == "" {
		return "", false
	}
	return scheme.Endpoints.Authorization, true
}

// HasNamespace reports whether namespace (e.g. "wp/v2") is registered.
func (d *WpAPIDetails) HasNamespace(namespace string) bool {
	for _, ns := range d.Namespaces {
		if ns == namespace {
			return true
		}
	}
	return false
}

// MatchRoutes returns the sorted route names matching a doublestar glob such
// as "/wp/v2/**". An empty pattern matches every route.
func (d *WpAPIDetails) MatchRoutes(pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid route pattern %q", pattern)
	}
	var matched []string
	for route := range d.Routes {
		if pattern == "" {
			matched = append(matched, route)
			continue
		}
		ok, err := doublestar.Match(pattern, route)
		if err != nil {
			return nil, fmt.Errorf("match route %q: %w", route, err)
		}
		if ok {
			matched = append(matched, route)
		}
	}
	sort.Strings(matched)
	return matched, nil
}
