// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		host    string
	}{
		{name: "https", input: "https://example.com", host: "example.com"},
		{name: "with port and path", input: "http://localhost:8080/wp-admin", host: "localhost"},
		{name: "bare host", input: "example.com", wantErr: true},
		{name: "bare localhost", input: "localhost", wantErr: true},
		{name: "host and port only", input: "localhost:8080", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "invalid escape", input: "http://example.com/%zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var parseErr *URLParseError
				assert.ErrorAs(t, err, &parseErr)
				assert.Equal(t, tt.input, parseErr.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, u.String())
			assert.Equal(t, tt.host, u.Host())
			assert.False(t, u.IsZero())
		})
	}
}

func TestParsedURL_URLReturnsCopy(t *testing.T) {
	u := MustParseURL("https://example.com/a")
	inner := u.URL()
	inner.Path = "/changed"

	assert.Equal(t, "https://example.com/a", u.String())
}

func TestParsedURL_Resolve(t *testing.T) {
	u := MustParseURL("https://example.com/blog/")

	resolved, err := u.Resolve("/wp-json/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/wp-json/", resolved.String())

	resolved, err = u.Resolve("https://other.example/wp-json/")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example/wp-json/", resolved.String())
}

func TestParsedURL_JSON(t *testing.T) {
	type wrapper struct {
		URL ParsedURL `json:"url"`
	}

	data, err := json.Marshal(wrapper{URL: MustParseURL("https://example.com/wp-json/")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://example.com/wp-json/"}`, string(data))

	var decoded wrapper
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "https://example.com/wp-json/", decoded.URL.String())

	assert.Error(t, json.Unmarshal([]byte(`{"url":"example.com"}`), &decoded))
}

func TestAPIBaseURL_Derivations(t *testing.T) {
	tests := []struct {
		name      string
		root      string
		site      string
		nonce     string
		login     string
		postsURL  string
		plainRoot bool
	}{
		{
			name:     "pretty root",
			root:     "https://example.com/wp-json/",
			site:     "https://example.com/",
			nonce:    "https://example.com/wp-admin/admin-ajax.php?action=rest-nonce",
			login:    "https://example.com/wp-login.php",
			postsURL: "https://example.com/wp-json/wp/v2/posts",
		},
		{
			name:     "pretty root without trailing slash in subdirectory",
			root:     "https://example.com/blog/wp-json",
			site:     "https://example.com/blog/",
			nonce:    "https://example.com/blog/wp-admin/admin-ajax.php?action=rest-nonce",
			login:    "https://example.com/blog/wp-login.php",
			postsURL: "https://example.com/blog/wp-json/wp/v2/posts",
		},
		{
			name:     "subdirectory whose name starts with wp-json",
			root:     "https://example.com/wp-jsonblog/wp-json/",
			site:     "https://example.com/wp-jsonblog/",
			nonce:    "https://example.com/wp-jsonblog/wp-admin/admin-ajax.php?action=rest-nonce",
			login:    "https://example.com/wp-jsonblog/wp-login.php",
			postsURL: "https://example.com/wp-jsonblog/wp-json/wp/v2/posts",
		},
		{
			name:     "site inside a directory named wp-json",
			root:     "https://example.com/wp-json/blog/wp-json/",
			site:     "https://example.com/wp-json/blog/",
			nonce:    "https://example.com/wp-json/blog/wp-admin/admin-ajax.php?action=rest-nonce",
			login:    "https://example.com/wp-json/blog/wp-login.php",
			postsURL: "https://example.com/wp-json/blog/wp-json/wp/v2/posts",
		},
		{
			name:      "plain root",
			root:      "http://localhost:8080/?rest_route=/",
			site:      "http://localhost:8080/",
			nonce:     "http://localhost:8080/wp-admin/admin-ajax.php?action=rest-nonce",
			login:     "http://localhost:8080/wp-login.php",
			postsURL:  "http://localhost:8080/?rest_route=%2Fwp%2Fv2%2Fposts",
			plainRoot: true,
		},
		{
			name:      "plain root through index.php",
			root:      "https://example.com/index.php?rest_route=/",
			site:      "https://example.com/",
			nonce:     "https://example.com/wp-admin/admin-ajax.php?action=rest-nonce",
			login:     "https://example.com/wp-login.php",
			postsURL:  "https://example.com/index.php?rest_route=%2Fwp%2Fv2%2Fposts",
			plainRoot: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, err := ParseAPIBaseURL(tt.root)
			require.NoError(t, err)

			assert.Equal(t, tt.plainRoot, base.IsPlain())
			assert.Equal(t, tt.site, base.SiteURL().String())
			assert.Equal(t, tt.nonce, base.DerivedRestNonceURL())
			assert.Equal(t, tt.login, base.DerivedLoginURL())
			assert.Equal(t, tt.postsURL, base.ByAppendingRoute("/wp/v2/posts"))
		})
	}
}

func TestAPIBaseURL_ByAppendingRouteKeepsQuery(t *testing.T) {
	base, err := ParseAPIBaseURL("https://example.com/wp-json/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/wp-json/wp/v2/posts?per_page=1", base.ByAppendingRoute("wp/v2/posts?per_page=1"))

	plain, err := ParseAPIBaseURL("https://example.com/?rest_route=/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/?per_page=1&rest_route=%2Fwp%2Fv2%2Fposts", plain.ByAppendingRoute("wp/v2/posts?per_page=1"))
}
