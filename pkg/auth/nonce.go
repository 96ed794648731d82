// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package auth

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/wpapi/wpapi/pkg/transport"
	"github.com/wpapi/wpapi/pkg/types"
)

// maxNonceLength bounds what is accepted as a nonce body. Sites that redirect
// admin-ajax.php to an HTML page produce far longer bodies.
const maxNonceLength = 50

// FetchRestNonce obtains a REST nonce for apiBaseURL. The nonce endpoint is
// tried first without credentials; when that does not answer with a nonce the
// login form is posted with redirect_to pointing at the nonce endpoint. The
// bool result is false when neither step produced a nonce.
func FetchRestNonce(ctx context.Context, executor transport.RequestExecutor, apiBaseURL types.APIBaseURL, creds types.Credentials, opts ...Option) (string, bool) {
	o := buildOptions(opts)
	nonceURL := apiBaseURL.DerivedRestNonceURL()
	logger := o.logger.With(zap.String("nonceURL", nonceURL))

	resp, err := executor.Execute(ctx, types.NewRequest(types.MethodGet, nonceURL))
	if err != nil {
		logger.Debug("nonce endpoint request failed", zap.Error(err))
	} else if nonce, ok := nonceFromResponse(resp); ok {
		logger.Debug("nonce obtained from nonce endpoint")
		return nonce, true
	}

	form := url.Values{}
	form.Set("log", creds.Username)
	form.Set("pwd", creds.Password)
	form.Set("rememberme", "true")
	form.Set("redirect_to", nonceURL)

	login := types.NewRequest(types.MethodPost, apiBaseURL.DerivedLoginURL())
	login.SetHeader(types.HeaderContentType, "application/x-www-form-urlencoded")
	login.Body = []byte(form.Encode())

	resp, err = executor.Execute(ctx, login)
	if err != nil {
		logger.Debug("login request failed", zap.Error(err))
		return "", false
	}
	if nonce, ok := nonceFromResponse(resp); ok {
		logger.Debug("nonce obtained through login")
		return nonce, true
	}

	logger.Debug("no nonce available", zap.Uint16("status", resp.StatusCode), zap.Int("bodyLength", len(resp.Body)))
	return "", false
}

func nonceFromResponse(resp *types.NetworkResponse) (string, bool) {
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	if len(resp.Body) == 0 || len(resp.Body) >= maxNonceLength {
		return "", false
	}
	return string(resp.Body), true
}
