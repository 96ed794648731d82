// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package login

import (
	"context"
	"errors"
	"strings"

	"github.com/tomnomnom/linkheader"
	"go.uber.org/zap"

	"github.com/wpapi/wpapi/pkg/transport"
	"github.com/wpapi/wpapi/pkg/types"
)

// apiRootRel is the Link relation WordPress uses to advertise its REST API root.
const apiRootRel = "https://api.w.org/"

// A discovery attempt moves strictly forward through these states. Each
// transition consumes its receiver and returns the next state or an
// AttemptError.

type stateInitial struct {
	siteURL string
}

type stateParsedURL struct {
	siteURL types.ParsedURL
}

type stateFetchedAPIRootURL struct {
	siteURL    types.ParsedURL
	apiRootURL types.ParsedURL
}

func (s stateInitial) parse() (stateParsedURL, AttemptError) {
	parsed, err := types.ParseURL(s.siteURL)
	if err != nil {
		return stateParsedURL{}, &FailedToParseSiteURLError{Input: s.siteURL, Err: err}
	}
	return stateParsedURL{siteURL: parsed}, nil
}

func (s stateParsedURL) fetchAPIRootURL(ctx context.Context, executor transport.RequestExecutor) (stateFetchedAPIRootURL, AttemptError) {
	resp, err := executor.Execute(ctx, types.NewRequest(types.MethodHead, s.siteURL.String()))
	if err != nil {
		if ctx.Err() != nil {
			return stateFetchedAPIRootURL{}, &AttemptCancelledError{Site: s.siteURL.String(), Err: ctx.Err()}
		}
		return stateFetchedAPIRootURL{}, &FetchAPIRootURLFailedError{Site: s.siteURL, Err: asExecutionError(err)}
	}

	root, err := parseAPIRootResponse(s.siteURL, resp)
	if err != nil {
		return stateFetchedAPIRootURL{}, &FetchAPIRootURLFailedError{Site: s.siteURL, Err: err}
	}
	return stateFetchedAPIRootURL{siteURL: s.siteURL, apiRootURL: root}, nil
}

func (s stateFetchedAPIRootURL) fetchAPIDetails(ctx context.Context, executor transport.RequestExecutor) (*AttemptSuccess, AttemptError) {
	resp, err := executor.Execute(ctx, types.NewRequest(types.MethodGet, s.apiRootURL.String()))
	if err != nil {
		if ctx.Err() != nil {
			return nil, &AttemptCancelledError{Site: s.siteURL.String(), Err: ctx.Err()}
		}
		return nil, &FetchAPIDetailsFailedError{Site: s.siteURL, APIRoot: s.apiRootURL, Err: asExecutionError(err)}
	}

	details, err := types.ParseWpAPIDetails(resp.Body)
	if err != nil {
		return nil, &FetchAPIDetailsFailedError{
			Site:    s.siteURL,
			APIRoot: s.apiRootURL,
			Err:     &APIDetailsParseError{Reason: err.Error(), ResponseBody: resp.BodyString()},
		}
	}

	return &AttemptSuccess{
		SiteURL:    s.siteURL,
		APIRootURL: s.apiRootURL,
		APIDetails: details,
	}, nil
}

// runAttempt drives a single candidate through every state.
func runAttempt(ctx context.Context, executor transport.RequestExecutor, candidate string, logger *zap.Logger) AttemptState {
	fail := func(err AttemptError) AttemptState {
		logger.Debug("discovery attempt failed", zap.Error(err))
		return &AttemptFailure{Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(&AttemptCancelledError{Site: candidate, Err: err})
	}

	parsed, aerr := stateInitial{siteURL: candidate}.parse()
	if aerr != nil {
		return fail(aerr)
	}

	fetched, aerr := parsed.fetchAPIRootURL(ctx, executor)
	if aerr != nil {
		return fail(aerr)
	}
	logger.Debug("found api root", zap.String("apiRoot", fetched.apiRootURL.String()))

	success, aerr := fetched.fetchAPIDetails(ctx, executor)
	if aerr != nil {
		return fail(aerr)
	}
	logger.Debug("discovery attempt succeeded", zap.String("siteName", success.APIDetails.Name))
	return success
}

// parseAPIRootResponse returns the target of the first Link whose relation
// is the REST API root. Relative targets are resolved against site.
func parseAPIRootResponse(site types.ParsedURL, resp *types.NetworkResponse) (types.ParsedURL, error) {
	for _, link := range linkheader.ParseMultiple(resp.HeaderValues(types.HeaderLink)) {
		if !hasRel(link.Rel, apiRootRel) {
			continue
		}
		root, err := site.Resolve(link.URL)
		if err != nil {
			continue
		}
		return root, nil
	}
	return types.ParsedURL{}, &APIRootLinkHeaderNotFoundError{
		Headers:    resp.Headers.Clone(),
		StatusCode: resp.StatusCode,
	}
}

// hasRel reports whether the space separated relation list rels contains rel.
func hasRel(rels, rel string) bool {
	for _, r := range strings.Fields(rels) {
		if strings.EqualFold(r, rel) {
			return true
		}
	}
	return false
}

func asExecutionError(err error) *types.RequestExecutionError {
	var execErr *types.RequestExecutionError
	if errors.As(err, &execErr) {
		return execErr
	}
	return types.NewRequestExecutionError(err.Error())
}
