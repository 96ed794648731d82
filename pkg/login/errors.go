// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package login

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/wpapi/wpapi/pkg/types"
)

// AttemptError describes why a single discovery attempt failed. The concrete
// type tells which phase failed; SiteURL names the candidate it failed for.
type AttemptError interface {
	error
	SiteURL() string
	attemptError()
}

// Compile-time checks
var (
	_ AttemptError = (*FailedToParseSiteURLError)(nil)
	_ AttemptError = (*FetchAPIRootURLFailedError)(nil)
	_ AttemptError = (*FetchAPIDetailsFailedError)(nil)
	_ AttemptError = (*AttemptCancelledError)(nil)
)

// FailedToParseSiteURLError is returned when a candidate is not an absolute URL.
type FailedToParseSiteURLError struct {
	Input string
	Err   error
}

func (e *FailedToParseSiteURLError) Error() string {
	return fmt.Sprintf("failed to parse site url %q: %v", e.Input, e.Err)
}

func (e *FailedToParseSiteURLError) Unwrap() error { return e.Err }

// SiteURL returns the candidate as given.
func (e *FailedToParseSiteURLError) SiteURL() string { return e.Input }

func (*FailedToParseSiteURLError) attemptError() {}

// FetchAPIRootURLFailedError is returned when the site did not point at its
// API root. Err is a *types.RequestExecutionError or an
// *APIRootLinkHeaderNotFoundError.
type FetchAPIRootURLFailedError struct {
	Site types.ParsedURL
	Err  error
}

func (e *FetchAPIRootURLFailedError) Error() string {
	return fmt.Sprintf("failed to fetch api root url for %s: %v", e.Site, e.Err)
}

func (e *FetchAPIRootURLFailedError) Unwrap() error { return e.Err }

// SiteURL returns the parsed candidate.
func (e *FetchAPIRootURLFailedError) SiteURL() string { return e.Site.String() }

func (*FetchAPIRootURLFailedError) attemptError() {}

// FetchAPIDetailsFailedError is returned when the API root was found but its
// document could not be fetched or parsed. Err is a
// *types.RequestExecutionError or an *APIDetailsParseError.
type FetchAPIDetailsFailedError struct {
	Site    types.ParsedURL
	APIRoot types.ParsedURL
	Err     error
}

func (e *FetchAPIDetailsFailedError) Error() string {
	return fmt.Sprintf("failed to fetch api details from %s (site %s): %v", e.APIRoot, e.Site, e.Err)
}

func (e *FetchAPIDetailsFailedError) Unwrap() error { return e.Err }

// SiteURL returns the parsed candidate.
func (e *FetchAPIDetailsFailedError) SiteURL() string { return e.Site.String() }

func (*FetchAPIDetailsFailedError) attemptError() {}

// AttemptCancelledError is recorded when the context was done before an
// attempt could finish.
type AttemptCancelledError struct {
	Site string
	Err  error
}

func (e *AttemptCancelledError) Error() string {
	return fmt.Sprintf("discovery of %s was cancelled: %v", e.Site, e.Err)
}

func (e *AttemptCancelledError) Unwrap() error { return e.Err }

// SiteURL returns the candidate, parsed if parsing had already succeeded.
func (e *AttemptCancelledError) SiteURL() string { return e.Site }

func (*AttemptCancelledError) attemptError() {}

// APIRootLinkHeaderNotFoundError means the site answered but sent no Link
// header with the REST API relation.
type APIRootLinkHeaderNotFoundError struct {
	Headers    http.Header
	StatusCode uint16
}

func (e *APIRootLinkHeaderNotFoundError) Error() string {
	return fmt.Sprintf("no %q link header in response (status %d)", apiRootRel, e.StatusCode)
}

// APIDetailsParseError means the API root responded with something that is
// not a WordPress API root document.
type APIDetailsParseError struct {
	Reason       string
	ResponseBody string
}

func (e *APIDetailsParseError) Error() string {
	return "api details couldn't be parsed: " + e.Reason
}

// AttemptState is the outcome of one discovery attempt: *AttemptSuccess or
// *AttemptFailure.
type AttemptState interface {
	attemptState()
}

// AttemptSuccess is a fully discovered site.
type AttemptSuccess struct {
	SiteURL    types.ParsedURL
	APIRootURL types.ParsedURL
	APIDetails *types.WpAPIDetails
}

func (*AttemptSuccess) attemptState() {}

// APIBaseURL returns the discovered API root as an APIBaseURL.
func (s *AttemptSuccess) APIBaseURL() types.APIBaseURL {
	return types.NewAPIBaseURL(s.APIRootURL)
}

// AttemptFailure wraps the error of a failed attempt.
type AttemptFailure struct {
	Err AttemptError
}

func (*AttemptFailure) attemptState() {}

// DiscoverySuccess is the result of a discovery in which at least one
// candidate succeeded. Attempts holds every candidate's outcome, the winner
// included, keyed by site URL.
type DiscoverySuccess struct {
	SiteURL    types.ParsedURL
	APIRootURL types.ParsedURL
	APIDetails *types.WpAPIDetails
	Attempts   map[string]AttemptState
}

// APIBaseURL returns the discovered API root as an APIBaseURL.
func (s *DiscoverySuccess) APIBaseURL() types.APIBaseURL {
	return types.NewAPIBaseURL(s.APIRootURL)
}

// DiscoveryError is returned when no candidate succeeded.
type DiscoveryError struct {
	Attempts map[string]AttemptState
}

// Failures returns the attempt errors ordered by site URL.
func (e *DiscoveryError) Failures() []AttemptError {
	keys := make([]string, 0, len(e.Attempts))
	for k := range e.Attempts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var failures []AttemptError
	for _, k := range keys {
		if f, ok := e.Attempts[k].(*AttemptFailure); ok {
			failures = append(failures, f.Err)
		}
	}
	return failures
}

func (e *DiscoveryError) Error() string {
	var merr *multierror.Error
	for _, f := range e.Failures() {
		merr = multierror.Append(merr, f)
	}
	if merr == nil {
		return "url discovery failed: no candidates were attempted"
	}
	merr.ErrorFormat = func(errs []error) string {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return fmt.Sprintf("url discovery failed for %d candidate(s): %s", len(errs), strings.Join(msgs, "; "))
	}
	return merr.Error()
}

// Unwrap exposes every attempt error to errors.Is and errors.As.
func (e *DiscoveryError) Unwrap() []error {
	failures := e.Failures()
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return errs
}
