// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/wpapi/wpapi/internal/util"
	"github.com/wpapi/wpapi/pkg/login"
	"github.com/wpapi/wpapi/pkg/types"
)

// bodyPreviewLength caps response bodies quoted in reports.
const bodyPreviewLength = 120

// Attempt phases as reported.
const (
	PhaseComplete        = "complete"
	PhaseParseSiteURL    = "parse-site-url"
	PhaseFetchAPIRootURL = "fetch-api-root-url"
	PhaseFetchAPIDetails = "fetch-api-details"
	PhaseCancelled       = "cancelled"
)

// DiscoveryReport summarizes an API discovery, successful or not.
type DiscoveryReport struct {
	Input    string          `json:"input" yaml:"input"`
	Success  bool            `json:"success" yaml:"success"`
	SiteURL  string          `json:"siteUrl,omitempty" yaml:"siteUrl,omitempty"`
	APIRoot  string          `json:"apiRoot,omitempty" yaml:"apiRoot,omitempty"`
	Site     *SiteSummary    `json:"site,omitempty" yaml:"site,omitempty"`
	Attempts []AttemptReport `json:"attempts" yaml:"attempts"`
}

// SiteSummary holds the interesting parts of the API root document.
type SiteSummary struct {
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Home           string   `json:"home,omitempty" yaml:"home,omitempty"`
	Timezone       string   `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Namespaces     []string `json:"namespaces" yaml:"namespaces"`
	Authentication []string `json:"authentication,omitempty" yaml:"authentication,omitempty"`
	Routes         int      `json:"routes" yaml:"routes"`
}

// AttemptReport describes one candidate URL.
type AttemptReport struct {
	URL        string `json:"url" yaml:"url"`
	Success    bool   `json:"success" yaml:"success"`
	Phase      string `json:"phase" yaml:"phase"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	StatusCode uint16 `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Body       string `json:"body,omitempty" yaml:"body,omitempty"`
}

// NewDiscoveryReport builds a report from the outcome of APIDiscovery.
// Errors other than *login.DiscoveryError yield a report without attempts.
func NewDiscoveryReport(input string, result *login.DiscoverySuccess, err error) *DiscoveryReport {
	report := &DiscoveryReport{Input: input}

	var attempts map[string]login.AttemptState
	switch {
	case result != nil:
		report.Success = true
		report.SiteURL = result.SiteURL.String()
		report.APIRoot = result.APIRootURL.String()
		report.Site = summarize(result.APIDetails)
		attempts = result.Attempts
	case err != nil:
		var discoveryErr *login.DiscoveryError
		if errors.As(err, &discoveryErr) {
			attempts = discoveryErr.Attempts
		}
	}

	report.Attempts = make([]AttemptReport, 0, len(attempts))
	for url, state := range attempts {
		report.Attempts = append(report.Attempts, newAttemptReport(url, state))
	}
	sort.Slice(report.Attempts, func(i, j int) bool {
		return report.Attempts[i].URL < report.Attempts[j].URL
	})

	return report
}

func summarize(details *types.WpAPIDetails) *SiteSummary {
	if details == nil {
		return nil
	}
	summary := &SiteSummary{
		Name:        details.Name,
		Description: details.Description,
		Home:        details.Home,
		Timezone:    details.TimezoneString,
		Namespaces:  details.Namespaces,
		Routes:      len(details.Routes),
	}
	for scheme := range details.Authentication {
		summary.Authentication = append(summary.Authentication, scheme)
	}
	sort.Strings(summary.Authentication)
	return summary
}

func newAttemptReport(url string, state login.AttemptState) AttemptReport {
	report := AttemptReport{URL: url}

	failure, ok := state.(*login.AttemptFailure)
	if !ok {
		report.Success = true
		report.Phase = PhaseComplete
		return report
	}

	report.Error = failure.Err.Error()
	switch failure.Err.(type) {
	case *login.FailedToParseSiteURLError:
		report.Phase = PhaseParseSiteURL
	case *login.FetchAPIRootURLFailedError:
		report.Phase = PhaseFetchAPIRootURL
	case *login.FetchAPIDetailsFailedError:
		report.Phase = PhaseFetchAPIDetails
	case *login.AttemptCancelledError:
		report.Phase = PhaseCancelled
	}

	var notFound *login.APIRootLinkHeaderNotFoundError
	var parseErr *login.APIDetailsParseError
	var execErr *types.RequestExecutionError
	switch {
	case errors.As(failure.Err, &notFound):
		report.StatusCode = notFound.StatusCode
	case errors.As(failure.Err, &parseErr):
		report.Body = util.Truncate(util.SingleLine(parseErr.ResponseBody), bodyPreviewLength)
	case errors.As(failure.Err, &execErr) && execErr.StatusCode != nil:
		report.StatusCode = *execErr.StatusCode
	}

	return report
}

// WriteText renders the report for a terminal.
func (r *DiscoveryReport) WriteText(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	if r.Success {
		fmt.Fprintf(tw, "Site URL:\t%s\n", r.SiteURL)
		fmt.Fprintf(tw, "API root:\t%s\n", r.APIRoot)
		if r.Site != nil {
			fmt.Fprintf(tw, "Name:\t%s\n", r.Site.Name)
			if r.Site.Description != "" {
				fmt.Fprintf(tw, "Description:\t%s\n", r.Site.Description)
			}
			fmt.Fprintf(tw, "Namespaces:\t%s\n", strings.Join(r.Site.Namespaces, ", "))
			if len(r.Site.Authentication) > 0 {
				schemes := make([]string, len(r.Site.Authentication))
				for i, s := range r.Site.Authentication {
					schemes[i] = util.Humanize(s)
				}
				fmt.Fprintf(tw, "Authentication:\t%s\n", strings.Join(schemes, ", "))
			}
			fmt.Fprintf(tw, "Routes:\t%d\n", r.Site.Routes)
		}
	} else {
		fmt.Fprintf(tw, "Discovery failed for %q\n", r.Input)
	}

	fmt.Fprintln(tw, "Attempts:")
	for _, a := range r.Attempts {
		mark := "ok"
		if !a.Success {
			mark = "failed"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", a.URL, mark, util.Humanize(a.Phase))
		if a.Error != "" {
			fmt.Fprintf(tw, "    \t%s\n", a.Error)
		}
		if a.Body != "" {
			fmt.Fprintf(tw, "    \tbody: %s\n", a.Body)
		}
	}

	return tw.Flush()
}

// RouteReport is one route of the API root document.
type RouteReport struct {
	Route     string   `json:"route" yaml:"route"`
	Namespace string   `json:"namespace" yaml:"namespace"`
	Methods   []string `json:"methods" yaml:"methods"`
}

// RoutesReport lists routes matching a pattern.
type RoutesReport struct {
	APIRoot string        `json:"apiRoot" yaml:"apiRoot"`
	Pattern string        `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Routes  []RouteReport `json:"routes" yaml:"routes"`
}

// NewRoutesReport lists the routes of details matching pattern (all when empty).
func NewRoutesReport(apiRoot string, details *types.WpAPIDetails, pattern string) (*RoutesReport, error) {
	names, err := details.MatchRoutes(pattern)
	if err != nil {
		return nil, err
	}
	report := &RoutesReport{
		APIRoot: apiRoot,
		Pattern: pattern,
		Routes:  make([]RouteReport, 0, len(names)),
	}
	for _, name := range names {
		route := details.Routes[name]
		report.Routes = append(report.Routes, RouteReport{
			Route:     name,
			Namespace: route.Namespace,
			Methods:   route.Methods,
		})
	}
	return report, nil
}

// WriteText renders one route per line.
func (r *RoutesReport) WriteText(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, route := range r.Routes {
		fmt.Fprintf(tw, "%s\t%s\n", route.Route, strings.Join(route.Methods, ","))
	}
	return tw.Flush()
}

// ResponseReport describes the response to a single request.
type ResponseReport struct {
	Method     string              `json:"method" yaml:"method"`
	URL        string              `json:"url" yaml:"url"`
	StatusCode uint16              `json:"statusCode" yaml:"statusCode"`
	Headers    map[string][]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string              `json:"body" yaml:"body"`
}

// NewResponseReport pairs a request with its response.
func NewResponseReport(req *types.NetworkRequest, resp *types.NetworkResponse, withHeaders bool) *ResponseReport {
	report := &ResponseReport{
		Method:     string(req.Method),
		URL:        req.URL,
		StatusCode: resp.StatusCode,
		Body:       resp.BodyString(),
	}
	if withHeaders {
		report.Headers = resp.Headers
	}
	return report
}

// WriteText prints the status line, optional headers and the raw body.
func (r *ResponseReport) WriteText(out io.Writer) error {
	if _, err := fmt.Fprintf(out, "%s %s -> %d\n", r.Method, r.URL, r.StatusCode); err != nil {
		return err
	}
	names := make([]string, 0, len(r.Headers))
	for name := range r.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range r.Headers[name] {
			if _, err := fmt.Fprintf(out, "%s: %s\n", name, value); err != nil {
				return err
			}
		}
	}
	if len(names) > 0 {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(out, r.Body)
	return err
}
