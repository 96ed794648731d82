// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpapi/wpapi/internal/output"
	"github.com/wpapi/wpapi/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [site-url]",
	Short: "Locate the REST API of a WordPress site",
	Long: `Locate the REST API of a WordPress site.

The address is expanded into candidate URLs: the address itself, an https://
variant when no scheme was given, and a wp-admin.php variant for wp-admin
links. Every candidate is probed concurrently for the api.w.org Link header,
and the API root it points at is fetched. The first candidate (in that order)
that succeeds wins; the outcome of every candidate is reported.

Example:
  wpapi discover example.com                   # Try example.com and https://example.com
  wpapi discover https://example.com/wp-admin  # Also tries wp-admin.php
  wpapi discover example.com -f json           # Machine readable report`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, siteArgument(args))
	if err != nil {
		return err
	}
	defer s.close()

	site := s.cfg.SiteURL
	if site == "" {
		base, err := types.ParseAPIBaseURL(s.cfg.APIRoot)
		if err != nil {
			return err
		}
		site = base.SiteURL().String()
	}

	result, discoveryErr := s.client.APIDiscovery(cmd.Context(), site)
	if err := s.write(cmd, output.NewDiscoveryReport(site, result, discoveryErr)); err != nil {
		return err
	}
	if discoveryErr != nil {
		return fmt.Errorf("api discovery failed for %q", site)
	}

	printVerbose("Site %s serves its API at %s", result.SiteURL, result.APIRootURL)
	return nil
}
