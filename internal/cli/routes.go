// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpapi/wpapi/internal/output"
)

var routesMatch string

var routesCmd = &cobra.Command{
	Use:   "routes [site-url]",
	Short: "List the REST routes a site exposes",
	Long: `List the REST routes advertised by the API root document.

Routes can be filtered with a glob pattern where * matches within a path
segment and ** across segments.

Example:
  wpapi routes example.com                      # All routes
  wpapi routes example.com --match '/wp/v2/*'   # Top level wp/v2 routes
  wpapi routes --api-root https://example.com/wp-json/ -m '/wp/v2/**'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoutes,
}

func init() {
	routesCmd.Flags().StringVarP(&routesMatch, "match", "m", "", "glob pattern routes must match")
}

func runRoutes(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, siteArgument(args))
	if err != nil {
		return err
	}
	defer s.close()

	base, details, err := s.resolve(cmd.Context())
	if err != nil {
		return err
	}

	report, err := output.NewRoutesReport(base.String(), details, routesMatch)
	if err != nil {
		return fmt.Errorf("invalid --match: %w", err)
	}
	if len(report.Routes) == 0 {
		printInfo("No routes match %q", routesMatch)
		return nil
	}
	return s.write(cmd, report)
}
