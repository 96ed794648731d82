// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpapi/wpapi/pkg/types"
)

var nonceCmd = &cobra.Command{
	Use:   "nonce [site-url]",
	Short: "Obtain a REST nonce for cookie authentication",
	Long: `Obtain a REST nonce for cookie authentication.

The nonce endpoint (wp-admin/admin-ajax.php?action=rest-nonce) is asked
first; when it does not answer with a nonce, wpapi logs in through
wp-login.php and asks again. The password is read from the config file or
WPAPI_AUTH_PASSWORD.

Example:
  WPAPI_AUTH_PASSWORD=secret wpapi nonce example.com -u admin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNonce,
}

func runNonce(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, siteArgument(args))
	if err != nil {
		return err
	}
	defer s.close()

	creds := s.cfg.Credentials()
	if creds.IsEmpty() {
		return errors.New("a username is required, use --username or auth.username")
	}

	base, _, err := s.resolve(cmd.Context())
	if err != nil {
		return err
	}

	req, ok := s.client.InsertRestNonce(cmd.Context(), types.NewRequest(types.MethodGet, base.String()), base, creds)
	if !ok {
		return fmt.Errorf("could not obtain a REST nonce from %s", base.SiteURL())
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), req.Headers.Get(types.HeaderNonce))
	return err
}
