// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wpapi/wpapi/internal/config"
	"github.com/wpapi/wpapi/internal/output"
	"github.com/wpapi/wpapi/pkg/auth"
	"github.com/wpapi/wpapi/pkg/login"
	"github.com/wpapi/wpapi/pkg/transport"
	"github.com/wpapi/wpapi/pkg/types"
)

// session bundles what every network command needs.
type session struct {
	cfg      *config.Config
	logger   *zap.Logger
	executor *transport.HTTPExecutor
	client   *login.LoginClient
}

// newSession loads the config, applies command-line overrides and builds the
// HTTP stack. siteArg, when set, replaces the configured site URL.
func newSession(cmd *cobra.Command, siteArg string) (*session, error) {
	// Load config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply command-line overrides
	if siteArg != "" {
		cfg.SiteURL = siteArg
		cfg.APIRoot = ""
	}
	if apiRoot != "" {
		cfg.APIRoot = apiRoot
	}
	if authMode != "" {
		cfg.Auth.Mode = authMode
	}
	if username != "" {
		cfg.Auth.Username = username
	}
	if format != "" {
		cfg.Output.Format = format
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr())

	ua := cfg.HTTP.UserAgent
	if ua == "" {
		ua = userAgent()
	}
	executor, err := transport.NewHTTPExecutor(
		transport.WithTimeout(cfg.HTTP.Timeout),
		transport.WithUserAgent(ua),
		transport.WithMaxRetries(uint64(cfg.HTTP.MaxRetries)),
		transport.WithInsecureSkipVerify(cfg.HTTP.InsecureSkipVerify),
		transport.WithLogger(logger.Named("http")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	printVerbose("Configuration:")
	printVerbose("  Site: %s", cfg.SiteURL)
	printVerbose("  API root: %s", cfg.APIRoot)
	printVerbose("  Auth: %s", cfg.Auth.Mode)
	printVerbose("  Format: %s", cfg.Output.Format)

	return &session{
		cfg:      cfg,
		logger:   logger,
		executor: executor,
		client:   login.NewLoginClient(executor, login.WithLogger(logger.Named("login"))),
	}, nil
}

// resolve returns the API root and its document, from the configured API root
// when there is one and through discovery otherwise.
func (s *session) resolve(ctx context.Context) (types.APIBaseURL, *types.WpAPIDetails, error) {
	if s.cfg.APIRoot != "" {
		base, err := types.ParseAPIBaseURL(s.cfg.APIRoot)
		if err != nil {
			return types.APIBaseURL{}, nil, err
		}
		resp, err := s.executor.Execute(ctx, types.NewRequest(types.MethodGet, base.String()))
		if err != nil {
			return types.APIBaseURL{}, nil, err
		}
		details, err := types.ParseWpAPIDetails(resp.Body)
		if err != nil {
			return types.APIBaseURL{}, nil, fmt.Errorf("%s is not a WordPress API root: %w", base, err)
		}
		return base, details, nil
	}

	result, err := s.client.APIDiscovery(ctx, s.cfg.SiteURL)
	if err != nil {
		return types.APIBaseURL{}, nil, err
	}
	printVerbose("Discovered API root %s", result.APIRootURL)
	return result.APIBaseURL(), result.APIDetails, nil
}

// authenticator builds the configured Authenticator for base.
func (s *session) authenticator(base types.APIBaseURL) (auth.Authenticator, error) {
	mode, err := auth.ParseMode(s.cfg.Auth.Mode)
	if err != nil {
		return nil, err
	}
	return auth.NewAuthenticator(mode, base, s.cfg.Credentials(), s.executor, auth.WithLogger(s.logger.Named("auth")))
}

// write renders a report to --output or the command's stdout.
func (s *session) write(cmd *cobra.Command, report any) error {
	writer := output.NewWriter()
	if outputFile != "" {
		f := s.cfg.Output.Format
		if format == "" {
			f = output.FormatFromPath(outputFile)
		}
		if err := writer.WriteFile(report, outputFile, f); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		printInfo("Wrote %s", outputFile)
		return nil
	}
	return writer.Write(report, cmd.OutOrStdout(), s.cfg.Output.Format)
}

// close flushes the logger.
func (s *session) close() {
	_ = s.logger.Sync()
}

// siteArgument returns the optional positional site URL.
func siteArgument(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
