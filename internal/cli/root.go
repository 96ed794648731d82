// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

// Package cli provides the command-line interface for wpapi.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global flags
var (
	cfgFile    string
	outputFile string
	format     string
	apiRoot    string
	authMode   string
	username   string
	verbose    bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wpapi",
	Short: "WordPress REST API discovery and authentication client",
	Long: `wpapi finds the REST API of a WordPress site from the address you would
type in a browser, and talks to it with cookie or application password
authentication.

Discovery tries every plausible variant of the address (missing scheme,
wp-admin links) and reports what happened to each of them.

Example:
  wpapi discover example.com                   # Locate the REST API
  wpapi routes example.com --match '/wp/v2/*'  # List matching routes
  wpapi nonce example.com -u admin             # Obtain a REST nonce
  wpapi request wp/v2/users/me                 # Send an authenticated request
  wpapi init --site example.com                # Create a config file`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Interrupts cancel the command's context, so in-flight requests stop.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: wpapi.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format: text, yaml, json (default: text)")
	rootCmd.PersistentFlags().StringVar(&apiRoot, "api-root", "", "known API root URL, skips discovery")
	rootCmd.PersistentFlags().StringVar(&authMode, "auth", "", "authentication: none, application-password, cookie")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "WordPress user name (password from WPAPI_AUTH_PASSWORD)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(nonceCmd)
	rootCmd.AddCommand(requestCmd)
}

// GetConfigFile returns the config file path from the flag.
func GetConfigFile() string {
	return cfgFile
}

// GetFormat returns the output format from the flag.
func GetFormat() string {
	return format
}

// IsVerbose returns whether verbose output is enabled.
func IsVerbose() bool {
	return verbose
}

// IsQuiet returns whether quiet mode is enabled.
func IsQuiet() bool {
	return quiet
}

// newLogger builds the diagnostic logger. Library logs go to w at warn level,
// debug with --verbose and error only with --quiet.
func newLogger(w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	switch {
	case quiet:
		level = zapcore.ErrorLevel
	case verbose:
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core)
}

// printInfo prints a message if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}
