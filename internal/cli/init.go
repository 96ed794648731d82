// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wpapi/wpapi/internal/config"
	"github.com/wpapi/wpapi/pkg/auth"
)

var (
	initSite        string
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new wpapi configuration file",
	Long: `Initialize a new wpapi configuration file in the current directory.

This command creates a wpapi.yaml file with sensible defaults. Passwords are
never written to it; set WPAPI_AUTH_PASSWORD in the environment or in a .env
file next to the config instead.

Example:
  wpapi init --site example.com                        # Config for example.com
  wpapi init --site example.com --auth cookie -u admin # With cookie authentication
  wpapi init --force                                   # Overwrite existing config
  wpapi init --interactive                             # Interactive mode with prompts`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initSite, "site", "", "site URL to store in the config")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := "wpapi.yaml"

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	// Create config with sensible defaults
	cfg := config.Default()
	cfg.SiteURL = initSite
	if apiRoot != "" {
		cfg.APIRoot = apiRoot
	}
	if authMode != "" {
		mode, err := auth.ParseMode(authMode)
		if err != nil {
			return err
		}
		cfg.Auth.Mode = string(mode)
	}
	if username != "" {
		cfg.Auth.Username = username
	}
	if format != "" {
		cfg.Output.Format = format
	}

	// Interactive mode
	if initInteractive && isTerminal() {
		if err := interactiveInit(cfg, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("interactive init failed: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := buildConfigYAML(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	// Write config file
	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", configFile)
	printVerbose("Site: %s", cfg.SiteURL)
	printVerbose("Auth: %s", cfg.Auth.Mode)

	return nil
}

// isTerminal checks if stdin is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// interactiveInit prompts the user for configuration options.
func interactiveInit(cfg *config.Config, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	prompt := func(label string, current *string) {
		fmt.Fprintf(out, "%s [%s]: ", label, *current)
		answer, _ := reader.ReadString('\n')
		if answer = strings.TrimSpace(answer); answer != "" {
			*current = answer
		}
	}

	prompt("Site URL", &cfg.SiteURL)
	prompt(fmt.Sprintf("Authentication (%s)", strings.Join(modeNames(), "/")), &cfg.Auth.Mode)
	if cfg.Auth.Mode != string(auth.ModeNone) {
		prompt("Username", &cfg.Auth.Username)
	}
	prompt("Output format (text/yaml/json)", &cfg.Output.Format)

	return nil
}

func modeNames() []string {
	modes := auth.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}

// buildConfigYAML builds a YAML config with a header comment. The password is
// always left out.
func buildConfigYAML(cfg *config.Config) ([]byte, error) {
	c := *cfg
	c.Auth.Password = ""

	data, err := yaml.Marshal(&c)
	if err != nil {
		return nil, err
	}

	header := `# wpapi configuration file
# Secrets belong in the environment: WPAPI_AUTH_PASSWORD=...

`
	return append([]byte(header), data...), nil
}
