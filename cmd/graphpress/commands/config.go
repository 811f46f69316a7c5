package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/arthome/graphpress/config"
)

// ConfigCmd manages GraphPress configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage GraphPress configuration",
	Long: `Display and manage GraphPress configuration.

Configuration sources (in order of precedence):
1. Environment variables (GRAPHPRESS_* prefix)
2. Config file (./graphpress.toml)
3. Default values

Examples:
  graphpress config show                 # Show effective configuration
  graphpress config show --format json   # Show configuration as JSON
  graphpress config init                 # Write a starter graphpress.toml
  graphpress config validate             # Validate the configuration`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long:  "Display the effective GraphPress configuration merged from all sources",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a starter graphpress.toml to the current directory. Refuses
to overwrite an existing file. The signing secret is left empty and
must be filled in before the server will start.`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long:  "Validate that the effective GraphPress configuration is usable",
	RunE:  runConfigValidate,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The secret never reaches stdout.
	if cfg.Auth.SigningSecret != "" {
		cfg.Auth.SigningSecret = "<set>"
	}

	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Println(string(data))
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		fmt.Print(string(data))
	default:
		return fmt.Errorf("unknown format %q (want toml or json)", configFormat)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	const path = "graphpress.toml"
	if err := config.WriteStarter(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s. Set auth.signing_secret before starting the server.\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Println("Configuration is valid.")
	return nil
}
