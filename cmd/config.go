package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/zkx/internal/config"
	"github.com/oakwood-commons/zkx/internal/formatter"
	"github.com/oakwood-commons/zkx/pkg/settings"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print zkx version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return err
	},
}

// configCmd prints the merged configuration; subcommands narrow it down.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the merged zkx configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigView(cmd.OutOrStdout())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the merged configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigView(cmd.OutOrStdout())
	},
}

var configThemesCmd = &cobra.Command{
	Use:     "themes",
	Aliases: []string{"theme"},
	Short:   "List available themes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runThemesList(cmd.OutOrStdout())
	},
}

func loadFileConfig() (config.Config, error) {
	if cliParams.ConfigFile != "" {
		return config.Load(cliParams.ConfigFile)
	}
	cfg, _, err := config.LoadDefaultPath()
	return cfg, err
}

// runConfigView writes the merged configuration in the --output format.
func runConfigView(w io.Writer) error {
	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	out, err := encodeConfig(cfg, configOut)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(string(out), "\n"))
	return err
}

func encodeConfig(cfg config.Config, output string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "yaml", "yml":
		return cfg.YAML()
	case "toml":
		out, err := toml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		return out, nil
	case "json":
		// Go through YAML so keys keep their file names.
		raw, err := cfg.YAML()
		if err != nil {
			return nil, err
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		return formatter.MarshalJSON(tree, "  ")
	default:
		return nil, fmt.Errorf("unknown output %q (want yaml, json or toml)", output)
	}
}

func runThemesList(w io.Writer) error {
	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Available themes (default: %s):\n", cfg.UI.Theme)
	for _, name := range cfg.ThemeNames() {
		fmt.Fprintf(w, " - %s\n", name)
	}
	return nil
}

// cliVersionString builds the string shown by --version and 'zkx version'.
func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, go %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}
