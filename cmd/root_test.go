package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/zkx/internal/browser"
	"github.com/oakwood-commons/zkx/internal/config"
)

// resetFlags restores every flag to its default so Execute can be called
// repeatedly in one process.
func resetFlags() {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	for _, c := range []*cobra.Command{rootCmd, configCmd, configGetCmd, configThemesCmd, versionCmd} {
		reset(c.Flags())
		reset(c.PersistentFlags())
	}
	cliParams.MinLogLevel = 0
}

// runCLI executes the root command with the browser replaced by a stub that
// records the final configuration.
func runCLI(t *testing.T, args ...string) (string, *config.Config, error) {
	t.Helper()
	resetFlags()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var got *config.Config
	orig := runBrowser
	runBrowser = func(_ context.Context, cfg config.Config) error {
		got = &cfg
		return nil
	}
	t.Cleanup(func() {
		runBrowser = orig
		resetFlags()
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), got, err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestRootDefaults(t *testing.T) {
	_, cfg, err := runCLI(t)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1:2181", cfg.ConnString())
	assert.Equal(t, time.Second, time.Duration(cfg.Connection.Timeout))
	assert.Equal(t, 3, cfg.Browser.Tabs)
	assert.True(t, cfg.Browser.AutoLoadStat)
	assert.Equal(t, config.KeymapVim, cfg.UI.Keymap)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestRootFlagsOverrideConfig(t *testing.T) {
	_, cfg, err := runCLI(t,
		"-a", "zk1.internal", "-p", "2182", "--timeout", "3s", "--tabs", "5",
		"--keymap", "emacs", "--theme", "light", "--format", "yaml", "--no-color")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "zk1.internal:2182", cfg.ConnString())
	assert.Equal(t, 3*time.Second, time.Duration(cfg.Connection.Timeout))
	assert.Equal(t, 5, cfg.Browser.Tabs)
	assert.Equal(t, config.KeymapEmacs, cfg.UI.Keymap)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "yaml", cfg.UI.StructuredFormat)
	assert.True(t, cfg.UI.NoColor)
}

func TestRootConfigFileKeptUnlessFlagSet(t *testing.T) {
	path := writeFile(t, "config.yaml", "connection:\n  port: 3000\nbrowser:\n  tabs: 2\n")

	_, cfg, err := runCLI(t, "--config-file", path, "--tabs", "4")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 3000, cfg.Connection.Port)
	assert.Equal(t, 4, cfg.Browser.Tabs)
	assert.Equal(t, "127.0.0.1", cfg.Connection.Addr)
}

func TestRootTOMLConfigFile(t *testing.T) {
	path := writeFile(t, "config.toml", "[connection]\naddr = \"zk.example\"\n")

	_, cfg, err := runCLI(t, "--config-file", path)
	require.NoError(t, err)
	assert.Equal(t, "zk.example:2181", cfg.ConnString())
}

func TestRootInvalidFlagValue(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"keymap", []string{"--keymap", "nano"}},
		{"tabs", []string{"--tabs", "0"}},
		{"theme", []string{"--theme", "neon"}},
		{"port", []string{"-p", "70000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cfg, err := runCLI(t, tt.args...)
			require.ErrorIs(t, err, config.ErrInvalid)
			assert.Nil(t, cfg)
		})
	}
}

func TestRootRejectsArgs(t *testing.T) {
	_, _, err := runCLI(t, "extra")
	require.Error(t, err)
}

func TestConfigCommandOutputs(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"yaml", "keymap: vim"},
		{"json", `"connection": {`},
		{"toml", "[connection]"},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			out, _, err := runCLI(t, "config", "-o", tt.output)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestConfigCommandUnknownOutput(t *testing.T) {
	_, _, err := runCLI(t, "config", "get", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output")
}

func TestConfigCommandUsesConfigFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "ui:\n  theme: mono\n")
	out, _, err := runCLI(t, "config", "get", "--config-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "theme: mono")
}

func TestConfigThemes(t *testing.T) {
	out, _, err := runCLI(t, "config", "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "Available themes (default: dark):")
	for _, name := range []string{"dark", "light", "mono"} {
		assert.Contains(t, out, " - "+name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "zkx v0.0.0-nightly")
}

func TestRunTUIRequiresTerminal(t *testing.T) {
	orig := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdoutIsTerminal = orig })

	cfg, err := config.Default()
	require.NoError(t, err)
	require.ErrorIs(t, runTUI(context.Background(), cfg), errNotTerminal)
}

func TestNewSessionOffline(t *testing.T) {
	cliParams.Offline = true
	t.Cleanup(func() { cliParams.Offline = false })

	cfg, err := config.Default()
	require.NoError(t, err)
	s, eval, err := newSession(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, eval)
	t.Cleanup(s.Close)

	_, err = s.Dispatch(context.Background(), browser.Cmd(browser.CmdConnect))
	require.NoError(t, err)
	assert.Equal(t, browser.TabBrowsing, s.Mode())
	assert.Equal(t, []string{"zookeeper", "app", "services", "binary"}, s.Active().Children())
	assert.Equal(t, 3, s.Tabs().Len())
}

func TestOpenLogSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zkx.log")
	require.NoError(t, openLogSink(path))
	assert.FileExists(t, path)
	closeLogSink()
	assert.Nil(t, logCloser)

	require.Error(t, openLogSink(filepath.Join(t.TempDir(), "missing", "zkx.log")))
}
