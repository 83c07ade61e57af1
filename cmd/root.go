package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/zkx/internal/browser"
	"github.com/oakwood-commons/zkx/internal/cel"
	"github.com/oakwood-commons/zkx/internal/config"
	"github.com/oakwood-commons/zkx/internal/nodedata"
	"github.com/oakwood-commons/zkx/internal/store"
	"github.com/oakwood-commons/zkx/internal/ui"
	"github.com/oakwood-commons/zkx/pkg/logger"
	"github.com/oakwood-commons/zkx/pkg/settings"
)

// errNotTerminal is returned when the browser is started without a usable
// terminal.
var errNotTerminal = errors.New("zkx needs an interactive terminal")

var (
	cliParams = settings.NewCliParams()

	addr       string
	port       int
	timeout    time.Duration
	tabCount   int
	themeName  string
	keyMode    string
	format     string
	debug      bool
	seedFile   string
	configOut  string
	logCloser  io.Closer
	rootCtx    = context.Background()
	runBrowser = runTUI
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "Terminal browser for ZooKeeper node trees",
	Long: `zkx connects to a ZooKeeper ensemble and browses its node tree in tabs.
Nodes can be read as text, structured data or raw bytes, created, edited,
deleted after confirmation, and queried with CEL expressions.`,
	Example:       "\n  zkx\n  zkx -a zk1.internal -p 2181\n  zkx --memory --seed tree.yaml\n",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if debug {
			cliParams.MinLogLevel = -1
		}
		if err := openLogSink(cliParams.LogFile); err != nil {
			return err
		}
		lgr := logger.Get(cliParams.MinLogLevel)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = settings.IntoContext(logger.WithLogger(context.Background(), lgr), cliParams)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeLogSink()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runBrowser(rootCtx, cfg)
	},
}

// loadConfig merges defaults, the config file and any explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var (
		cfg  config.Config
		path string
		err  error
	)
	if cliParams.ConfigFile != "" {
		path = cliParams.ConfigFile
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.LoadDefaultPath()
	}
	if err != nil {
		return cfg, err
	}
	logger.FromContext(rootCtx).V(1).Info("config loaded", "file", path)

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Connection.Addr = addr
	}
	if flags.Changed("port") {
		cfg.Connection.Port = port
	}
	if flags.Changed("timeout") {
		cfg.Connection.Timeout = config.Duration(timeout)
	}
	if flags.Changed("tabs") {
		cfg.Browser.Tabs = tabCount
	}
	if flags.Changed("theme") {
		cfg.UI.Theme = themeName
	}
	if flags.Changed("keymap") {
		cfg.UI.Keymap = keyMode
	}
	if flags.Changed("format") {
		cfg.UI.StructuredFormat = format
	}
	if flags.Changed("no-color") {
		cfg.UI.NoColor = cliParams.NoColor
	}
	return cfg, cfg.Validate()
}

// newSession builds the browser session for cfg, dialing ZooKeeper unless
// offline mode is on.
func newSession(ctx context.Context, cfg config.Config) (*browser.Session, *cel.Evaluator, error) {
	eval, err := cel.NewEvaluator()
	if err != nil {
		return nil, nil, err
	}

	var dialer store.Dialer = store.ZooKeeperDialer{Log: logger.FromContext(ctx).WithValues(logger.ComponentKey, "store")}
	if cliParams.Offline || seedFile != "" {
		mem, err := offlineTree(seedFile)
		if err != nil {
			return nil, nil, err
		}
		dialer = store.MemoryDialer(mem)
	}

	s := browser.NewSession(browser.Options{
		ConnString:   cfg.ConnString(),
		Timeout:      time.Duration(cfg.Connection.Timeout),
		Tabs:         cfg.Browser.Tabs,
		AutoLoadStat: cfg.Browser.AutoLoadStat,
		Dialer:       dialer,
		Evaluator:    eval,
	})
	return s, eval, nil
}

func runTUI(ctx context.Context, cfg config.Config) error {
	if !isTerminal() {
		return errNotTerminal
	}
	session, eval, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	progOpts, cleanup := getProgramOptions(ctx)
	defer cleanup()

	return ui.Run(ctx, session, ui.Options{
		KeyMode: ui.KeyMode(cfg.UI.Keymap),
		Theme:   cfg.ActiveTheme(),
		NoColor: cfg.UI.NoColor,
		Format:  nodedata.ParseStyle(cfg.UI.StructuredFormat),
		Query:   eval,
	}, progOpts...)
}

func openLogSink(path string) error {
	if path == "" {
		logger.SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	logCloser = f
	return nil
}

func closeLogSink() {
	if logCloser == nil {
		return
	}
	logger.Sync()
	_ = logCloser.Close()
	logCloser = nil
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cliParams.ConfigFile, "config-file", "", "path to a YAML or TOML config file")
	pf.BoolVar(&debug, "debug", false, "enable verbose logging")
	pf.StringVar(&cliParams.LogFile, "log-file", "", "write JSON logs to this file (default: discard)")

	f := rootCmd.Flags()
	f.StringVarP(&addr, "addr", "a", "127.0.0.1", "ZooKeeper server address")
	f.IntVarP(&port, "port", "p", 2181, "ZooKeeper server port")
	f.DurationVar(&timeout, "timeout", browser.DefaultConnectTimeout, "connection timeout")
	f.IntVar(&tabCount, "tabs", 3, "number of browser tabs")
	f.StringVar(&themeName, "theme", "", "theme name (see 'zkx config themes')")
	f.StringVar(&keyMode, "keymap", "", "keybinding mode: vim or emacs")
	f.StringVar(&format, "format", "", "structured display: json, json-pretty, yaml or tree")
	f.BoolVar(&cliParams.NoColor, "no-color", false, "disable color output")
	f.BoolVar(&cliParams.Offline, "memory", false, "browse an in-memory demo tree instead of ZooKeeper")
	f.StringVar(&seedFile, "seed", "", "seed the in-memory tree from a YAML, JSON or TOML file (implies --memory)")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	configCmd.PersistentFlags().StringVarP(&configOut, "output", "o", "yaml", "output format: yaml|json|toml")
	configCmd.AddCommand(configGetCmd, configThemesCmd)
	rootCmd.AddCommand(versionCmd, configCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
