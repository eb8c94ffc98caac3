// Command herdup is the terminal client for HerdUp.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/herdup/herdup/internal/screens"
	"github.com/herdup/herdup/pkg/client"
)

// app holds what every sub-command needs.
type app struct {
	logger   *zap.Logger
	cfg      client.Config
	api      *client.Client
	session  *screens.SessionResolver
	links    *screens.Links
	verbose  bool
	cfgDir   string
	jsonMode bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "herdup",
		Short:         "Find and follow student organizations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().StringVar(&a.cfgDir, "config-dir", "", "directory holding config.yaml and credentials.yaml")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "print raw JSON")

	root.AddCommand(
		newSignUpCmd(a),
		newOnboardCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newForgotPasswordCmd(a),
		newWhoAmICmd(a),
		newHomeCmd(a),
		newOrgCmd(a),
		newSearchCmd(a),
		newTagsCmd(a),
		newInterestsCmd(a),
		newProfileCmd(a),
		newEventCmd(a),
		newRSVPCmd(a),
	)
	return root
}

func (a *app) init() error {
	level := zapcore.WarnLevel
	if a.verbose {
		level = zapcore.DebugLevel
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.logger = logger

	dir := a.cfgDir
	if dir == "" {
		if dir, err = client.DefaultConfigDir(); err != nil {
			return err
		}
	}
	cfg, err := client.LoadConfig(dir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	tokens := client.NewFileTokenStore(dir)
	a.api = client.New(cfg, tokens, logger)
	a.session = screens.NewSessionResolver(tokens, a.api, logger)
	a.links = screens.NewLinks(browserOpener{}, logger)
	return nil
}

// browserOpener opens URLs with the platform's default handler.
type browserOpener struct{}

func (browserOpener) Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
