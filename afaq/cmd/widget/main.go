// Command widget is the terminal chat client of the Afaq Tours assistant.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"afaq/afaq/config"
	"afaq/afaq/utils/color"
	"afaq/afaq/utils/logging"
	"afaq/afaq/widget/controller"
	"afaq/afaq/widget/gateway"
	"afaq/afaq/widget/store"
	"afaq/afaq/widget/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		apiURL     string
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:           "widget",
		Short:         "Chat with the Afaq Tours assistant from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWidgetConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api-url") {
				cfg.APIURL = apiURL
			}
			if noColor {
				cfg.NoColor = true
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "~/.config/afaq/widget.yaml", "path to the widget YAML config")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "backend base URL, e.g. http://localhost:8000/api")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	return cmd
}

func run(ctx context.Context, cfg config.WidgetConfig) error {
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	color.SetEnabled(!cfg.NoColor)

	var opts []gateway.Option
	if cfg.RequestTimeout > 0 {
		opts = append(opts, gateway.WithTimeout(cfg.RequestTimeout))
	}
	gw, err := gateway.New(cfg.APIURL, opts...)
	if err != nil {
		return err
	}

	md, err := tui.NewMarkdownRenderer(cfg.WordWrap, !cfg.NoColor)
	if err != nil {
		logging.ErrorLogger.Warn("markdown renderer unavailable", zap.Error(err))
		md = nil
	}

	out := os.Stdout
	term := tui.NewTerminal(out, nil)
	ctrl := controller.New(store.New(), gw, term, nil)
	app := tui.NewApp(ctrl, tui.NewRenderer(out, md), term, out)

	logging.AppLogger.Info("widget started", zap.String("api_url", cfg.APIURL))
	return app.Run(ctx, os.Stdin)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
		os.Exit(1)
	}
}
