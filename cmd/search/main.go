package main

import (
	"fmt"
	"os"

	"github.com/rx3lixir/search-connector/internal/config"
	"github.com/rx3lixir/search-connector/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfgPath string
	cfg     *config.Config
	zap     *zap.Logger
	log     *zap.SugaredLogger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "search",
		Short:         "Compile search UI state into OpenSearch queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.zap != nil {
				_ = a.zap.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "path to config file (default ./config.yaml)")

	root.AddCommand(
		a.compileCmd(),
		a.searchCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.zap = log.With(zap.String("service", cfg.Service.Name))
	a.log = a.zap.Sugar()
	return nil
}
