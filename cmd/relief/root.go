package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/taigrr/relief/internal/config"
	"github.com/taigrr/relief/internal/logger"
)

// errInvalidModel marks a model that failed validation. The report has
// already been printed when it is returned.
var errInvalidModel = errors.New("model failed validation")

// app carries state shared by the subcommands.
type app struct {
	configPath string
	logLevel   string
	logFile    string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "relief",
		Short: "Generate tactile relief models from height grids",
		Long: "relief converts a grid of relative heights in [0,1] into a closed,\n" +
			"printable triangle mesh and writes it as ASCII STL or binary glTF.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (default ./"+config.FileName+" or the user config dir)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFile, "log-file", "", "also write JSON logs to this file, rotated")

	root.AddCommand(newGenerateCmd(a), newValidateCmd())
	return root
}

// setup loads configuration and starts the logger. Flags win over the
// config file.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Logging.LogFile = a.logFile
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, cmd.ErrOrStderr()); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}
