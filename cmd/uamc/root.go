package main

import (
	"fmt"

	"github.com/metalagman/uamc/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	debug   bool
	logJSON bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "uamc",
		Short:         "uamc compiles one UAM document into coding assistant config files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Options{Debug: debug, JSON: logJSON, Out: cmd.ErrOrStderr()})
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath, "config file path")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON lines")

	cmd.AddCommand(initCmd())
	cmd.AddCommand(validateCmd())
	cmd.AddCommand(scanCmd())
	cmd.AddCommand(adaptersCmd())
	cmd.AddCommand(compileCmd())
	cmd.AddCommand(previewCmd())
	cmd.AddCommand(serveCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := newRootCmd()
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	if err := rootCmd.Execute(); err != nil {
		fatal(rootCmd, err)
		return err
	}
	return nil
}

func fatal(cmd *cobra.Command, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), styleError.Render("error:"), err)
}
