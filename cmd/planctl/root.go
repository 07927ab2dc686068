package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "planctl",
		Short:         "Education plan tooling",
		Long:          "Validates education plans against a program catalog and converts published catalog pages into catalog files.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newCatalogCmd())
	return root
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
