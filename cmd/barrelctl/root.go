package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/honeybarrel/backend/config"
	"github.com/honeybarrel/backend/internal/infrastructure/logging"
)

// commandContext carries state shared by all subcommands
type commandContext struct {
	debug  bool
	logger *zap.Logger
}

func (c *commandContext) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "barrelctl",
		Short:         "Honey Barrel matching and catalog tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(); err != nil {
				return err
			}
			if !ctx.debug {
				return nil
			}
			logger, err := logging.New(logging.Options{Level: "debug"})
			if err != nil {
				return err
			}
			ctx.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&ctx.debug, "debug", false, "Log matcher decisions to stderr")

	rootCmd.AddCommand(newMatchCommand(ctx))
	rootCmd.AddCommand(newListingsCommand(ctx))

	return rootCmd
}
