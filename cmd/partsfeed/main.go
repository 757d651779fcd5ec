package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dealerportal/partsfeed/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)

	command := NewPartsfeedCommand()
	err := command.ExecuteContext(ctx)
	cancel()

	os.Exit(cli.ExitCode(err))
}

func NewPartsfeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partsfeed [flags] [options]",
		Short: "partsfeed validates and applies catalog, order status and supersession files.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(cli.ExitCodeFailure)
		},
	}
	cmd.AddCommand(cli.NewCmdUpload())
	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdReport())
	cmd.AddCommand(cli.NewCmdTemplate())
	cmd.AddCommand(cli.NewCmdMigrate())
	cmd.AddCommand(cli.NewCmdStats())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
