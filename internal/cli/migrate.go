package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type MigrateOptions struct {
	GlobalOptions
}

func NewCmdMigrate() *cobra.Command {
	o := &MigrateOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Migrate the db",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *MigrateOptions) Run(ctx context.Context, args []string) error {
	zap.S().Named("cli").Infow("migrating database", "type", o.config.Database.Type, "folder", o.config.Service.MigrationFolder)

	s, err := o.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintln(o.out, "Db migrated")
	return nil
}
