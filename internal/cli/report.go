package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dealerportal/partsfeed/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ReportOptions struct {
	GlobalOptions

	OutputFile string
}

func DefaultReportOptions() *ReportOptions {
	return &ReportOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdReport() *cobra.Command {
	o := DefaultReportOptions()
	cmd := &cobra.Command{
		Use:          "report BATCH_ID",
		Short:        "Download the error report of a rejected batch",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ReportOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.OutputFile, "output-file", o.OutputFile, "Write the report to this file instead of stdout")
}

func (o *ReportOptions) Validate(args []string) error {
	if _, err := uuid.Parse(args[0]); err != nil {
		return withExitCode(ExitCodeInvalid, fmt.Errorf("invalid batch ID: %w", err))
	}
	return o.GlobalOptions.Validate(args)
}

func (o *ReportOptions) Run(ctx context.Context, args []string) error {
	batchID := uuid.MustParse(args[0])

	s, err := o.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	rs, err := o.reportStore()
	if err != nil {
		return fmt.Errorf("creating report store: %w", err)
	}

	rc, err := service.NewUploadService(s, rs).ErrorReport(ctx, batchID)
	if err != nil {
		return fmt.Errorf("reading report of batch %s: %w", batchID, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("reading report of batch %s: %w", batchID, err)
	}

	return o.writeOutput(o.OutputFile, data)
}
