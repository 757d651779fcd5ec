package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/dealerportal/partsfeed/internal/service"
	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/dealerportal/partsfeed/internal/tabular"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

var legalUploadFormats = []string{string(tabular.FormatCSV), string(tabular.FormatXLSX)}

type UploadOptions struct {
	GlobalOptions

	FilePath string
	User     string
	Format   string
}

func DefaultUploadOptions() *UploadOptions {
	return &UploadOptions{
		GlobalOptions: DefaultGlobalOptions(),
		User:          defaultUser(),
	}
}

func NewCmdUpload() *cobra.Command {
	o := DefaultUploadOptions()
	cmd := &cobra.Command{
		Use:          fmt.Sprintf("upload (%s)", strings.Join(batchTypeNames(), "|")),
		Short:        "Validate and apply a catalog, order status or supersession file",
		Example:      "upload parts_aftermarket --file-path /path/to/aftermarket.csv --user jane@example.com",
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

	if err := markFlagsRequired(cmd, "file-path"); err != nil {
		panic(err)
	}

	return cmd
}

func (o *UploadOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.FilePath, "file-path", o.FilePath, "Path to the .csv or .xlsx file to upload")
	fs.StringVar(&o.User, "user", o.User, "Uploader recorded on the batch and the audit log")
	fs.StringVar(&o.Format, "format", o.Format, fmt.Sprintf("File format, one of (%s). Defaults to the file extension.", strings.Join(legalUploadFormats, ", ")))
}

func (o *UploadOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	if !model.BatchType(args[0]).Valid() {
		return withExitCode(ExitCodeInvalid, fmt.Errorf("invalid upload type '%s'. Supported types: %s", args[0], strings.Join(batchTypeNames(), ", ")))
	}
	if len(o.Format) > 0 && !funk.ContainsString(legalUploadFormats, o.Format) {
		return withExitCode(ExitCodeInvalid, fmt.Errorf("format must be one of %s", strings.Join(legalUploadFormats, ", ")))
	}
	if strings.TrimSpace(o.User) == "" {
		return withExitCode(ExitCodeInvalid, errors.New("--user is required when the current user cannot be determined"))
	}

	return nil
}

func (o *UploadOptions) Run(ctx context.Context, args []string) error {
	f, err := os.Open(o.FilePath)
	if err != nil {
		return withExitCode(ExitCodeInvalid, fmt.Errorf("opening upload file: %w", err))
	}
	defer f.Close()

	s, err := o.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	rs, err := o.reportStore()
	if err != nil {
		return fmt.Errorf("creating report store: %w", err)
	}

	opts := []service.UploadOption{service.WithChunkSize(o.config.Service.ChunkSize)}
	if producer := o.eventProducer(); producer != nil {
		defer producer.Close()
		opts = append(opts, service.WithEventWriter(producer))
	}

	result, err := service.NewUploadService(s, rs, opts...).Upload(ctx, service.UploadRequest{
		Type:       model.BatchType(args[0]),
		Filename:   filepath.Base(o.FilePath),
		UploadedBy: o.User,
		Format:     tabular.Format(o.Format),
		Content:    f,
	})
	o.pushMetrics(ctx, s)

	var noValidRows *service.ErrNoValidRows
	switch {
	case errors.As(err, &noValidRows):
		fmt.Fprintf(o.out, "Batch %s rejected: %s\n", result.Batch.ID, err)
		return withExitCode(ExitCodeRejected, err)
	case service.IsStructuralError(err):
		return withExitCode(ExitCodeInvalid, err)
	case err != nil:
		return fmt.Errorf("uploading %s: %w", o.FilePath, err)
	}

	batch := result.Batch
	if batch.Status == model.BatchStatusRejected {
		fmt.Fprintf(o.out, "Batch %s rejected: %s\n", batch.ID, *batch.RejectReason)
		fmt.Fprintf(o.out, "Error report: %s\n", *batch.ErrorReportPath)
		return withExitCode(ExitCodeRejected, fmt.Errorf("batch %s rejected", batch.ID))
	}

	fmt.Fprintf(o.out, "Batch %s applied: %d row(s) applied", batch.ID, result.Applied)
	if result.Skipped > 0 {
		fmt.Fprintf(o.out, ", %d skipped", result.Skipped)
	}
	if result.Stale > 0 {
		fmt.Fprintf(o.out, ", %d stale", result.Stale)
	}
	if result.Deactivated > 0 {
		fmt.Fprintf(o.out, ", %d part(s) deactivated", result.Deactivated)
	}
	fmt.Fprintln(o.out, ".")

	return nil
}

func batchTypeNames() []string {
	return funk.Map(model.BatchTypes, func(t model.BatchType) string { return string(t) }).([]string)
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
