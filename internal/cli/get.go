package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dealerportal/partsfeed/internal/service"
	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat}
)

type GetOptions struct {
	GlobalOptions

	Output     string
	Type       string
	Status     string
	UploadedBy string
	Limit      int
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Limit:         50,
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:     "get (TYPE | TYPE/ID)",
		Short:   "Display one or many resources.",
		Example: "get batches --status REJECTED\nget batch/5f0c7e43-2a4e-4b0c-9d52-4f1f3b3f0a11 -o yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.Type, "type", o.Type, "Only list batches of this upload type")
	fs.StringVar(&o.Status, "status", o.Status, "Only list batches in this status (PENDING, APPLIED, REJECTED)")
	fs.StringVar(&o.UploadedBy, "uploaded-by", o.UploadedBy, "Only list batches uploaded by this user")
	fs.IntVar(&o.Limit, "limit", o.Limit, "Maximum number of batches to list")
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	if _, _, err := parseAndValidateKindId(args[0]); err != nil {
		return withExitCode(ExitCodeInvalid, err)
	}

	if len(o.Output) > 0 && !funk.ContainsString(legalOutputTypes, o.Output) {
		return withExitCode(ExitCodeInvalid, fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", ")))
	}
	if len(o.Type) > 0 && !model.BatchType(o.Type).Valid() {
		return withExitCode(ExitCodeInvalid, fmt.Errorf("invalid batch type: %s", o.Type))
	}
	if len(o.Status) > 0 && !funk.Contains(
		[]model.BatchStatus{model.BatchStatusPending, model.BatchStatusApplied, model.BatchStatusRejected},
		model.BatchStatus(strings.ToUpper(o.Status)),
	) {
		return withExitCode(ExitCodeInvalid, fmt.Errorf("invalid batch status: %s", o.Status))
	}

	return nil
}

func (o *GetOptions) Run(ctx context.Context, args []string) error {
	s, err := o.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	rs, err := o.reportStore()
	if err != nil {
		return fmt.Errorf("creating report store: %w", err)
	}
	svc := service.NewUploadService(s, rs)

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	var response any
	switch {
	case kind == BatchKind && id != nil:
		response, err = svc.GetBatch(ctx, *id)
	case kind == BatchKind && id == nil:
		response, err = svc.ListBatches(ctx, service.BatchFilter{
			Type:       model.BatchType(o.Type),
			Status:     model.BatchStatus(strings.ToUpper(o.Status)),
			UploadedBy: o.UploadedBy,
			Limit:      o.Limit,
		})
	default:
		return fmt.Errorf("unsupported resource kind: %s", kind)
	}
	return o.processResponse(response, err, kind, id)
}

func (o *GetOptions) processResponse(response any, err error, kind string, id *uuid.UUID) error {
	errorPrefix := fmt.Sprintf("reading %s/%s", kind, id)
	if id == nil {
		errorPrefix = fmt.Sprintf("listing %s", plural(kind))
	}

	if err != nil {
		return fmt.Errorf("%s: %w", errorPrefix, err)
	}

	switch o.Output {
	case jsonFormat:
		marshalled, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Fprintf(o.out, "%s\n", string(marshalled))
		return nil
	case yamlFormat:
		marshalled, err := yaml.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Fprintf(o.out, "%s", string(marshalled))
		return nil
	default:
		return printTable(o.out, response, kind, id)
	}
}

func printTable(out io.Writer, response any, kind string, id *uuid.UUID) error {
	w := tabwriter.NewWriter(out, 0, 8, 1, '\t', 0)
	switch {
	case kind == BatchKind && id == nil:
		printBatchesTable(w, response.(model.BatchList)...)
	case kind == BatchKind && id != nil:
		printBatchesTable(w, *(response.(*model.Batch)))
	default:
		return fmt.Errorf("unknown resource type %s", kind)
	}
	return w.Flush()
}

func printBatchesTable(w *tabwriter.Writer, batches ...model.Batch) {
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tROWS\tAPPLIED\tREJECTED\tUPLOADED BY\tCREATED")
	for _, b := range batches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			b.ID, b.Type, b.Status, b.RowCount, b.AppliedCount, b.RejectedCount, b.UploadedBy, b.CreatedAt.Format(time.RFC3339))
	}
}
