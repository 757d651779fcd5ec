package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dealerportal/partsfeed/internal/service"
	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type TemplateOptions struct {
	GlobalOptions

	OutputFile string
}

func DefaultTemplateOptions() *TemplateOptions {
	return &TemplateOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdTemplate() *cobra.Command {
	o := DefaultTemplateOptions()
	cmd := &cobra.Command{
		Use:          fmt.Sprintf("template (%s)", strings.Join(batchTypeNames(), "|")),
		Short:        "Print the CSV header row expected for an upload type",
		Args:         cobra.ExactArgs(1),
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

func (o *TemplateOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.OutputFile, "output-file", o.OutputFile, "Write the template to this file instead of stdout")
}

func (o *TemplateOptions) Run(ctx context.Context, args []string) error {
	content, err := service.Template(model.BatchType(args[0]))
	if err != nil {
		return withExitCode(ExitCodeInvalid, err)
	}
	return o.writeOutput(o.OutputFile, content)
}
