package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"
)

type StatsOptions struct {
	GlobalOptions

	Output string
	Push   bool
}

func DefaultStatsOptions() *StatsOptions {
	return &StatsOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdStats() *cobra.Command {
	o := DefaultStatsOptions()
	cmd := &cobra.Command{
		Use:          "stats",
		Short:        "Show batch, catalog and supersession counts",
		Args:         cobra.NoArgs,
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

func (o *StatsOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.BoolVar(&o.Push, "push", o.Push, "Also push the counts to the configured Pushgateway")
}

func (o *StatsOptions) Validate(args []string) error {
	if len(o.Output) > 0 && !funk.ContainsString(legalOutputTypes, o.Output) {
		return withExitCode(ExitCodeInvalid, fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", ")))
	}
	if o.Push && o.config.Service.PushgatewayURL == "" {
		return withExitCode(ExitCodeInvalid, fmt.Errorf("--push needs PARTSFEED_PUSHGATEWAY_URL"))
	}
	return o.GlobalOptions.Validate(args)
}

func (o *StatsOptions) Run(ctx context.Context, args []string) error {
	s, err := o.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.Statistics(ctx)
	if err != nil {
		return fmt.Errorf("reading statistics: %w", err)
	}

	if o.Push {
		o.pushMetrics(ctx, s)
	}

	switch o.Output {
	case jsonFormat:
		marshalled, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("marshalling statistics: %w", err)
		}
		fmt.Fprintf(o.out, "%s\n", string(marshalled))
	case yamlFormat:
		marshalled, err := yaml.Marshal(stats)
		if err != nil {
			return fmt.Errorf("marshalling statistics: %w", err)
		}
		fmt.Fprintf(o.out, "%s", string(marshalled))
	default:
		return o.printStats(stats)
	}
	return nil
}

func (o *StatsOptions) printStats(stats model.IngestStats) error {
	w := tabwriter.NewWriter(o.out, 0, 8, 1, '\t', 0)

	fmt.Fprintln(w, "BATCH STATUS\tCOUNT")
	statuses := funk.Keys(stats.BatchesByStatus).([]model.BatchStatus)
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	for _, st := range statuses {
		fmt.Fprintf(w, "%s\t%d\n", st, stats.BatchesByStatus[st])
	}

	fmt.Fprintln(w, "\nACTIVE PART TYPE\tCOUNT")
	types := funk.Keys(stats.ActivePartsByType).([]model.PartType)
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, pt := range types {
		fmt.Fprintf(w, "%s\t%d\n", pt, stats.ActivePartsByType[pt])
	}

	fmt.Fprintf(w, "\nSUPERSESSIONS\t%d\n", stats.Supersessions)
	return w.Flush()
}
