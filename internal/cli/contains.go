package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/pqueue/internal/queue"
)

// NewContainsCommand creates the contains command.
func NewContainsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "contains <value>",
		Short: "Report whether the queue holds a value",
		Long: `Report whether the queue holds a value.

Prints true or false. The exit code is 0 either way; use --format json to
read the answer from scripts.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, func(ctx context.Context, q *queue.Queue[string], f *OutputFormatter) error {
				found := q.Contains(ctx, args[0])
				return f.Result(strconv.FormatBool(found)+"\n", map[string]any{"contains": found})
			})
		},
	}
}
