package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/pqueue/internal/queue"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every element from head to tail",
		Long: `Print every element from head to tail, one per line.

Records that cannot be decoded are skipped and logged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, runList)
		},
	}
}

func runList(ctx context.Context, q *queue.Queue[string], f *OutputFormatter) error {
	items, err := q.ToSlice(ctx)
	if err != nil {
		return queueFailure(f, "list", err)
	}
	return f.Result(lines(items), map[string]any{
		"count": len(items),
		"items": items,
	})
}
