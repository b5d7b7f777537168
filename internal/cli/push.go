package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pqueue/internal/queue"
)

// NewPushCommand creates the push command for appending elements.
func NewPushCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "push <value>...",
		Short: "Append values to the tail of the queue",
		Long: `Append one or more values to the tail of the queue, in argument order.

Values are stored NFC-normalised. If a write fails, values pushed before
the failure stay in the queue.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, func(ctx context.Context, q *queue.Queue[string], f *OutputFormatter) error {
				return runPush(ctx, q, f, args)
			})
		},
	}
}

func runPush(ctx context.Context, q *queue.Queue[string], f *OutputFormatter, values []string) error {
	if err := q.AddAll(ctx, values); err != nil {
		return queueFailure(f, "push", err)
	}
	f.VerboseLog("pushed %d value(s)", len(values))

	size, err := q.Size(ctx)
	if err != nil {
		return queueFailure(f, "size", err)
	}
	return f.Result(fmt.Sprintf("pushed %d, size %d\n", len(values), size), map[string]any{
		"pushed": len(values),
		"size":   size,
	})
}
