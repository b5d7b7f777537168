package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pqueue/internal/queue"
)

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Delete every element",
		Long:          "Delete every element. Ids already handed out are not reused afterwards.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, runClear)
		},
	}
}

func runClear(ctx context.Context, q *queue.Queue[string], f *OutputFormatter) error {
	before, err := q.Size(ctx)
	if err != nil {
		return queueFailure(f, "size", err)
	}
	if err := q.Clear(ctx); err != nil {
		return queueFailure(f, "clear", err)
	}
	return f.Result(fmt.Sprintf("cleared %d\n", before), map[string]any{"cleared": before})
}
