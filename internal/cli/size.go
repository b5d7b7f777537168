package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/pqueue/internal/queue"
)

// NewSizeCommand creates the size command.
func NewSizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "size",
		Short:         "Print the number of elements in the queue",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, runSize)
		},
	}
}

func runSize(ctx context.Context, q *queue.Queue[string], f *OutputFormatter) error {
	size, err := q.Size(ctx)
	if err != nil {
		return queueFailure(f, "size", err)
	}
	return f.Result(strconv.Itoa(size)+"\n", map[string]any{"size": size})
}
