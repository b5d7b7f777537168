package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/pqueue/internal/queue"
)

// NewPeekCommand creates the peek command.
func NewPeekCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "peek",
		Short:         "Print the head of the queue without removing it",
		Long:          "Print the head of the queue without removing it. Exits with code 1 if the queue is empty.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, runPeek)
		},
	}
}

func runPeek(ctx context.Context, q *queue.Queue[string], f *OutputFormatter) error {
	v, ok, err := q.Peek(ctx)
	if err != nil {
		return queueFailure(f, "peek", err)
	}
	if !ok {
		return f.Fail(ExitFailure, CodeEmptyQueue, "queue is empty", queue.ErrEmptyQueue)
	}
	return f.Result(v+"\n", map[string]any{"value": v})
}
