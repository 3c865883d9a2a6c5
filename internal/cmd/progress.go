package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"

	"github.com/dendrascience/zipsort/workflow"
)

const barWidth = 40

// reporter draws the progress of one operation as a single bar line.
type reporter struct {
	out   io.Writer
	label string
	bar   progress.Model

	mu    sync.Mutex
	last  int
	drawn bool
}

func newReporter(out io.Writer, label string) *reporter {
	return &reporter{
		out:   out,
		label: label,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		last:  -1,
	}
}

func (r *reporter) observe(op workflow.Operation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch op.State {
	case workflow.Loading:
		if op.Progress == r.last {
			return
		}
		r.last = op.Progress
		r.draw(op.Progress)
	case workflow.Done:
		r.draw(100)
		fmt.Fprintln(r.out)
	case workflow.Failed:
		if r.drawn {
			fmt.Fprintln(r.out)
		}
	}
}

func (r *reporter) draw(percent int) {
	r.drawn = true
	fmt.Fprintf(r.out, "\r%s %s", r.label, r.bar.ViewAs(float64(percent)/100))
}

// runOperation runs fn as one operation of kind k, drawing its progress on
// stderr unless --quiet is set. A failure is reported with the generic
// message of its kind followed by the cause.
func runOperation[T any](cmd *cobra.Command, k workflow.Kind, label string, fn func(ctx context.Context, progress workflow.ProgressFunc) (T, error)) (T, error) {
	var slot workflow.Slot[T]
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		unsubscribe := slot.Subscribe(newReporter(cmd.ErrOrStderr(), label).observe)
		defer unsubscribe()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := workflow.Run(ctx, &slot, k, fn)
	if err != nil {
		return result, fmt.Errorf("%s %w", slot.Snapshot().Message, err)
	}
	return result, nil
}
