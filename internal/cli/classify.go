package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dualspace/launcher/internal/intent"
	"github.com/dualspace/launcher/internal/ranking"
)

func newClassifyCmd() *cobra.Command {
	var (
		apps []string
		age  int
		at   string
	)
	cmd := &cobra.Command{
		Use:   "classify <text...>",
		Short: "Classify an assistant command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interp := intent.NewInterpreter()
			if at != "" {
				now, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parse --now: %w", err)
				}
				interp.Now = func() time.Time { return now }
			}
			if len(apps) == 0 {
				apps = ranking.Names(ranking.Catalog(age))
			}

			in := interp.Classify(strings.Join(args, " "), apps)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "intent: %s\n", in.Kind)
			if in.App != "" {
				fmt.Fprintf(out, "app: %s\n", in.App)
			}
			if in.Kind == intent.AddReminder {
				fmt.Fprintf(out, "task: %s\n", in.Task)
				if in.Due != nil {
					fmt.Fprintf(out, "due: %s\n", in.Due.Format(time.RFC3339))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&apps, "apps", nil, "available app names (defaults to the age catalog)")
	cmd.Flags().IntVar(&age, "age", 30, "profile age used to pick the app catalog")
	cmd.Flags().StringVar(&at, "now", "", "reference time for reminders (RFC3339)")
	return cmd
}
