package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dualspace/launcher/internal/ranking"
)

func newSuggestCmd() *cobra.Command {
	var (
		apps      []string
		age       int
		hour      int
		usage     map[string]int
		streakApp string
		streakLen int
	)
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Show the smart suggestion and ranked apps for a usage profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if hour < 0 || hour > 23 {
				return fmt.Errorf("hour must be between 0 and 23")
			}
			if len(apps) == 0 {
				apps = ranking.Names(ranking.Catalog(age))
			}
			streak := ranking.Streak{App: streakApp, Len: streakLen}

			out := cmd.OutOrStdout()
			s := ranking.Suggest(ranking.SuggestInput{Usage: usage, Apps: apps, Streak: streak, Hour: hour})
			if s.Empty() {
				fmt.Fprintln(out, "suggestion: none")
			} else {
				fmt.Fprintf(out, "suggestion: %s (%s)\n", s.App, s.Reason)
			}
			for i, r := range ranking.Rank(apps, usage, streak, hour) {
				fmt.Fprintf(out, "%d. %s %d\n", i+1, r.App, r.Score)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&apps, "apps", nil, "available app names (defaults to the age catalog)")
	cmd.Flags().IntVar(&age, "age", 30, "profile age used to pick the app catalog")
	cmd.Flags().IntVar(&hour, "hour", time.Now().Hour(), "hour of day, 0-23")
	cmd.Flags().StringToIntVar(&usage, "usage", nil, "open counts, e.g. Mail=3,Calendar=1")
	cmd.Flags().StringVar(&streakApp, "streak-app", "", "app of the current streak")
	cmd.Flags().IntVar(&streakLen, "streak-len", 0, "length of the current streak")
	return cmd
}
