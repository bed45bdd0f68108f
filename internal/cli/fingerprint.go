package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dualspace/launcher/internal/fingerprint"
)

const defaultThreshold = 10

func newFingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <image>",
		Short: "Print the 64-bit difference hash of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hashFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %016x\n", h, h.Uint64())
			return nil
		},
	}
}

func newCompareCmd() *cobra.Command {
	var threshold int
	cmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Compare two face images the way an unlock does",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if threshold < 0 || threshold > 64 {
				return fmt.Errorf("threshold must be between 0 and 64")
			}
			a, err := hashFile(args[0])
			if err != nil {
				return err
			}
			b, err := hashFile(args[1])
			if err != nil {
				return err
			}
			d, err := fingerprint.Distance(a, b)
			if err != nil {
				return err
			}
			verdict := "no match"
			if fingerprint.Matches(d, threshold) {
				verdict = "match"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "distance=%d threshold=%d %s\n", d, threshold, verdict)
			return nil
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", defaultThreshold, "largest accepted Hamming distance")
	return cmd
}

func hashFile(path string) (fingerprint.Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fingerprint.Hash{}, fmt.Errorf("read %s: %w", path, err)
	}
	h, err := fingerprint.Compute(data)
	if err != nil {
		return fingerprint.Hash{}, fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return h, nil
}
