package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/walkpal/walkpal/internal/app/reward"
	"github.com/walkpal/walkpal/internal/daemon"
	"github.com/walkpal/walkpal/internal/domain"
)

func init() {
	tierCmd.Flags().StringVar(&tierRecord, "record", "", "Record the result for billing cycle YYYY-MM")
	rootCmd.AddCommand(tierCmd)
}

var tierRecord string

var tierCmd = &cobra.Command{
	Use:   "tier PERCENT",
	Short: "Show the reward tier for a goal achievement percentage",
	Args:  cobra.ExactArgs(1),
	RunE:  runTier,
}

func runTier(cmd *cobra.Command, args []string) error {
	percent, err := parsePercent(args[0])
	if err != nil {
		return err
	}

	// Quotes only need the configured calculator.
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}
	calc := cfg.Reward.Calculator()
	tier := calc.TierFor(percent)

	fmt.Printf("Achievement:  %.1f%%\n", percent)
	fmt.Printf("Tier:         %s\n", tier.Kind)
	fmt.Printf("Credit:       %s\n", money(tier.Credit))
	fmt.Printf("Renewal:      %s (list %s)\n", money(tier.Price), money(calc.MonthlyPrice))

	if tierRecord == "" {
		return nil
	}

	d, err := daemon.NewWithConfig(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	rec, err := d.Ledger.Record(tierRecord, percent)
	if errors.Is(err, domain.ErrCycleRecorded) {
		fmt.Printf("Cycle %s was already recorded as %s.\n", rec.Cycle, rec.Tier)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Recorded cycle %s.\n", rec.Cycle)
	return nil
}

// parsePercent reads a finite, non-negative achievement percentage.
func parsePercent(s string) (float64, error) {
	percent, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percent %q: %w", s, err)
	}
	if err := reward.ValidatePercent(percent); err != nil {
		return 0, fmt.Errorf("invalid percent %q: %w", s, err)
	}
	return percent, nil
}

// money formats minor units as a decimal amount.
func money(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
