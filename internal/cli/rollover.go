package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walkpal/walkpal/internal/daemon"
)

func init() {
	rootCmd.AddCommand(rolloverCmd)
}

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Close yesterday's goal cycle now",
	Long: `Close the stored goal cycle if the calendar day has changed. The server
does this at midnight; use this when running without 'walkpal serve'.`,
	Args: cobra.NoArgs,
	RunE: runRollover,
}

func runRollover(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.Pets.Rollover(cmd.Context())
	if err != nil {
		return err
	}
	if !res.Rolled {
		fmt.Println("Cycle is already current.")
		return nil
	}

	fmt.Printf("Closed %s at %.1f%%. Streak: %d days.\n",
		res.PriorCycle, res.PriorPercent, res.Streak.ConsecutiveDays)
	if res.StreakMilestone > 0 {
		fmt.Printf("Streak milestone: %d days!\n", res.StreakMilestone)
	}
	return nil
}
