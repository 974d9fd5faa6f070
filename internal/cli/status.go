package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walkpal/walkpal/internal/daemon"
	"github.com/walkpal/walkpal/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your companion, today's progress and streak",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	sum, err := d.Pets.Summary(ctx)
	if errors.Is(err, domain.ErrNoPet) {
		fmt.Println("No companion yet. Run 'walkpal adopt PUPPY Buddy' to get started.")
		return nil
	}
	if err != nil {
		return err
	}
	st, err := d.Pets.Streak(ctx)
	if err != nil {
		return err
	}

	pet := sum.Pet
	fmt.Printf("Name:         %s (%s, %s)\n", pet.Name, pet.Archetype, sum.Personality)
	fmt.Printf("Stage:        %s (size x%.1f)\n", sum.Stage, sum.SizeFactor)
	fmt.Printf("Level:        %d  %s\n", pet.Level.Level, renderBar(sum.Progress))
	fmt.Printf("Experience:   %d total, %d to next level\n", pet.Level.TotalExp, sum.ExpToNext)
	fmt.Printf("Happiness:    %d/100\n", pet.Happiness)
	if sum.DailyGoal > 0 {
		fmt.Printf("Today:        %d / %d steps  %s\n", sum.StepsToday, sum.DailyGoal, renderBar(sum.GoalPercent/100))
	} else {
		fmt.Printf("Today:        %d steps\n", sum.StepsToday)
	}
	fmt.Printf("Streak:       %d days (best %d, %s policy)\n", st.ConsecutiveDays, st.LongestDays, d.Pets.Policy())

	return nil
}
