package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/walkpal/walkpal/internal/daemon"
)

func init() {
	stepsCmd.Flags().Int64Var(&stepsGoal, "goal", 0, "Daily step goal (keeps the stored goal when 0)")
	rootCmd.AddCommand(stepsCmd)
}

var stepsGoal int64

var stepsCmd = &cobra.Command{
	Use:   "steps TOTAL",
	Short: "Record today's cumulative step total",
	Long: `Record today's cumulative step total. Only the increase over the last
recorded total is converted to experience, so repeating a total is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: runSteps,
}

func runSteps(cmd *cobra.Command, args []string) error {
	total, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid step total %q: %w", args[0], err)
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	out, err := d.Pets.RecordSteps(cmd.Context(), total, stepsGoal)
	if err != nil {
		return err
	}

	fmt.Printf("+%d exp  (level %d, %s)\n", out.ExpGained, out.Pet.Level.Level, out.Stage)
	if out.Percent > 0 {
		fmt.Printf("Goal: %s\n", renderBar(out.Percent/100))
	}
	if out.Evolved {
		fmt.Printf("%s evolved into a %s!\n", out.Pet.Name, out.Stage)
	} else if out.LeveledUp {
		fmt.Printf("%s reached level %d!\n", out.Pet.Name, out.Pet.Level.Level)
	}
	if out.Milestone > 0 {
		fmt.Printf("Milestone: %d%% of today's goal\n", out.Milestone)
	}
	return nil
}
