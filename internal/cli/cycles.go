package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/walkpal/walkpal/internal/daemon"
)

func init() {
	cyclesCmd.Flags().IntVarP(&cyclesLimit, "limit", "n", 12, "Number of cycles to show")
	rootCmd.AddCommand(cyclesCmd)
}

var cyclesLimit int

var cyclesCmd = &cobra.Command{
	Use:     "cycles",
	Aliases: []string{"ls"},
	Short:   "List recorded billing cycles",
	Args:    cobra.NoArgs,
	RunE:    runCycles,
}

func runCycles(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	rows, err := d.Ledger.History(cyclesLimit)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Println("No billing cycles recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CYCLE\tACHIEVED\tTIER\tCREDIT\tPAID\tRECORDED")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.1f%%\t%s\t%s\t%s\t%s\n",
			r.Cycle,
			r.Percent,
			r.Tier,
			money(r.Credit),
			money(r.EffectivePrice),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}
