package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/walkpal/walkpal/internal/daemon"
	"github.com/walkpal/walkpal/internal/domain"
)

func init() {
	rootCmd.AddCommand(adoptCmd)
}

var adoptCmd = &cobra.Command{
	Use:   "adopt ARCHETYPE NAME",
	Short: "Adopt a companion egg",
	Long: `Adopt a companion egg. ARCHETYPE is one of PUPPY, KITTY, BUNNY,
PENGUIN or DRAGON. The egg hatches with your first steps.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdopt,
}

func runAdopt(cmd *cobra.Command, args []string) error {
	archetype := domain.Archetype(strings.ToUpper(args[0]))

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	pet, err := d.Pets.Adopt(cmd.Context(), archetype, args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Adopted %s the %s (%s). Start walking to hatch it!\n",
		pet.Name, strings.ToLower(string(pet.Archetype)), pet.Personality())
	return nil
}
