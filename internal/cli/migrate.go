package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walkpal/walkpal/internal/app/progression"
	"github.com/walkpal/walkpal/internal/daemon"
	"github.com/walkpal/walkpal/internal/domain"
)

func init() {
	migrateCmd.Flags().StringVar(&legacy.TypeName, "type", "", "Legacy pet type, e.g. DOG1 or CAT2")
	migrateCmd.Flags().StringVar(&legacy.Name, "name", "", "Legacy pet name")
	migrateCmd.Flags().IntVar(&legacy.Happiness, "happiness", 3, "Legacy happiness on the 1-5 scale")
	migrateCmd.Flags().Int64Var(&legacy.TotalWalkedSteps, "steps", 0, "Lifetime steps walked with the legacy pet")
	_ = migrateCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(migrateCmd)
}

var legacy domain.LegacyPetRecord

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert a pre-leveling pet into a leveled companion (once)",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	pet, err := d.Pets.Migrate(cmd.Context(), legacy)
	if err != nil {
		return err
	}

	fmt.Printf("Migrated %s: %s, level %d (%s), happiness %d\n",
		pet.Name, pet.Archetype, pet.Level.Level, progression.Stage(pet), pet.Happiness)
	return nil
}
