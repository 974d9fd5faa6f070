// Package migration converts a pre-leveling pet record into a leveled
// companion. It runs once per install; the "already migrated" guard is
// owned by the caller.
package migration

import (
	"strings"
	"time"

	"github.com/walkpal/walkpal/internal/app/progression"
	"github.com/walkpal/walkpal/internal/domain"
)

// FallbackArchetype is used when a legacy type name is not recognized.
const FallbackArchetype = domain.ArchetypePuppy

// legacyHappinessScale converts the old 1-5 happiness to 0-100.
const legacyHappinessScale = 20

// legacyArchetypes collapses the old per-sprite types onto archetypes.
var legacyArchetypes = map[string]domain.Archetype{
	"DOG1":    domain.ArchetypePuppy,
	"DOG2":    domain.ArchetypePuppy,
	"DOG3":    domain.ArchetypePuppy,
	"CAT1":    domain.ArchetypeKitty,
	"CAT2":    domain.ArchetypeKitty,
	"RABBIT":  domain.ArchetypeBunny,
	"HAMSTER": domain.ArchetypeBunny,
	"PENGUIN": domain.ArchetypePenguin,
	"DRAGON":  domain.ArchetypeDragon,
	"DINO":    domain.ArchetypeDragon,
}

// ResolveArchetype maps a legacy type name, case-insensitively. The bool is
// false when the fallback archetype was used.
func ResolveArchetype(typeName string) (domain.Archetype, bool) {
	a, ok := legacyArchetypes[strings.ToUpper(strings.TrimSpace(typeName))]
	if !ok {
		return FallbackArchetype, false
	}
	return a, true
}

// Migrate builds a companion from a legacy record. It never fails: unknown
// types fall back to FallbackArchetype, bad names to the archetype's
// default name, and negative step totals count as zero. The result is
// never below level 1 since the user already has walking history.
func Migrate(legacy domain.LegacyPetRecord, now time.Time) domain.ProgressionState {
	archetype, _ := ResolveArchetype(legacy.TypeName)

	name, err := progression.ValidateName(legacy.Name)
	if err != nil {
		name = archetype.DefaultName()
	}

	exp := progression.StepsToExp(max(legacy.TotalWalkedSteps, 0))

	return domain.ProgressionState{
		Archetype:       archetype,
		Name:            name,
		Level:           progression.NewExperienceLevel(exp, 1),
		Happiness:       min(max(legacy.Happiness*legacyHappinessScale, domain.MinHappiness), domain.MaxHappiness),
		LastInteraction: now,
	}
}
