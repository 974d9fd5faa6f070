// Package domain holds the pure value types of the WalkPal progression engine.
// Nothing in here touches storage, HTTP or logging.
package domain

import "time"

// ─── Experience / Level ─────────────────────────────────────────────────────

// ExperienceLevel is an immutable snapshot of a pet's progression.
// TotalExp == ExpFloor(Level) + CurrentExp once TotalExp has reached the
// level 1 floor.
type ExperienceLevel struct {
	Level      int   `json:"level"`
	CurrentExp int64 `json:"current_exp"` // Exp accumulated since reaching Level
	TotalExp   int64 `json:"total_exp"`   // Lifetime total
}

// ─── Growth Stage ───────────────────────────────────────────────────────────

// GrowthStage is a coarse life phase derived from level.
// The enum order is significant: EGG < BABY < TEEN < ADULT.
type GrowthStage int

const (
	StageEgg GrowthStage = iota
	StageBaby
	StageTeen
	StageAdult
)

// String returns the persisted / wire name of the stage.
func (g GrowthStage) String() string {
	switch g {
	case StageEgg:
		return "EGG"
	case StageBaby:
		return "BABY"
	case StageTeen:
		return "TEEN"
	case StageAdult:
		return "ADULT"
	default:
		return "UNKNOWN"
	}
}

// SizeFactor is the cosmetic display multiplier for the stage.
func (g GrowthStage) SizeFactor() float64 {
	switch g {
	case StageEgg:
		return 0.8
	case StageBaby:
		return 1.0
	case StageTeen:
		return 1.2
	case StageAdult:
		return 1.5
	default:
		return 1.0
	}
}

// MarshalText implements encoding.TextMarshaler so stages serialize by name.
func (g GrowthStage) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// ─── Animation ──────────────────────────────────────────────────────────────

// AnimationCategory is the display hint handed to the rendering layer.
type AnimationCategory string

const (
	AnimIdle   AnimationCategory = "IDLE"
	AnimWalk   AnimationCategory = "WALK"
	AnimRun    AnimationCategory = "RUN"
	AnimSneak  AnimationCategory = "SNEAK"
	AnimWobble AnimationCategory = "WOBBLE"
	AnimCrack  AnimationCategory = "CRACK"
)

// ─── Archetype ──────────────────────────────────────────────────────────────

// Archetype identifies the kind of companion.
type Archetype string

const (
	ArchetypePuppy   Archetype = "PUPPY"
	ArchetypeKitty   Archetype = "KITTY"
	ArchetypeBunny   Archetype = "BUNNY"
	ArchetypePenguin Archetype = "PENGUIN"
	ArchetypeDragon  Archetype = "DRAGON"
)

// Personality is the behavioural tag bound to each archetype.
type Personality string

const (
	PersonalityLoyal    Personality = "loyal"
	PersonalityCurious  Personality = "curious"
	PersonalityShy      Personality = "shy"
	PersonalityCheerful Personality = "cheerful"
	PersonalityBrave    Personality = "brave"
)

// archetypeInfo binds an archetype to its personality and a default name.
var archetypeInfo = map[Archetype]struct {
	personality Personality
	defaultName string
}{
	ArchetypePuppy:   {PersonalityLoyal, "Buddy"},
	ArchetypeKitty:   {PersonalityCurious, "Mochi"},
	ArchetypeBunny:   {PersonalityShy, "Clover"},
	ArchetypePenguin: {PersonalityCheerful, "Pingu"},
	ArchetypeDragon:  {PersonalityBrave, "Ember"},
}

// Archetypes lists every archetype in display order.
func Archetypes() []Archetype {
	return []Archetype{ArchetypePuppy, ArchetypeKitty, ArchetypeBunny, ArchetypePenguin, ArchetypeDragon}
}

// Valid reports whether a is one of the known archetypes.
func (a Archetype) Valid() bool {
	_, ok := archetypeInfo[a]
	return ok
}

// Personality returns the tag bound to the archetype ("" if unknown).
func (a Archetype) Personality() Personality {
	return archetypeInfo[a].personality
}

// DefaultName is used when no valid name is available (e.g. migration).
func (a Archetype) DefaultName() string {
	return archetypeInfo[a].defaultName
}

// ─── Progression State ──────────────────────────────────────────────────────

// Happiness bounds on the 0–100 scale.
const (
	MinHappiness     = 0
	MaxHappiness     = 100
	InitialHappiness = 50
	MaxNameRunes     = 16
)

// ProgressionState is the durable companion record for one user.
type ProgressionState struct {
	ID              string          `json:"id"`
	Archetype       Archetype       `json:"archetype"`
	Name            string          `json:"name"`
	Level           ExperienceLevel `json:"level"`
	Happiness       int             `json:"happiness"`
	LastInteraction time.Time       `json:"last_interaction"`
}

// Personality is a shortcut for the archetype's personality tag.
func (p ProgressionState) Personality() Personality {
	return p.Archetype.Personality()
}

// ─── Legacy ─────────────────────────────────────────────────────────────────

// LegacyPetRecord is the pre-leveling flat pet model. Only read by migration.
type LegacyPetRecord struct {
	TypeName         string `json:"type_name"`
	Name             string `json:"name"`
	Happiness        int    `json:"happiness"` // 1–5 scale
	TotalWalkedSteps int64  `json:"total_walked_steps"`
}
