// Package companion owns the persisted companion for one user. It is the
// single writer of the progress table: step updates, happiness changes, the
// daily cycle rollover and legacy migration all serialize through Service.
package companion

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/walkpal/walkpal/internal/app/migration"
	"github.com/walkpal/walkpal/internal/app/progression"
	"github.com/walkpal/walkpal/internal/app/reward"
	"github.com/walkpal/walkpal/internal/app/streak"
	"github.com/walkpal/walkpal/internal/domain"
	"github.com/walkpal/walkpal/internal/infra/metrics"
)

// Store persists the progress key-value table. *sqlite.DB satisfies it.
type Store interface {
	AllProgress() (map[string]string, error)
	SetProgressMany(pairs map[string]string) error
}

// Service serializes every read-modify-write of the companion record.
type Service struct {
	mu       sync.Mutex
	store    Store
	policy   streak.Policy
	discount float64
	loc      *time.Location
	now      func() time.Time
}

// New creates a companion service. Cycles are calendar days in loc;
// a nil loc means UTC.
func New(store Store, policy streak.Policy, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if policy == "" {
		policy = streak.PolicyLenient
	}
	return &Service{
		store:    store,
		policy:   policy,
		discount: reward.DefaultDiscountThreshold,
		loc:      loc,
		now:      time.Now,
	}
}

// Policy returns the streak policy in effect.
func (s *Service) Policy() streak.Policy { return s.policy }

// SetDiscountThreshold sets the DISCOUNT tier threshold the lenient streak
// policy counts as a success day.
func (s *Service) SetDiscountThreshold(percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discount = percent
}

// SuccessThreshold returns the prior-day percent that extends the streak.
func (s *Service) SuccessThreshold() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy.Threshold(s.discount)
}

// ─── Result Types ───────────────────────────────────────────────────────────

// Summary is the companion as shown to the user.
type Summary struct {
	Pet         domain.ProgressionState `json:"pet"`
	Stage       domain.GrowthStage      `json:"stage"`
	Personality domain.Personality      `json:"personality"`
	Progress    float64                 `json:"progress"`
	ExpToNext   int64                   `json:"exp_to_next"`
	SizeFactor  float64                 `json:"size_factor"`
	StepsToday  int64                   `json:"steps_today"`
	DailyGoal   int64                   `json:"daily_goal"`
	GoalPercent float64                 `json:"goal_percent"`
}

// StepOutcome reports what a step update did.
type StepOutcome struct {
	Pet       domain.ProgressionState `json:"pet"`
	Stage     domain.GrowthStage      `json:"stage"`
	ExpGained int64                   `json:"exp_gained"`
	LeveledUp bool                    `json:"leveled_up"`
	Evolved   bool                    `json:"evolved"`
	Percent   float64                 `json:"percent"`
	Milestone int                     `json:"milestone,omitempty"`
}

// RolloverResult reports a closed cycle. Rolled is false when the stored
// cycle is already today's.
type RolloverResult struct {
	Rolled          bool               `json:"rolled"`
	PriorCycle      string             `json:"prior_cycle,omitempty"`
	PriorPercent    float64            `json:"prior_percent"`
	Streak          domain.StreakState `json:"streak"`
	StreakMilestone int                `json:"streak_milestone,omitempty"`
}

// AnimationQuery holds the display signals. A nil Progress uses today's
// goal percent.
type AnimationQuery struct {
	Walking  bool
	Night    bool
	Progress *float64
}

// ─── Companion ──────────────────────────────────────────────────────────────

// Adopt creates the companion as an EGG. Fails with domain.ErrPetExists if
// one is already stored.
func (s *Service) Adopt(ctx context.Context, archetype domain.Archetype, name string) (domain.ProgressionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return domain.ProgressionState{}, err
	}
	if r.hasPet {
		return domain.ProgressionState{}, domain.ErrPetExists
	}

	pet, err := progression.NewProgressionState(archetype, name, s.now())
	if err != nil {
		return domain.ProgressionState{}, err
	}
	pet.ID = uuid.NewString()

	pairs := petPairs(pet)
	if r.streak.CycleDate == "" {
		pairs[keyCycleDate] = s.today()
	}
	if err := s.store.SetProgressMany(pairs); err != nil {
		return domain.ProgressionState{}, fmt.Errorf("save companion: %w", err)
	}

	s.observe(pet)
	log.WithFields(log.Fields{
		"pet_id":    pet.ID,
		"archetype": pet.Archetype,
		"name":      pet.Name,
	}).Info("companion adopted")
	return pet, nil
}

// Pet returns the stored companion or domain.ErrNoPet.
func (s *Service) Pet(ctx context.Context) (domain.ProgressionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.loadPet(ctx)
	if err != nil {
		return domain.ProgressionState{}, err
	}
	return r.pet, nil
}

// Summary returns the companion with its derived display values.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.loadPet(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Pet:         r.pet,
		Stage:       progression.Stage(r.pet),
		Personality: r.pet.Personality(),
		Progress:    progression.Progress(r.pet.Level),
		ExpToNext:   progression.ExpToNextLevel(r.pet.Level),
		SizeFactor:  progression.SizeFactor(r.pet),
		StepsToday:  r.today,
		DailyGoal:   r.goal,
		GoalPercent: reward.AchievementPercent(r.today, r.goal),
	}, nil
}

// RecordSteps applies today's cumulative step total. Only the increase over
// the stored high-water mark is converted, and remainders carry over, so
// resubmitting a total is a no-op. A positive goal replaces the stored one.
// If the stored cycle is stale it is rolled over first.
func (s *Service) RecordSteps(ctx context.Context, dailyTotal, goal int64) (StepOutcome, error) {
	if dailyTotal < 0 {
		return StepOutcome{}, fmt.Errorf("daily total must not be negative, got %d: %w", dailyTotal, domain.ErrInvalidInput)
	}
	if goal < 0 {
		return StepOutcome{}, fmt.Errorf("goal must not be negative, got %d: %w", goal, domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.loadPet(ctx)
	if err != nil {
		return StepOutcome{}, err
	}

	today := s.today()
	stale := r.streak.CycleDate != "" && r.streak.CycleDate < today

	// lifetime+today never exceeds MaxInt64, so the rollover sum is safe.
	lifetime := r.lifetime
	if stale {
		lifetime += r.today
	}
	if dailyTotal > math.MaxInt64-lifetime {
		return StepOutcome{}, fmt.Errorf("daily total %d overflows lifetime steps %d: %w", dailyTotal, lifetime, domain.ErrInvalidInput)
	}

	switch {
	case r.streak.CycleDate == "":
		r.streak.CycleDate = today
	case stale:
		s.advance(&r, today)
	}
	if goal > 0 {
		r.goal = goal
	}

	out := StepOutcome{Pet: r.pet}
	if dailyTotal > r.today {
		before := r.lifetime + r.today
		after := r.lifetime + dailyTotal
		out.ExpGained = progression.StepsToExp(after) - progression.StepsToExp(before)

		if out.ExpGained > 0 {
			out.Pet, out.LeveledUp, out.Evolved, err = progression.ApplyExp(r.pet, out.ExpGained)
			if err != nil {
				return StepOutcome{}, err
			}
		}
		metrics.StepsConverted.Add(float64(dailyTotal - r.today))
		r.today = dailyTotal
	}
	r.pet = out.Pet
	out.Stage = progression.Stage(r.pet)
	out.Percent = reward.AchievementPercent(r.today, r.goal)

	if m, ok := streak.CheckNewMilestone(r.streak, out.Percent); ok {
		// Lower rungs crossed in the same update are subsumed.
		for _, g := range streak.GoalMilestones {
			if g <= m {
				r.streak = streak.MarkMilestoneShown(r.streak, g)
			}
		}
		out.Milestone = m
	}

	if err := s.save(r); err != nil {
		return StepOutcome{}, err
	}

	if out.ExpGained > 0 {
		metrics.ExpAwarded.Add(float64(out.ExpGained))
	}
	if out.LeveledUp {
		metrics.LevelUps.Inc()
	}
	if out.Evolved {
		metrics.Evolutions.WithLabelValues(out.Stage.String()).Inc()
	}
	if out.Milestone > 0 {
		metrics.MilestonesFired.WithLabelValues("goal").Inc()
	}
	s.observe(r.pet)

	log.WithFields(log.Fields{
		"daily_total": dailyTotal,
		"exp_gained":  out.ExpGained,
		"pet_level":   r.pet.Level.Level,
		"percent":     out.Percent,
	}).Debug("steps recorded")
	if out.LeveledUp {
		log.WithFields(log.Fields{"pet_level": r.pet.Level.Level, "stage": out.Stage}).Info("companion leveled up")
	}
	return out, nil
}

// AdjustHappiness moves happiness by delta within [0, 100].
func (s *Service) AdjustHappiness(ctx context.Context, delta int) (domain.ProgressionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.loadPet(ctx)
	if err != nil {
		return domain.ProgressionState{}, err
	}
	pet := progression.AdjustHappiness(r.pet, delta, s.now())
	if err := s.store.SetProgressMany(petPairs(pet)); err != nil {
		return domain.ProgressionState{}, fmt.Errorf("save companion: %w", err)
	}
	s.observe(pet)
	return pet, nil
}

// Rename gives the companion a new name.
func (s *Service) Rename(ctx context.Context, name string) (domain.ProgressionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.loadPet(ctx)
	if err != nil {
		return domain.ProgressionState{}, err
	}
	pet, err := progression.Rename(r.pet, name)
	if err != nil {
		return domain.ProgressionState{}, err
	}
	if err := s.store.SetProgressMany(petPairs(pet)); err != nil {
		return domain.ProgressionState{}, fmt.Errorf("save companion: %w", err)
	}
	return pet, nil
}

// Animation selects the display category for the stored companion.
func (s *Service) Animation(ctx context.Context, q AnimationQuery) (domain.AnimationCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.loadPet(ctx)
	if err != nil {
		return "", err
	}
	percent := reward.AchievementPercent(r.today, r.goal)
	if q.Progress != nil {
		percent = *q.Progress
	}
	return progression.CurrentAnimation(r.pet, q.Walking, percent, q.Night), nil
}

// ─── Streak ─────────────────────────────────────────────────────────────────

// Streak returns the current streak and milestone state.
func (s *Service) Streak(ctx context.Context) (domain.StreakState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return domain.StreakState{}, err
	}
	return r.streak, nil
}

// Rollover closes the stored cycle if the calendar day has changed.
// Safe to call repeatedly; a second call on the same day is a no-op.
func (s *Service) Rollover(ctx context.Context) (RolloverResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return RolloverResult{}, err
	}

	today := s.today()
	if r.streak.CycleDate >= today {
		return RolloverResult{Streak: r.streak}, nil
	}
	if r.streak.CycleDate == "" {
		r.streak.CycleDate = today
		if err := s.store.SetProgressMany(streakPairs(r.streak)); err != nil {
			return RolloverResult{}, fmt.Errorf("save streak: %w", err)
		}
		return RolloverResult{Streak: r.streak}, nil
	}

	res := s.advance(&r, today)
	if err := s.save(r); err != nil {
		return RolloverResult{}, err
	}
	return res, nil
}

// advance closes r's cycle and opens today. Missed days in between count as
// failed days. Steps of the closed cycle move into the lifetime counter.
func (s *Service) advance(r *record, today string) RolloverResult {
	prior := r.streak.CycleDate
	percent := reward.AchievementPercent(r.today, r.goal)

	threshold := s.policy.Threshold(s.discount)
	next, m, ok := streak.Rollover(r.streak, percent, threshold, today)
	if missedDays(prior, today, s.loc) > 0 {
		next, m, ok = streak.Rollover(next, 0, threshold, today)
	}

	r.streak = next
	r.lifetime += r.today
	r.today = 0

	outcome := "reset"
	if next.ConsecutiveDays > 0 {
		outcome = "success"
	}
	metrics.CycleRollovers.WithLabelValues(outcome).Inc()
	metrics.StreakDays.Set(float64(next.ConsecutiveDays))

	res := RolloverResult{Rolled: true, PriorCycle: prior, PriorPercent: percent, Streak: next}
	if ok {
		res.StreakMilestone = m
		metrics.MilestonesFired.WithLabelValues("streak").Inc()
	}

	log.WithFields(log.Fields{
		"prior_cycle":      prior,
		"prior_percent":    percent,
		"consecutive_days": next.ConsecutiveDays,
		"outcome":          outcome,
	}).Info("cycle rolled over")
	return res
}

// missedDays counts whole calendar days strictly between two cycle dates.
func missedDays(from, to string, loc *time.Location) int {
	a, err := time.ParseInLocation(cycleLayout, from, loc)
	if err != nil {
		return 0
	}
	b, err := time.ParseInLocation(cycleLayout, to, loc)
	if err != nil {
		return 0
	}
	// Round absorbs 23h/25h DST days.
	days := int(b.Sub(a).Round(24*time.Hour)/(24*time.Hour)) - 1
	return max(days, 0)
}

// ─── Migration ──────────────────────────────────────────────────────────────

// Migrate converts a legacy pet record into the stored companion. It runs at
// most once: later calls fail with domain.ErrAlreadyMigrated.
func (s *Service) Migrate(ctx context.Context, legacy domain.LegacyPetRecord) (domain.ProgressionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return domain.ProgressionState{}, err
	}
	if r.migrated {
		return domain.ProgressionState{}, domain.ErrAlreadyMigrated
	}
	if r.hasPet {
		return domain.ProgressionState{}, domain.ErrPetExists
	}

	pet := migration.Migrate(legacy, s.now())
	pet.ID = uuid.NewString()

	// Historical steps count as already converted.
	r.pet = pet
	r.hasPet = true
	r.lifetime = max(legacy.TotalWalkedSteps, 0)
	r.today = 0
	r.migrated = true
	if r.streak.CycleDate == "" {
		r.streak.CycleDate = s.today()
	}
	if err := s.save(r); err != nil {
		return domain.ProgressionState{}, err
	}

	resolution := "mapped"
	if _, ok := migration.ResolveArchetype(legacy.TypeName); !ok {
		resolution = "fallback"
	}
	metrics.Migrations.WithLabelValues(resolution).Inc()
	s.observe(pet)

	log.WithFields(log.Fields{
		"legacy_type": legacy.TypeName,
		"archetype":   pet.Archetype,
		"pet_level":   pet.Level.Level,
		"resolution":  resolution,
	}).Info("legacy pet migrated")
	return pet, nil
}

// ─── Integrity ──────────────────────────────────────────────────────────────

// Verify checks the stored companion against the level invariants.
func (s *Service) Verify(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return err
	}
	if !r.hasPet {
		return nil
	}
	return checkInvariants(r.pet)
}

// Repair recomputes level fields from the lifetime exp total and clamps
// happiness. Used as the health checker's recovery action.
func (s *Service) Repair(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return err
	}
	if !r.hasPet || checkInvariants(r.pet) == nil {
		return nil
	}

	pet := r.pet
	total := max(pet.Level.TotalExp, 0)
	if total == 0 && pet.Level.Level <= 0 {
		pet.Level = domain.ExperienceLevel{}
	} else {
		pet.Level = progression.NewExperienceLevel(total, 1)
	}
	pet.Happiness = min(max(pet.Happiness, domain.MinHappiness), domain.MaxHappiness)

	if err := s.store.SetProgressMany(petPairs(pet)); err != nil {
		return fmt.Errorf("save companion: %w", err)
	}
	log.WithFields(log.Fields{"pet_level": pet.Level.Level, "total_exp": pet.Level.TotalExp}).Warn("companion record repaired")
	return nil
}

func checkInvariants(p domain.ProgressionState) error {
	lvl := p.Level
	if lvl.TotalExp < 0 || lvl.CurrentExp < 0 {
		return fmt.Errorf("negative exp in %+v", lvl)
	}
	if lvl.Level == 0 {
		if lvl.TotalExp != 0 {
			return fmt.Errorf("egg holds %d exp", lvl.TotalExp)
		}
	} else {
		if want := progression.LevelFromExp(lvl.TotalExp); lvl.Level != want {
			return fmt.Errorf("level %d does not match %d total exp (want %d)", lvl.Level, lvl.TotalExp, want)
		}
		if want := max(lvl.TotalExp-progression.ExpFloor(lvl.Level), 0); lvl.CurrentExp != want {
			return fmt.Errorf("current exp %d, want %d", lvl.CurrentExp, want)
		}
	}
	if p.Happiness < domain.MinHappiness || p.Happiness > domain.MaxHappiness {
		return fmt.Errorf("happiness %d out of range", p.Happiness)
	}
	return nil
}

// ─── Persistence ────────────────────────────────────────────────────────────

func (s *Service) load(ctx context.Context) (record, error) {
	if err := ctx.Err(); err != nil {
		return record{}, err
	}
	kv, err := s.store.AllProgress()
	if err != nil {
		return record{}, fmt.Errorf("load progress: %w", err)
	}
	r, err := decode(kv)
	if err != nil {
		return record{}, fmt.Errorf("decode progress: %w", err)
	}
	return r, nil
}

func (s *Service) loadPet(ctx context.Context) (record, error) {
	r, err := s.load(ctx)
	if err != nil {
		return r, err
	}
	if !r.hasPet {
		return r, domain.ErrNoPet
	}
	return r, nil
}

// save writes the whole record in one transaction.
func (s *Service) save(r record) error {
	pairs := streakPairs(r.streak)
	if r.hasPet {
		merge(pairs, petPairs(r.pet))
	}
	pairs[keyStepsToday] = fmt.Sprint(r.today)
	pairs[keyStepsLifetime] = fmt.Sprint(r.lifetime)
	pairs[keyDailyGoal] = fmt.Sprint(r.goal)
	if r.migrated {
		pairs[keyLegacyMigrated] = "1"
	}
	if err := s.store.SetProgressMany(pairs); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *Service) today() string {
	return s.now().In(s.loc).Format(cycleLayout)
}

func (s *Service) observe(p domain.ProgressionState) {
	metrics.PetLevel.Set(float64(p.Level.Level))
	metrics.PetHappiness.Set(float64(p.Happiness))
}
