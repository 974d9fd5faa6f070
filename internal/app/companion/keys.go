package companion

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/walkpal/walkpal/internal/domain"
)

// Keys in the progress KV table.
const (
	keyPetID           = "pet_id"
	keyArchetype       = "archetype"
	keyName            = "name"
	keyLevel           = "level"
	keyCurrentExp      = "current_exp"
	keyTotalExp        = "total_exp"
	keyHappiness       = "happiness"
	keyLastInteraction = "last_interaction"

	keyConsecutiveDays = "consecutive_days"
	keyLongestDays     = "longest_days"
	keyMilestonesShown = "milestones_shown"
	keyCycleDate       = "cycle_date"

	keyStepsToday    = "steps_today"
	keyStepsLifetime = "steps_lifetime_converted"
	keyDailyGoal     = "daily_goal"

	keyLegacyMigrated = "legacy_migrated"
)

const cycleLayout = "2006-01-02"

// record is the decoded progress table.
type record struct {
	pet      domain.ProgressionState
	hasPet   bool
	streak   domain.StreakState
	today    int64 // steps_today high-water mark
	lifetime int64 // steps from closed cycles already converted
	goal     int64
	migrated bool
}

func decode(kv map[string]string) (record, error) {
	var r record
	var err error

	if a := kv[keyArchetype]; a != "" {
		r.hasPet = true
		r.pet.ID = kv[keyPetID]
		r.pet.Archetype = domain.Archetype(a)
		r.pet.Name = kv[keyName]
		if r.pet.Level.Level, err = atoi(kv, keyLevel); err != nil {
			return r, err
		}
		if r.pet.Level.CurrentExp, err = atoi64(kv, keyCurrentExp); err != nil {
			return r, err
		}
		if r.pet.Level.TotalExp, err = atoi64(kv, keyTotalExp); err != nil {
			return r, err
		}
		if r.pet.Happiness, err = atoi(kv, keyHappiness); err != nil {
			return r, err
		}
		ms, err := atoi64(kv, keyLastInteraction)
		if err != nil {
			return r, err
		}
		if ms > 0 {
			r.pet.LastInteraction = time.UnixMilli(ms).UTC()
		}
	}

	if r.streak.ConsecutiveDays, err = atoi(kv, keyConsecutiveDays); err != nil {
		return r, err
	}
	if r.streak.LongestDays, err = atoi(kv, keyLongestDays); err != nil {
		return r, err
	}
	r.streak.CycleDate = kv[keyCycleDate]
	if r.streak.Shown, err = parseShown(kv[keyMilestonesShown]); err != nil {
		return r, err
	}

	if r.today, err = atoi64(kv, keyStepsToday); err != nil {
		return r, err
	}
	if r.lifetime, err = atoi64(kv, keyStepsLifetime); err != nil {
		return r, err
	}
	if r.goal, err = atoi64(kv, keyDailyGoal); err != nil {
		return r, err
	}
	r.migrated = kv[keyLegacyMigrated] == "1"
	return r, nil
}

// petPairs encodes the companion record.
func petPairs(p domain.ProgressionState) map[string]string {
	return map[string]string{
		keyPetID:           p.ID,
		keyArchetype:       string(p.Archetype),
		keyName:            p.Name,
		keyLevel:           strconv.Itoa(p.Level.Level),
		keyCurrentExp:      strconv.FormatInt(p.Level.CurrentExp, 10),
		keyTotalExp:        strconv.FormatInt(p.Level.TotalExp, 10),
		keyHappiness:       strconv.Itoa(p.Happiness),
		keyLastInteraction: strconv.FormatInt(p.LastInteraction.UnixMilli(), 10),
	}
}

// streakPairs encodes streak and milestone state.
func streakPairs(s domain.StreakState) map[string]string {
	return map[string]string{
		keyConsecutiveDays: strconv.Itoa(s.ConsecutiveDays),
		keyLongestDays:     strconv.Itoa(s.LongestDays),
		keyCycleDate:       s.CycleDate,
		keyMilestonesShown: formatShown(s),
	}
}

func merge(dst map[string]string, src ...map[string]string) map[string]string {
	for _, m := range src {
		for k, v := range m {
			dst[k] = v
		}
	}
	return dst
}

func atoi(kv map[string]string, key string) (int, error) {
	v := kv[key]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func atoi64(kv map[string]string, key string) (int64, error) {
	v := kv[key]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func parseShown(csv string) (map[int]bool, error) {
	shown := make(map[int]bool)
	if csv == "" {
		return shown, nil
	}
	for _, part := range strings.Split(csv, ",") {
		m, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", keyMilestonesShown, err)
		}
		shown[m] = true
	}
	return shown, nil
}

func formatShown(s domain.StreakState) string {
	list := s.ShownList()
	parts := make([]string, len(list))
	for i, m := range list {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ",")
}
