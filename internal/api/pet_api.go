package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/walkpal/walkpal/internal/app/companion"
	"github.com/walkpal/walkpal/internal/app/reward"
	"github.com/walkpal/walkpal/internal/domain"
)

// ─── Companion API (/api/pet, /api/streak, /api/migrate) ────────────────────

type adoptRequest struct {
	Archetype domain.Archetype `json:"archetype"`
	Name      string           `json:"name"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type stepsRequest struct {
	DailyTotal int64 `json:"daily_total"`
	Goal       int64 `json:"goal"`
}

type happinessRequest struct {
	Delta int `json:"delta"`
}

func (s *Server) handleGetPet(w http.ResponseWriter, r *http.Request) {
	sum, err := s.pets.Summary(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleAdopt(w http.ResponseWriter, r *http.Request) {
	var req adoptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pet, err := s.pets.Adopt(r.Context(), req.Archetype, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pet)
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pet, err := s.pets.Rename(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

func (s *Server) handleSteps(w http.ResponseWriter, r *http.Request) {
	var req stepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.pets.RecordSteps(r.Context(), req.DailyTotal, req.Goal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHappiness(w http.ResponseWriter, r *http.Request) {
	var req happinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pet, err := s.pets.AdjustHappiness(r.Context(), req.Delta)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

func (s *Server) handleAnimation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var query companion.AnimationQuery
	var err error

	if query.Walking, err = parseBool(q.Get("walking")); err != nil {
		writeError(w, http.StatusBadRequest, "walking: "+err.Error())
		return
	}
	if query.Night, err = parseBool(q.Get("night")); err != nil {
		writeError(w, http.StatusBadRequest, "night: "+err.Error())
		return
	}
	if v := q.Get("progress"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "progress: "+err.Error())
			return
		}
		query.Progress = &p
	}

	anim, err := s.pets.Animation(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"animation": anim,
	})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	st, err := s.pets.Streak(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"consecutive_days": st.ConsecutiveDays,
		"longest_days":     st.LongestDays,
		"cycle_date":       st.CycleDate,
		"milestones_shown": st.ShownList(),
		"policy":           s.pets.Policy(),
	})
}

func (s *Server) handleRollover(w http.ResponseWriter, r *http.Request) {
	res, err := s.pets.Rollover(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMigrate(w http.ResponseWriter, r *http.Request) {
	var req domain.LegacyPetRecord
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pet, err := s.pets.Migrate(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pet)
}

// ─── Reward API (/api/reward) ───────────────────────────────────────────────

type cycleRequest struct {
	Cycle   string  `json:"cycle"`
	Percent float64 `json:"percent"`
}

func (s *Server) handleRewardQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	percent, err := quotePercent(q.Get("percent"), q.Get("steps"), q.Get("goal"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	calc := s.ledger.Calculator()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"percent": percent,
		"tier":    calc.TierFor(percent),
		"price":   calc.MonthlyPrice,
	})
}

func (s *Server) handleListCycles(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit: "+err.Error())
			return
		}
		limit = n
	}
	rows, err := s.ledger.History(limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cycles": rows,
	})
}

func (s *Server) handleRecordCycle(w http.ResponseWriter, r *http.Request) {
	var req cycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := s.ledger.Record(req.Cycle, req.Percent)
	switch {
	case errors.Is(err, domain.ErrCycleRecorded):
		// Redelivered billing outcome: report the row already applied.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"record":   rec,
			"replayed": true,
		})
	case err != nil:
		writeServiceError(w, r, err)
	default:
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"record":   rec,
			"replayed": false,
		})
	}
}

// quotePercent reads either an explicit percent or a steps/goal pair.
func quotePercent(percent, steps, goal string) (float64, error) {
	if percent != "" {
		p, err := strconv.ParseFloat(percent, 64)
		if err != nil {
			return 0, fmt.Errorf("percent: %w", err)
		}
		if err := reward.ValidatePercent(p); err != nil {
			return 0, err
		}
		return p, nil
	}
	if steps == "" || goal == "" {
		return 0, fmt.Errorf("percent or steps and goal are required")
	}
	st, err := strconv.ParseInt(steps, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("steps: %w", err)
	}
	g, err := strconv.ParseInt(goal, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("goal: %w", err)
	}
	return reward.AchievementPercent(st, g), nil
}

func parseBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
