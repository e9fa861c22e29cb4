package grouping

import (
	"sort"
	"time"

	"pawpack/models"
)

// score ranks a suggestion: packed dogs are rewarded, spread-out members and
// a narrowed shared start window are penalised.
func (e *Engine) score(dogCount int, avgDistance float64, window time.Duration) float64 {
	w := e.cfg.Weights
	return float64(dogCount)*w.DogCount -
		avgDistance*w.Distance -
		e.slackPenalty(window)*w.WindowSlack
}

// slackPenalty is the number of minutes the shared window lost relative to a
// single candidate's window. It reaches TimeWindowMinutes when the window
// collapses to an instant.
func (e *Engine) slackPenalty(window time.Duration) float64 {
	p := float64(e.cfg.TimeWindowMinutes) - window.Minutes()
	if p < 0 {
		return 0
	}
	return p
}

// rankSuggestions orders by score descending; ties fall back to the earlier
// window and then the id so output order is reproducible.
func rankSuggestions(s []models.GroupSuggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		if !s[i].WindowStart.Equal(s[j].WindowStart) {
			return s[i].WindowStart.Before(s[j].WindowStart)
		}
		return s[i].ID < s[j].ID
	})
}

// RankSuggestions exposes the suggestion ordering for callers merging the
// results of several regional passes.
func RankSuggestions(s []models.GroupSuggestion) {
	rankSuggestions(s)
}
