package grouping

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pawpack/models"
)

const dateLayout = "2006-01-02"

// suggestionNamespace seeds deterministic suggestion ids so that repeated
// passes over the same pool produce the same identifiers.
var suggestionNamespace = uuid.MustParse("6f1c7a52-3b8e-4d0a-9c61-2f4b8e5d7a10")

// Former is the formation entry point consumed by the host services.
type Former interface {
	Form(ctx context.Context, pool []models.BookingCandidate, dogs map[string]models.Dog) models.FormationResult
}

// Engine clusters pending booking candidates into group walk suggestions.
// It holds no mutable state; one Engine may serve concurrent passes.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg Config, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// admitted is a candidate that passed validation and eligibility.
type admitted struct {
	candidate models.BookingCandidate
	dogs      []models.Dog
}

// Form runs one greedy formation pass over pool. Candidates with invalid data
// or any ineligible dog never enter a cluster and are reported as ungroupable,
// as are eligible candidates that no cluster could absorb. When ctx is done the
// pass stops seeding and reports the remainder as deferred.
func (e *Engine) Form(ctx context.Context, pool []models.BookingCandidate, dogs map[string]models.Dog) models.FormationResult {
	result := models.FormationResult{
		Suggestions: []models.GroupSuggestion{},
		Ungroupable: []models.UngroupableCandidate{},
	}

	entries := e.admit(pool, dogs, &result)
	sortAdmitted(entries)

	arena := make([]models.BookingCandidate, len(entries))
	dogSets := make([][]models.Dog, len(entries))
	for i, a := range entries {
		arena[i] = a.candidate
		dogSets[i] = a.dogs
	}

	index := NewCandidateIndex(arena, e.cfg.MaxGroupRadiusMeters, e.cfg.timeWindow())
	consumed := newConsumedSet(len(arena))
	seeded := newConsumedSet(len(arena))

	for seed := range arena {
		if consumed.has(seed) {
			continue
		}
		if ctx.Err() != nil {
			result.Truncated = true
			break
		}

		members := e.grow(seed, arena, dogSets, index, consumed)
		seeded.add(seed)
		if len(members) < 2 {
			continue
		}
		for _, m := range members {
			consumed.add(m)
		}
		result.Suggestions = append(result.Suggestions, e.suggest(members, arena))
	}

	// Only candidates never tried as a seed are deferred by a truncated pass.
	for i, c := range arena {
		if consumed.has(i) {
			continue
		}
		reason := models.UngroupableNoFeasibleGroup
		if result.Truncated && !seeded.has(i) {
			reason = models.UngroupableDeferred
		}
		result.Ungroupable = append(result.Ungroupable, models.UngroupableCandidate{
			CandidateID: c.ID,
			Reason:      reason,
		})
	}

	rankSuggestions(result.Suggestions)

	e.logger.Debug("formation pass finished",
		zap.Int("pool", len(pool)),
		zap.Int("eligible", len(arena)),
		zap.Int("suggestions", len(result.Suggestions)),
		zap.Int("ungroupable", len(result.Ungroupable)),
		zap.Bool("truncated", result.Truncated),
	)
	return result
}

// admit validates every candidate and filters out those carrying an
// ineligible or unknown dog. Rejections are appended to result.
func (e *Engine) admit(pool []models.BookingCandidate, directory map[string]models.Dog, result *models.FormationResult) []admitted {
	entries := make([]admitted, 0, len(pool))
	seen := make(map[string]struct{}, len(pool))

	for _, c := range pool {
		if err := validateCandidate(c); err != nil {
			result.Ungroupable = append(result.Ungroupable, models.UngroupableCandidate{
				CandidateID: c.ID,
				Reason:      models.UngroupableInvalidInput,
				Detail:      err.Error(),
			})
			continue
		}
		if _, dup := seen[c.ID]; dup {
			result.Ungroupable = append(result.Ungroupable, models.UngroupableCandidate{
				CandidateID: c.ID,
				Reason:      models.UngroupableInvalidInput,
				Detail:      "duplicate candidate id",
			})
			continue
		}
		seen[c.ID] = struct{}{}

		found, missing := ResolveDogs(c.DogIDs, directory)
		if len(missing) > 0 {
			result.Ungroupable = append(result.Ungroupable, models.UngroupableCandidate{
				CandidateID: c.ID,
				Reason:      models.UngroupableIneligibleDog,
				Detail:      fmt.Sprintf("unknown dog %s", missing[0]),
			})
			continue
		}
		if id := firstIneligible(found); id != "" {
			result.Ungroupable = append(result.Ungroupable, models.UngroupableCandidate{
				CandidateID: c.ID,
				Reason:      models.UngroupableIneligibleDog,
				Detail:      fmt.Sprintf("dog %s is not group eligible", id),
			})
			continue
		}
		entries = append(entries, admitted{candidate: c, dogs: found})
	}
	return entries
}

func validateCandidate(c models.BookingCandidate) error {
	switch {
	case c.ID == "":
		return newGroupingError(CodeInvalidInput, "candidate id is empty")
	case !c.Location.Valid():
		return newGroupingError(CodeInvalidInput, "invalid coordinate lat=%.6f lon=%.6f", c.Location.Lat, c.Location.Lon)
	case c.DesiredStart.IsZero():
		return newGroupingError(CodeInvalidInput, "desired start is not set")
	case c.DurationMinutes <= 0:
		return newGroupingError(CodeInvalidInput, "duration must be positive, got %d", c.DurationMinutes)
	case c.DogCount <= 0:
		return newGroupingError(CodeInvalidInput, "dog count must be positive, got %d", c.DogCount)
	case c.DogCount != len(c.DogIDs):
		return newGroupingError(CodeInvalidInput, "dog count %d does not match %d dog ids", c.DogCount, len(c.DogIDs))
	}
	return nil
}

// sortAdmitted orders seeds by start ascending, larger requests first, then id.
func sortAdmitted(entries []admitted) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].candidate, entries[j].candidate
		if !a.DesiredStart.Equal(b.DesiredStart) {
			return a.DesiredStart.Before(b.DesiredStart)
		}
		if a.DogCount != b.DogCount {
			return a.DogCount > b.DogCount
		}
		return a.ID < b.ID
	})
}

// cluster is the working set grown around one seed.
type cluster struct {
	members     []int
	dogs        []models.Dog
	dogCount    int
	windowStart time.Time
	windowEnd   time.Time
}

type neighbor struct {
	idx  int
	dist float64
}

// grow accumulates still-unconsumed neighbours of seed, nearest first, while
// capacity, shared time window and radius all hold. A neighbour rejected
// earlier is retried after each acceptance since the centroid has moved.
func (e *Engine) grow(seed int, arena []models.BookingCandidate, dogSets [][]models.Dog, index *CandidateIndex, consumed consumedSet) []int {
	s := arena[seed]
	half := e.cfg.halfWindow()
	cl := &cluster{
		members:     []int{seed},
		dogs:        append([]models.Dog(nil), dogSets[seed]...),
		dogCount:    s.DogCount,
		windowStart: s.DesiredStart.Add(-half),
		windowEnd:   s.DesiredStart.Add(half),
	}
	if cl.dogCount >= e.cfg.MaxDogsPerGroup {
		return cl.members
	}

	var pending []neighbor
	for i, c := range index.Nearby(seed, e.cfg.MaxGroupRadiusMeters, e.cfg.timeWindow()) {
		if consumed.has(i) {
			continue
		}
		pending = append(pending, neighbor{idx: i, dist: Distance(s.Location, c.Location)})
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].dist != pending[j].dist {
			return pending[i].dist < pending[j].dist
		}
		return arena[pending[i].idx].ID < arena[pending[j].idx].ID
	})

	for len(pending) > 0 && cl.dogCount < e.cfg.MaxDogsPerGroup {
		var rejected []neighbor
		accepted := false
		for _, n := range pending {
			if cl.dogCount < e.cfg.MaxDogsPerGroup && e.fits(cl, n.idx, arena, dogSets) {
				c := arena[n.idx]
				cl.members = append(cl.members, n.idx)
				cl.dogs = append(cl.dogs, dogSets[n.idx]...)
				cl.dogCount += c.DogCount
				cl.windowStart = laterOf(cl.windowStart, c.DesiredStart.Add(-half))
				cl.windowEnd = earlierOf(cl.windowEnd, c.DesiredStart.Add(half))
				accepted = true
				continue
			}
			rejected = append(rejected, n)
		}
		if !accepted {
			break
		}
		pending = rejected
	}
	return cl.members
}

// fits checks capacity, window intersection, dog compatibility and the
// recomputed bounding radius for adding arena[idx] to cl.
func (e *Engine) fits(cl *cluster, idx int, arena []models.BookingCandidate, dogSets [][]models.Dog) bool {
	c := arena[idx]
	if cl.dogCount+c.DogCount > e.cfg.MaxDogsPerGroup {
		return false
	}

	half := e.cfg.halfWindow()
	start := laterOf(cl.windowStart, c.DesiredStart.Add(-half))
	end := earlierOf(cl.windowEnd, c.DesiredStart.Add(half))
	if start.After(end) {
		return false
	}

	if !AreDogSetsCompatible(cl.dogs, dogSets[idx]) {
		return false
	}

	_, radius := clusterGeometry(append(append([]int(nil), cl.members...), idx), arena)
	return radius <= e.cfg.MaxGroupRadiusMeters
}

// suggest builds the scored suggestion for a finished cluster.
func (e *Engine) suggest(members []int, arena []models.BookingCandidate) models.GroupSuggestion {
	half := e.cfg.halfWindow()
	seed := arena[members[0]]

	sg := models.GroupSuggestion{
		MemberIDs:   make([]string, 0, len(members)),
		Members:     make([]models.BookingCandidate, 0, len(members)),
		WindowStart: seed.DesiredStart.Add(-half),
		WindowEnd:   seed.DesiredStart.Add(half),
		Date:        seed.DesiredStart.Format(dateLayout),
	}
	for _, m := range members {
		c := arena[m]
		sg.MemberIDs = append(sg.MemberIDs, c.ID)
		sg.Members = append(sg.Members, c)
		sg.DogCount += c.DogCount
		sg.WindowStart = laterOf(sg.WindowStart, c.DesiredStart.Add(-half))
		sg.WindowEnd = earlierOf(sg.WindowEnd, c.DesiredStart.Add(half))
	}

	sg.Centroid, sg.RadiusMeters = clusterGeometry(members, arena)
	var total float64
	for _, m := range members {
		total += Distance(sg.Centroid, arena[m].Location)
	}
	sg.AvgDistanceMeters = total / float64(len(members))
	sg.Score = e.score(sg.DogCount, sg.AvgDistanceMeters, sg.WindowEnd.Sub(sg.WindowStart))
	sg.ID = suggestionID(sg.MemberIDs)
	return sg
}

func clusterGeometry(members []int, arena []models.BookingCandidate) (models.Coordinate, float64) {
	weighted := make([]WeightedPoint, len(members))
	points := make([]models.Coordinate, len(members))
	for i, m := range members {
		weighted[i] = WeightedPoint{Point: arena[m].Location, Weight: float64(arena[m].DogCount)}
		points[i] = arena[m].Location
	}
	center := Centroid(weighted)
	return center, BoundingRadius(center, points)
}

func suggestionID(memberIDs []string) string {
	ids := append([]string(nil), memberIDs...)
	sort.Strings(ids)
	return uuid.NewSHA1(suggestionNamespace, []byte(strings.Join(ids, ","))).String()
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func earlierOf(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}
