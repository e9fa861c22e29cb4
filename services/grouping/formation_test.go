package grouping

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pawpack/models"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, zap.NewNop())
	require.NoError(t, err)
	return e
}

func ungroupableByID(res models.FormationResult) map[string]models.UngroupableCandidate {
	out := make(map[string]models.UngroupableCandidate, len(res.Ungroupable))
	for _, u := range res.Ungroupable {
		out[u.CandidateID] = u
	}
	return out
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDogsPerGroup = 0
	_, err := NewEngine(cfg, nil)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidConfig))
}

func TestFormThreeNearbyCandidatesMergeIntoOneGroup(t *testing.T) {
	f := newFixture()
	pool := []models.BookingCandidate{
		f.candidate("a", base, monday, 2),
		f.candidate("b", offset(base, 0, 500), monday.Add(5*time.Minute), 2),
		f.candidate("c", offset(base, 0, 1000), monday.Add(10*time.Minute), 2),
	}

	res := newTestEngine(t, testConfig()).Form(context.Background(), pool, f.dogs)

	require.Len(t, res.Suggestions, 1)
	sg := res.Suggestions[0]
	assert.ElementsMatch(t, []string{"a", "b", "c"}, sg.MemberIDs)
	assert.Equal(t, "a", sg.MemberIDs[0], "seed comes first")
	assert.Equal(t, 6, sg.DogCount)
	assert.InDelta(t, 500, sg.RadiusMeters, 1)
	assert.InDelta(t, Distance(sg.Centroid, pool[1].Location), 0, 1)
	assert.Equal(t, monday.Add(-5*time.Minute), sg.WindowStart)
	assert.Equal(t, monday.Add(15*time.Minute), sg.WindowEnd)
	assert.Equal(t, "2025-03-10", sg.Date)
	assert.Empty(t, res.Ungroupable)
	assert.False(t, res.Truncated)
}

func TestFormCandidatesTooFarApartStayIndividual(t *testing.T) {
	f := newFixture()
	pool := []models.BookingCandidate{
		f.candidate("a", base, monday, 2),
		f.candidate("b", offset(base, 5000, 0), monday, 2),
	}

	res := newTestEngine(t, testConfig()).Form(context.Background(), pool, f.dogs)

	assert.Empty(t, res.Suggestions)
	got := ungroupableByID(res)
	require.Len(t, got, 2)
	assert.Equal(t, models.UngroupableNoFeasibleGroup, got["a"].Reason)
	assert.Equal(t, models.UngroupableNoFeasibleGroup, got["b"].Reason)
}

func TestFormExcludesCandidateWithIneligibleDog(t *testing.T) {
	f := newFixture()
	a := f.candidate("a", base, monday, 1)
	b := f.candidate("b", offset(base, 100, 0), monday, 2)
	c := f.candidate("c", offset(base, 200, 0), monday, 1)
	f.unvaccinate(b)

	res := newTestEngine(t, testConfig()).Form(context.Background(), []models.BookingCandidate{a, b, c}, f.dogs)

	require.Len(t, res.Suggestions, 1)
	assert.ElementsMatch(t, []string{"a", "c"}, res.Suggestions[0].MemberIDs)
	got := ungroupableByID(res)
	require.Contains(t, got, "b")
	assert.Equal(t, models.UngroupableIneligibleDog, got["b"].Reason)
}

func TestFormUnknownDogIsIneligible(t *testing.T) {
	f := newFixture()
	a := f.candidate("a", base, monday, 1)
	b := f.candidate("b", base, monday, 1)
	delete(f.dogs, b.DogIDs[0])

	res := newTestEngine(t, testConfig()).Form(context.Background(), []models.BookingCandidate{a, b}, f.dogs)

	assert.Empty(t, res.Suggestions)
	assert.Equal(t, models.UngroupableIneligibleDog, ungroupableByID(res)["b"].Reason)
}

func TestFormIsolatesInvalidCandidates(t *testing.T) {
	f := newFixture()
	good1 := f.candidate("good1", base, monday, 1)
	good2 := f.candidate("good2", offset(base, 50, 50), monday, 1)
	badCoord := f.candidate("bad-coord", models.Coordinate{Lat: 120, Lon: 0}, monday, 1)
	badDuration := f.candidate("bad-duration", base, monday, 1)
	badDuration.DurationMinutes = 0
	noDogs := f.candidate("no-dogs", base, monday, 1)
	noDogs.DogIDs, noDogs.DogCount = nil, 0
	dup := f.candidate("good1", base, monday, 1)

	res := newTestEngine(t, testConfig()).Form(context.Background(),
		[]models.BookingCandidate{good1, badCoord, good2, badDuration, noDogs, dup}, f.dogs)

	require.Len(t, res.Suggestions, 1)
	assert.ElementsMatch(t, []string{"good1", "good2"}, res.Suggestions[0].MemberIDs)

	var invalid []string
	for _, u := range res.Ungroupable {
		assert.Equal(t, models.UngroupableInvalidInput, u.Reason, u.CandidateID)
		assert.NotEmpty(t, u.Detail)
		invalid = append(invalid, u.CandidateID)
	}
	assert.Equal(t, []string{"bad-coord", "bad-duration", "no-dogs", "good1"}, invalid)
}

func TestFormRespectsCapacity(t *testing.T) {
	f := newFixture()
	var pool []models.BookingCandidate
	for i := 0; i < 5; i++ {
		pool = append(pool, f.candidate(fmt.Sprintf("c%d", i), offset(base, float64(i*20), 0), monday, 2))
	}

	res := newTestEngine(t, testConfig()).Form(context.Background(), pool, f.dogs)

	require.Len(t, res.Suggestions, 2)
	assert.Equal(t, 6, res.Suggestions[0].DogCount)
	assert.Equal(t, 4, res.Suggestions[1].DogCount)
	assert.Empty(t, res.Ungroupable)
}

func TestFormTimeWindowMustIntersect(t *testing.T) {
	f := newFixture()
	pool := []models.BookingCandidate{
		f.candidate("early", offset(base, 0, -100), monday.Add(-25*time.Minute), 1),
		f.candidate("mid", base, monday, 1),
		f.candidate("late", offset(base, 0, 100), monday.Add(25*time.Minute), 1),
	}

	res := newTestEngine(t, testConfig()).Form(context.Background(), pool, f.dogs)

	// early and late are each within the window of mid but 50 minutes apart.
	require.Len(t, res.Suggestions, 1)
	assert.ElementsMatch(t, []string{"early", "mid"}, res.Suggestions[0].MemberIDs)
	assert.Equal(t, models.UngroupableNoFeasibleGroup, ungroupableByID(res)["late"].Reason)
}

func TestFormOversizedSeedIsUngroupable(t *testing.T) {
	f := newFixture()
	pool := []models.BookingCandidate{
		f.candidate("pack", base, monday, 7),
		f.candidate("solo", base, monday, 1),
	}

	res := newTestEngine(t, testConfig()).Form(context.Background(), pool, f.dogs)

	assert.Empty(t, res.Suggestions)
	assert.Len(t, res.Ungroupable, 2)
}

func TestFormScoresAndRanksSuggestions(t *testing.T) {
	f := newFixture()
	far := offset(base, 20000, 0)
	pool := []models.BookingCandidate{
		f.candidate("small1", base, monday, 1),
		f.candidate("small2", base, monday, 1),
		f.candidate("big1", far, monday.Add(time.Hour), 3),
		f.candidate("big2", far, monday.Add(time.Hour), 3),
	}

	res := newTestEngine(t, testConfig()).Form(context.Background(), pool, f.dogs)

	require.Len(t, res.Suggestions, 2)
	assert.ElementsMatch(t, []string{"big1", "big2"}, res.Suggestions[0].MemberIDs)
	assert.InDelta(t, 60, res.Suggestions[0].Score, 1e-6)
	assert.InDelta(t, 20, res.Suggestions[1].Score, 1e-6)
}

func TestScoreSlackPenalty(t *testing.T) {
	e := newTestEngine(t, testConfig())
	assert.InDelta(t, 60, e.score(6, 0, 30*time.Minute), 1e-9)
	assert.InDelta(t, 60-100-0.5*20, e.score(6, 100, 10*time.Minute), 1e-9)
	assert.InDelta(t, 60-0.5*30, e.score(6, 0, 0), 1e-9)
}

func TestFormStopsSeedingWhenContextDone(t *testing.T) {
	f := newFixture()
	pool := []models.BookingCandidate{
		f.candidate("a", base, monday, 1),
		f.candidate("b", base, monday, 1),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newTestEngine(t, testConfig()).Form(ctx, pool, f.dogs)

	assert.True(t, res.Truncated)
	assert.Empty(t, res.Suggestions)
	for _, u := range res.Ungroupable {
		assert.Equal(t, models.UngroupableDeferred, u.Reason)
	}
	assert.Len(t, res.Ungroupable, 2)
}

// seedBudget is a context that reports done after a fixed number of checks.
type seedBudget struct {
	context.Context
	left int
}

func (c *seedBudget) Err() error {
	if c.left > 0 {
		c.left--
		return nil
	}
	return context.Canceled
}

func TestFormTruncatedKeepsSeedOutcomes(t *testing.T) {
	f := newFixture()
	pool := []models.BookingCandidate{
		f.candidate("a", base, monday, 1),
		f.candidate("b", offset(base, 10000, 0), monday, 1),
		f.candidate("c", offset(base, 20000, 0), monday, 1),
	}
	ctx := &seedBudget{Context: context.Background(), left: 2}

	res := newTestEngine(t, testConfig()).Form(ctx, pool, f.dogs)

	assert.True(t, res.Truncated)
	byID := ungroupableByID(res)
	require.Len(t, byID, 3)
	assert.Equal(t, models.UngroupableNoFeasibleGroup, byID["a"].Reason)
	assert.Equal(t, models.UngroupableNoFeasibleGroup, byID["b"].Reason)
	assert.Equal(t, models.UngroupableDeferred, byID["c"].Reason)
}

func randomPool(f *fixture, r *rand.Rand, n int) []models.BookingCandidate {
	pool := make([]models.BookingCandidate, 0, n)
	for i := 0; i < n; i++ {
		at := offset(base, r.Float64()*6000-3000, r.Float64()*6000-3000)
		start := monday.Add(time.Duration(r.IntN(240)) * time.Minute)
		c := f.candidate(fmt.Sprintf("cand-%03d", i), at, start, 1+r.IntN(3))
		if r.IntN(10) == 0 {
			f.unvaccinate(c)
		}
		pool = append(pool, c)
	}
	return pool
}

func TestFormInvariantsOnRandomPool(t *testing.T) {
	f := newFixture()
	r := rand.New(rand.NewPCG(7, 11))
	pool := randomPool(f, r, 250)
	cfg := testConfig()
	cfg.MaxGroupRadiusMeters = 1500
	e := newTestEngine(t, cfg)

	res := e.Form(context.Background(), pool, f.dogs)
	require.NotEmpty(t, res.Suggestions)

	byID := make(map[string]models.BookingCandidate, len(pool))
	for _, c := range pool {
		byID[c.ID] = c
	}
	half := cfg.halfWindow()
	seen := map[string]bool{}

	for i, sg := range res.Suggestions {
		assert.GreaterOrEqual(t, len(sg.MemberIDs), 2)
		assert.LessOrEqual(t, sg.DogCount, cfg.MaxDogsPerGroup)
		assert.LessOrEqual(t, sg.RadiusMeters, cfg.MaxGroupRadiusMeters)
		assert.False(t, sg.WindowStart.After(sg.WindowEnd), "window of %s is empty", sg.ID)
		if i > 0 {
			assert.GreaterOrEqual(t, res.Suggestions[i-1].Score, sg.Score)
		}

		dogs := 0
		for _, id := range sg.MemberIDs {
			assert.False(t, seen[id], "%s appears in two suggestions", id)
			seen[id] = true

			c := byID[id]
			dogs += c.DogCount
			assert.LessOrEqual(t, Distance(sg.Centroid, c.Location), cfg.MaxGroupRadiusMeters+1e-6)
			assert.False(t, c.DesiredStart.Add(-half).After(sg.WindowStart))
			assert.False(t, c.DesiredStart.Add(half).Before(sg.WindowEnd))
			for _, dogID := range c.DogIDs {
				assert.True(t, IsDogGroupEligible(f.dogs[dogID]), "ineligible dog %s grouped", dogID)
			}
		}
		assert.Equal(t, sg.DogCount, dogs)
	}

	for _, u := range res.Ungroupable {
		assert.False(t, seen[u.CandidateID], "%s is both grouped and ungroupable", u.CandidateID)
		seen[u.CandidateID] = true
	}
	assert.Len(t, seen, len(pool), "every candidate is accounted for exactly once")
}

func TestFormIsIdempotent(t *testing.T) {
	f := newFixture()
	pool := randomPool(f, rand.New(rand.NewPCG(3, 5)), 120)
	e := newTestEngine(t, testConfig())

	first := e.Form(context.Background(), pool, f.dogs)
	second := e.Form(context.Background(), pool, f.dogs)
	assert.Equal(t, first, second)

	shuffled := append([]models.BookingCandidate(nil), pool...)
	rand.New(rand.NewPCG(9, 9)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	third := e.Form(context.Background(), shuffled, f.dogs)
	assert.Equal(t, first.Suggestions, third.Suggestions)
}

func TestSuggestionIDIgnoresMemberOrder(t *testing.T) {
	assert.Equal(t, suggestionID([]string{"a", "b"}), suggestionID([]string{"b", "a"}))
	assert.NotEqual(t, suggestionID([]string{"a", "b"}), suggestionID([]string{"a", "c"}))
}
