package formation

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pawpack/models"
	"pawpack/services/grouping"
)

// RunPass forms suggestions from every pending booking in [now, now+Horizon).
// Regions are formed independently and concurrently; the merged result is
// ranked, cached as the latest report and returned.
func (r *Runner) RunPass(ctx context.Context, now time.Time) (*models.FormationReport, error) {
	logger := r.logger()

	pool, err := r.Candidates.ListPending(ctx, now, now.Add(r.Horizon))
	if err != nil {
		return nil, fmt.Errorf("failed to load pending candidates: %w", err)
	}
	dogs, err := r.Candidates.GetDogs(ctx, uniqueDogIDs(pool))
	if err != nil {
		return nil, fmt.Errorf("failed to load dogs: %w", err)
	}

	passCtx := ctx
	if r.PassTimeout > 0 {
		var cancel context.CancelFunc
		passCtx, cancel = context.WithTimeout(ctx, r.PassTimeout)
		defer cancel()
	}

	keys, regions := partition(pool, r.RegionPrefix)
	results := make([]models.FormationResult, len(keys))

	g, gctx := errgroup.WithContext(passCtx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, key := range keys {
		g.Go(func() error {
			results[i] = r.Engine.Form(gctx, regions[key], dogs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := models.FormationReport{
		PassID:      uuid.New().String(),
		GeneratedAt: now,
		Regions:     len(keys),
		Candidates:  len(pool),
		Suggestions: []models.GroupSuggestion{},
		Ungroupable: []models.UngroupableCandidate{},
	}
	for _, res := range results {
		report.Suggestions = append(report.Suggestions, res.Suggestions...)
		report.Ungroupable = append(report.Ungroupable, res.Ungroupable...)
		report.Truncated = report.Truncated || res.Truncated
	}
	grouping.RankSuggestions(report.Suggestions)

	r.mu.Lock()
	err = r.Cache.Store(ctx, report)
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to cache formation report: %w", err)
	}

	logger.Info("formation pass complete",
		zap.String("passId", report.PassID),
		zap.Int("candidates", report.Candidates),
		zap.Int("regions", report.Regions),
		zap.Int("suggestions", len(report.Suggestions)),
		zap.Int("ungroupable", len(report.Ungroupable)),
		zap.Bool("truncated", report.Truncated),
	)
	return &report, nil
}

func (r *Runner) Latest(ctx context.Context) (*models.FormationReport, error) {
	return r.Cache.Load(ctx)
}

func (r *Runner) Suggestion(ctx context.Context, id string) (*models.GroupSuggestion, error) {
	report, err := r.Cache.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(report.Suggestions, id); i >= 0 {
		return &report.Suggestions[i], nil
	}
	return nil, ErrSuggestionNotFound
}

// Accept turns a cached suggestion into a slot and drops it from the cached
// report so it cannot be accepted twice. Member bookings are claimed for the
// new slot before it is created; if any of them is no longer pending the
// claims are released, the suggestion is dropped and ErrSuggestionStale is
// returned.
func (r *Runner) Accept(ctx context.Context, id, walkerID string, capacity int) (*models.GroupWalkSlot, error) {
	logger := r.logger()
	r.mu.Lock()
	defer r.mu.Unlock()

	report, err := r.Cache.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(report.Suggestions, id)
	if i < 0 {
		return nil, ErrSuggestionNotFound
	}
	sg := report.Suggestions[i]
	slotID := uuid.New().String()

	marked, err := r.Candidates.MarkGrouped(ctx, sg.MemberIDs, slotID)
	if err != nil {
		r.release(ctx, sg.MemberIDs, slotID)
		return nil, fmt.Errorf("failed to claim bookings for suggestion %s: %w", id, err)
	}
	if int(marked) != len(sg.MemberIDs) {
		r.release(ctx, sg.MemberIDs, slotID)
		logger.Warn("suggestion is stale, some bookings are no longer pending",
			zap.String("suggestionId", id),
			zap.Int64("pending", marked),
			zap.Int("members", len(sg.MemberIDs)),
		)
		r.drop(ctx, report, i)
		return nil, fmt.Errorf("%w: %d of %d bookings still pending", ErrSuggestionStale, marked, len(sg.MemberIDs))
	}

	slot, err := r.Slots.CreateFromSuggestion(ctx, slotID, sg, walkerID, capacity)
	if err != nil {
		r.release(ctx, sg.MemberIDs, slotID)
		return nil, err
	}
	r.drop(ctx, report, i)

	logger.Info("suggestion accepted",
		zap.String("suggestionId", id),
		zap.String("slotId", slot.ID),
		zap.String("walkerId", walkerID),
	)
	return slot, nil
}

// release returns bookings claimed for slotID to the pending pool.
func (r *Runner) release(ctx context.Context, ids []string, slotID string) {
	if _, err := r.Candidates.ReleaseGrouped(context.WithoutCancel(ctx), ids, slotID); err != nil {
		r.logger().Error("failed to release claimed bookings", zap.String("slotId", slotID), zap.Error(err))
	}
}

// drop removes suggestion i from report and stores the result. Callers hold mu.
func (r *Runner) drop(ctx context.Context, report *models.FormationReport, i int) {
	id := report.Suggestions[i].ID
	report.Suggestions = append(report.Suggestions[:i], report.Suggestions[i+1:]...)
	if err := r.Cache.Store(ctx, *report); err != nil {
		r.logger().Error("failed to drop suggestion from cache", zap.String("suggestionId", id), zap.Error(err))
	}
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// partition splits pool into regions keyed by the first prefix characters of
// the postal code. Keys are returned sorted.
func partition(pool []models.BookingCandidate, prefix int) ([]string, map[string][]models.BookingCandidate) {
	regions := make(map[string][]models.BookingCandidate)
	for _, c := range pool {
		key := ""
		if prefix > 0 {
			key = c.PostalCode
			if len(key) > prefix {
				key = key[:prefix]
			}
		}
		regions[key] = append(regions[key], c)
	}

	keys := make([]string, 0, len(regions))
	for k := range regions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, regions
}

func uniqueDogIDs(pool []models.BookingCandidate) []string {
	seen := make(map[string]struct{})
	ids := []string{}
	for _, c := range pool {
		for _, id := range c.DogIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

func indexOf(suggestions []models.GroupSuggestion, id string) int {
	for i := range suggestions {
		if suggestions[i].ID == id {
			return i
		}
	}
	return -1
}
