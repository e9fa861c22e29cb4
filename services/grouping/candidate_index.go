package grouping

import (
	"iter"
	"math"
	"time"

	"pawpack/models"
)

// minCosLat keeps longitude cells finite near the poles.
const minCosLat = 0.01

type cellKey struct {
	lat, lon, slot int64
}

// CandidateIndex buckets a candidate pool by a coarse spatial grid and by start
// time so proximity queries only touch nearby cells. Candidates are addressed
// by their index in the pool slice it was built from.
type CandidateIndex struct {
	pool    []models.BookingCandidate
	cells   map[cellKey][]int
	latStep float64 // degrees
	lonStep float64 // degrees at the pool's reference latitude
	bucket  time.Duration
}

// NewCandidateIndex indexes pool using square cells of roughly cellMeters and
// time buckets of width bucket.
func NewCandidateIndex(pool []models.BookingCandidate, cellMeters float64, bucket time.Duration) *CandidateIndex {
	if cellMeters <= 0 {
		cellMeters = 1000
	}
	if bucket <= 0 {
		bucket = time.Hour
	}

	var refLat float64
	for _, c := range pool {
		refLat += c.Location.Lat
	}
	if len(pool) > 0 {
		refLat /= float64(len(pool))
	}

	ix := &CandidateIndex{
		pool:    pool,
		cells:   make(map[cellKey][]int, len(pool)),
		latStep: cellMeters / metersPerDegreeLat,
		lonStep: cellMeters / (metersPerDegreeLat * clampCos(refLat)),
		bucket:  bucket,
	}
	for i, c := range pool {
		key := cellKey{
			lat:  ix.latCell(c.Location.Lat),
			lon:  ix.lonCell(c.Location.Lon),
			slot: ix.timeCell(c.DesiredStart),
		}
		ix.cells[key] = append(ix.cells[key], i)
	}
	return ix
}

// Len returns the number of indexed candidates.
func (ix *CandidateIndex) Len() int {
	return len(ix.pool)
}

// Nearby yields the other pool members within radiusMeters of the seed whose
// desired start lies within window of the seed's start. The sequence is lazy
// and walks cells in a fixed order, so two passes over the same index agree.
func (ix *CandidateIndex) Nearby(seed int, radiusMeters float64, window time.Duration) iter.Seq2[int, models.BookingCandidate] {
	return func(yield func(int, models.BookingCandidate) bool) {
		if seed < 0 || seed >= len(ix.pool) {
			return
		}
		origin := ix.pool[seed]

		dLat := radiusMeters / metersPerDegreeLat
		dLon := radiusMeters / (metersPerDegreeLat * clampCos(origin.Location.Lat))
		latLo, latHi := ix.latCell(origin.Location.Lat-dLat), ix.latCell(origin.Location.Lat+dLat)
		lonLo, lonHi := ix.lonCell(origin.Location.Lon-dLon), ix.lonCell(origin.Location.Lon+dLon)
		tLo, tHi := ix.timeCell(origin.DesiredStart.Add(-window)), ix.timeCell(origin.DesiredStart.Add(window))

		for la := latLo; la <= latHi; la++ {
			for lo := lonLo; lo <= lonHi; lo++ {
				for t := tLo; t <= tHi; t++ {
					for _, i := range ix.cells[cellKey{lat: la, lon: lo, slot: t}] {
						if i == seed {
							continue
						}
						c := ix.pool[i]
						if absDuration(c.DesiredStart.Sub(origin.DesiredStart)) > window {
							continue
						}
						if Distance(origin.Location, c.Location) > radiusMeters {
							continue
						}
						if !yield(i, c) {
							return
						}
					}
				}
			}
		}
	}
}

func (ix *CandidateIndex) latCell(lat float64) int64 {
	return int64(math.Floor(lat / ix.latStep))
}

func (ix *CandidateIndex) lonCell(lon float64) int64 {
	return int64(math.Floor(lon / ix.lonStep))
}

func (ix *CandidateIndex) timeCell(t time.Time) int64 {
	return int64(math.Floor(float64(t.UnixNano()) / float64(ix.bucket)))
}

func clampCos(lat float64) float64 {
	c := math.Cos(toRadians(lat))
	if c < minCosLat {
		return minCosLat
	}
	return c
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// consumedSet marks arena indices already placed in a cluster during a pass.
type consumedSet []uint64

func newConsumedSet(n int) consumedSet {
	return make(consumedSet, (n+63)/64)
}

func (s consumedSet) add(i int) {
	s[i/64] |= 1 << (uint(i) % 64)
}

func (s consumedSet) has(i int) bool {
	return s[i/64]&(1<<(uint(i)%64)) != 0
}
