package grouping

import (
	"fmt"
	"math"
	"time"

	"pawpack/models"
)

var (
	base   = models.Coordinate{Lat: 52.5200, Lon: 13.4050}
	monday = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
)

// offset moves c by the given metres north and east.
func offset(c models.Coordinate, northMeters, eastMeters float64) models.Coordinate {
	return models.Coordinate{
		Lat: c.Lat + northMeters/metersPerDegreeLat,
		Lon: c.Lon + eastMeters/(metersPerDegreeLat*math.Cos(toRadians(c.Lat))),
	}
}

type fixture struct {
	dogs map[string]models.Dog
}

func newFixture() *fixture {
	return &fixture{dogs: map[string]models.Dog{}}
}

// candidate registers dogCount eligible dogs and returns a valid candidate.
func (f *fixture) candidate(id string, at models.Coordinate, start time.Time, dogCount int) models.BookingCandidate {
	ids := make([]string, dogCount)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-dog%d", id, i+1)
		f.dogs[ids[i]] = models.Dog{
			ID:                 ids[i],
			OwnerID:            "owner-" + id,
			Vaccinated:         true,
			FriendlyWithDogs:   true,
			FriendlyWithPeople: true,
		}
	}
	return models.BookingCandidate{
		ID:              id,
		CustomerID:      "cust-" + id,
		AddressID:       "addr-" + id,
		Location:        at,
		DesiredStart:    start,
		DurationMinutes: 60,
		DogIDs:          ids,
		DogCount:        dogCount,
		PostalCode:      "10115",
	}
}

// unvaccinate marks the first dog of c as not vaccinated.
func (f *fixture) unvaccinate(c models.BookingCandidate) {
	d := f.dogs[c.DogIDs[0]]
	d.Vaccinated = false
	f.dogs[d.ID] = d
}

func eligibleDogs(n int) []models.Dog {
	dogs := make([]models.Dog, n)
	for i := range dogs {
		dogs[i] = models.Dog{ID: fmt.Sprintf("joiner-dog%d", i+1), Vaccinated: true, FriendlyWithDogs: true}
	}
	return dogs
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxDogsPerGroup = 6
	cfg.MaxGroupRadiusMeters = 2000
	cfg.TimeWindowMinutes = 30
	return cfg
}
