package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pawpack/models"
)

func TestIsDogGroupEligible(t *testing.T) {
	assert.True(t, IsDogGroupEligible(models.Dog{Vaccinated: true, FriendlyWithDogs: true}))
	assert.True(t, IsDogGroupEligible(models.Dog{Vaccinated: true, FriendlyWithDogs: true, FriendlyWithPeople: false}))
	assert.False(t, IsDogGroupEligible(models.Dog{Vaccinated: false, FriendlyWithDogs: true}))
	assert.False(t, IsDogGroupEligible(models.Dog{Vaccinated: true, FriendlyWithDogs: false}))
}

func TestAreDogSetsCompatible(t *testing.T) {
	good := eligibleDogs(2)
	bad := models.Dog{ID: "rex", Vaccinated: true}

	assert.True(t, AreDogSetsCompatible(good, good))
	assert.True(t, AreDogSetsCompatible(nil, good))
	assert.False(t, AreDogSetsCompatible(good, []models.Dog{bad}))
	assert.False(t, AreDogSetsCompatible([]models.Dog{bad}, nil))
}

func TestResolveDogs(t *testing.T) {
	dir := map[string]models.Dog{"a": {ID: "a"}, "b": {ID: "b"}}
	found, missing := ResolveDogs([]string{"a", "x", "b"}, dir)
	assert.Len(t, found, 2)
	assert.Equal(t, []string{"x"}, missing)
}
