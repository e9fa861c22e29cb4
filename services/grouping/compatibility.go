package grouping

import "pawpack/models"

// IsDogGroupEligible reports whether a dog may take part in any group walk.
func IsDogGroupEligible(d models.Dog) bool {
	return d.Vaccinated && d.FriendlyWithDogs
}

// AreDogSetsCompatible reports whether two dog sets may share a walk.
// Eligibility is a global gate, so this holds iff every dog in the union is eligible.
// A per-pair compatibility graph would plug in here.
func AreDogSetsCompatible(a, b []models.Dog) bool {
	for _, d := range a {
		if !IsDogGroupEligible(d) {
			return false
		}
	}
	for _, d := range b {
		if !IsDogGroupEligible(d) {
			return false
		}
	}
	return true
}

// ResolveDogs looks up dog records by id. Ids missing from the directory are
// returned separately; callers treat them as ineligible.
func ResolveDogs(ids []string, directory map[string]models.Dog) (found []models.Dog, missing []string) {
	found = make([]models.Dog, 0, len(ids))
	for _, id := range ids {
		d, ok := directory[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		found = append(found, d)
	}
	return found, missing
}

// firstIneligible returns the id of the first ineligible dog, or "".
func firstIneligible(dogs []models.Dog) string {
	for _, d := range dogs {
		if !IsDogGroupEligible(d) {
			return d.ID
		}
	}
	return ""
}
