// internal/dating/filter.go
// In-memory candidate filters applied after the storage-level exclusions

package dating

// FilterCandidates applies the discovery filters in order: mutual gender
// interest, distance, age band. A filter whose requester-side attribute
// is unknown is skipped entirely; a candidate missing an attribute an
// active filter needs is excluded.
func FilterCandidates(requester *Profile, candidates []*Profile) []*Profile {
	out := make([]*Profile, 0, len(candidates))
	for _, c := range candidates {
		if !passesGenderFilter(requester, c) {
			continue
		}
		if !passesDistanceFilter(requester, c) {
			continue
		}
		if !passesAgeFilter(requester, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// passesGenderFilter enforces mutual interest: the candidate's gender
// must be one the requester declared, and the requester's gender one the
// candidate declared. Requester with no declared interests sees everyone.
func passesGenderFilter(requester, candidate *Profile) bool {
	if len(requester.InterestedIn) == 0 {
		return true
	}
	if !containsString(requester.InterestedIn, candidate.Gender) {
		return false
	}
	return containsString(candidate.InterestedIn, requester.Gender)
}

// passesDistanceFilter keeps candidates within the requester's radius.
func passesDistanceFilter(requester, candidate *Profile) bool {
	if requester.Latitude == nil || requester.Longitude == nil {
		return true
	}
	if candidate.Latitude == nil || candidate.Longitude == nil {
		return false
	}
	dist := Haversine(*requester.Latitude, *requester.Longitude, *candidate.Latitude, *candidate.Longitude)
	return dist <= requester.maxDistanceKm()
}

// passesAgeFilter keeps candidates inside the requester's age band,
// bounds inclusive.
func passesAgeFilter(requester, candidate *Profile) bool {
	if requester.Age == nil {
		return true
	}
	if candidate.Age == nil {
		return false
	}
	diff := *candidate.Age - *requester.Age
	if diff < 0 {
		diff = -diff
	}
	return diff <= requester.maxAgeDiffYears()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
