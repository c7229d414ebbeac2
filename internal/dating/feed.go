// internal/dating/feed.go
// Ranking aggregator: turns filtered candidates into a scored feed

package dating

import "sort"

const (
	// feedLimit caps the number of rows a single feed request returns.
	feedLimit = 50

	// candidateCap bounds the storage-level candidate pool per request.
	candidateCap = 5000

	// Score weights. Tag overlap is a weak signal, vocabulary cosine a
	// medium one, and the bio embedding dot product the strongest.
	weightCommonTags = 0.1
	weightCosine     = 0.4
	weightEmbedding  = 0.5

	// priorityThreshold is the minimum score at which a candidate who
	// already liked the requester is promoted to the priority tier.
	priorityThreshold = 0.6
)

// RankCandidates scores the already-filtered candidates against the
// requester and returns at most feedLimit entries sorted by descending
// (priority, score). likedBy holds the ids of users with a pending LIKE
// on the requester. The sort is stable, so candidates that tie keep
// their input order.
func RankCandidates(requester *Profile, candidates []*Profile, likedBy map[int64]bool) []*FeedEntry {
	// Vocabulary is rebuilt per request from the requester plus the
	// surviving candidates, so every cosine in one response is computed
	// over the same axes.
	tagSets := make([][]string, 0, len(candidates)+1)
	tagSets = append(tagSets, requester.Tags)
	for _, c := range candidates {
		tagSets = append(tagSets, c.Tags)
	}
	vocab := BuildVocabulary(tagSets...)
	requesterVec := BuildTagVector(requester.Tags, vocab)

	entries := make([]*FeedEntry, 0, len(candidates))
	for _, c := range candidates {
		common := countCommonTags(requester.Tags, c.Tags)
		cosine := Cosine(requesterVec, BuildTagVector(c.Tags, vocab))

		emb := 0.0
		if len(requester.Embedding) > 0 && len(c.Embedding) > 0 {
			emb = Dot(requester.Embedding, c.Embedding)
		}

		score := weightCommonTags*float64(common) + weightCosine*cosine + weightEmbedding*emb

		priority := 0
		if likedBy[c.ID] && score >= priorityThreshold {
			priority = 1
		}

		entries = append(entries, &FeedEntry{
			User:     summarize(c),
			Score:    score,
			Common:   common,
			Cosine:   cosine,
			Emb:      emb,
			Priority: priority,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Score > entries[j].Score
	})

	if len(entries) > feedLimit {
		entries = entries[:feedLimit]
	}
	return entries
}
