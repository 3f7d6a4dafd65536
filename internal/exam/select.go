package exam

// NextQuestion picks the next unanswered question: filter out answered
// IDs, then by level when one is given, and return the first remaining
// in list order. nil means exhaustion, which callers treat as "round
// complete", never as an error. Deterministic given its inputs; the only
// randomness in the whole flow is the one-time shuffle and code
// generation.
func NextQuestion(questions []Question, level *Level, answered []string) *Question {
	seen := map[string]bool{}
	for _, id := range answered {
		seen[id] = true
	}
	for i := range questions {
		q := &questions[i]
		if seen[q.ID] {
			continue
		}
		if level != nil && (q.Level == nil || *q.Level != *level) {
			continue
		}
		return q
	}
	return nil
}

// LevelCounts reports how many unanswered questions remain per level,
// shown on the level-selection screen.
func LevelCounts(questions []Question, answered []string) map[Level]int {
	seen := map[string]bool{}
	for _, id := range answered {
		seen[id] = true
	}
	counts := map[Level]int{}
	for _, q := range questions {
		if q.Level == nil || seen[q.ID] {
			continue
		}
		counts[*q.Level]++
	}
	return counts
}
