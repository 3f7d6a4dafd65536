package exam

import "strings"

const (
	MinTotalTime = 5   // minutes
	MaxTotalTime = 120 // minutes
)

// Normalize validates and canonicalizes an instructor-submitted test
// before it is persisted. Questions with blank text are dropped first,
// the way the editor did; a test never reaches the store with zero
// non-empty questions. Returns a *ValidationError on rejection.
func Normalize(t *Test) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Subject = strings.TrimSpace(t.Subject)
	t.Code = strings.ToUpper(strings.TrimSpace(t.Code))

	if t.Name == "" {
		return &ValidationError{Reason: "name is required"}
	}
	if t.Subject == "" {
		return &ValidationError{Reason: "subject is required"}
	}
	if t.Mode != ModeFlat && t.Mode != ModeLevelBased {
		return &ValidationError{Reason: "mode must be flat or level-based"}
	}

	kept := t.Questions[:0]
	for _, q := range t.Questions {
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			continue
		}
		switch t.Mode {
		case ModeFlat:
			q.Level = nil
		case ModeLevelBased:
			// The editor defaults new questions to easy.
			if q.Level == nil || !q.Level.Valid() {
				lvl := LevelEasy
				q.Level = &lvl
			}
		}
		kept = append(kept, q)
	}
	t.Questions = kept
	if len(t.Questions) == 0 {
		return &ValidationError{Reason: "at least one question is required"}
	}

	if t.TotalTime < MinTotalTime {
		t.TotalTime = MinTotalTime
	}
	if t.TotalTime > MaxTotalTime {
		t.TotalTime = MaxTotalTime
	}

	// Student level choice only means something in level-based mode.
	if t.Mode == ModeFlat {
		t.AllowStudentLevelChoice = false
	}
	return nil
}
