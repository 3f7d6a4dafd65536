package exam_test

import (
	"testing"

	"github.com/muntlig-app/muntlig/internal/exam"
)

func lvl(l exam.Level) *exam.Level { return &l }

func q(id, text string, level *exam.Level) exam.Question {
	return exam.Question{ID: id, Text: text, Level: level}
}

func TestNextQuestion_SkipsAnswered(t *testing.T) {
	qs := []exam.Question{q("a", "A?", nil), q("b", "B?", nil), q("c", "C?", nil)}

	got := exam.NextQuestion(qs, nil, nil)
	if got == nil || got.ID != "a" {
		t.Fatalf("expected first question a, got %+v", got)
	}
	got = exam.NextQuestion(qs, nil, []string{"a"})
	if got == nil || got.ID != "b" {
		t.Fatalf("expected b after answering a, got %+v", got)
	}
	got = exam.NextQuestion(qs, nil, []string{"a", "b", "c"})
	if got != nil {
		t.Fatalf("expected exhaustion, got %+v", got)
	}
}

func TestNextQuestion_LevelFilter(t *testing.T) {
	qs := []exam.Question{
		q("e1", "easy 1", lvl(exam.LevelEasy)),
		q("m1", "medium 1", lvl(exam.LevelMedium)),
		q("e2", "easy 2", lvl(exam.LevelEasy)),
	}

	got := exam.NextQuestion(qs, lvl(exam.LevelMedium), nil)
	if got == nil || got.ID != "m1" {
		t.Fatalf("expected m1, got %+v", got)
	}
	got = exam.NextQuestion(qs, lvl(exam.LevelEasy), []string{"e1"})
	if got == nil || got.ID != "e2" {
		t.Fatalf("expected e2, got %+v", got)
	}
	// Level exhausted: round complete, not an error.
	got = exam.NextQuestion(qs, lvl(exam.LevelHard), nil)
	if got != nil {
		t.Fatalf("expected nil for exhausted level, got %+v", got)
	}
}

func TestNextQuestion_Deterministic(t *testing.T) {
	qs := []exam.Question{q("a", "A?", nil), q("b", "B?", nil)}
	for i := 0; i < 10; i++ {
		got := exam.NextQuestion(qs, nil, []string{"a"})
		if got == nil || got.ID != "b" {
			t.Fatalf("call %d: expected b, got %+v", i, got)
		}
	}
}

func TestLevelCounts(t *testing.T) {
	qs := []exam.Question{
		q("e1", "easy 1", lvl(exam.LevelEasy)),
		q("e2", "easy 2", lvl(exam.LevelEasy)),
		q("m1", "medium 1", lvl(exam.LevelMedium)),
	}
	counts := exam.LevelCounts(qs, []string{"e1"})
	if counts[exam.LevelEasy] != 1 || counts[exam.LevelMedium] != 1 || counts[exam.LevelHard] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
