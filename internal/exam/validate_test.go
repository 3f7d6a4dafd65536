package exam_test

import (
	"errors"
	"testing"

	"github.com/muntlig-app/muntlig/internal/exam"
)

func validTest() exam.Test {
	return exam.Test{
		Name:      "Muntlig matte",
		Subject:   "Matematikk",
		Mode:      exam.ModeFlat,
		TotalTime: 30,
		Questions: []exam.Question{{ID: "q1", Text: "Explain derivatives"}},
	}
}

func TestNormalize_RejectsMissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*exam.Test)
	}{
		{"blank name", func(tt *exam.Test) { tt.Name = "  " }},
		{"blank subject", func(tt *exam.Test) { tt.Subject = "" }},
		{"no questions", func(tt *exam.Test) { tt.Questions = nil }},
		{"only blank questions", func(tt *exam.Test) {
			tt.Questions = []exam.Question{{ID: "q1", Text: "   "}}
		}},
		{"bad mode", func(tt *exam.Test) { tt.Mode = "adaptive" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tt := validTest()
			tc.mutate(&tt)
			err := exam.Normalize(&tt)
			var verr *exam.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNormalize_FlatForcesNoLevelChoice(t *testing.T) {
	tt := validTest()
	tt.AllowStudentLevelChoice = true
	tt.Questions[0].Level = lvl(exam.LevelHard)
	if err := exam.Normalize(&tt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tt.AllowStudentLevelChoice {
		t.Fatalf("flat mode must force allowStudentLevelChoice=false")
	}
	if tt.Questions[0].Level != nil {
		t.Fatalf("flat mode must strip question levels")
	}
}

func TestNormalize_LevelBasedDefaultsLevel(t *testing.T) {
	tt := validTest()
	tt.Mode = exam.ModeLevelBased
	tt.Questions = []exam.Question{
		{ID: "q1", Text: "No level set"},
		{ID: "q2", Text: "Hard one", Level: lvl(exam.LevelHard)},
	}
	if err := exam.Normalize(&tt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tt.Questions[0].Level == nil || *tt.Questions[0].Level != exam.LevelEasy {
		t.Fatalf("missing level should default to easy, got %v", tt.Questions[0].Level)
	}
	if *tt.Questions[1].Level != exam.LevelHard {
		t.Fatalf("explicit level must be kept")
	}
}

func TestNormalize_DropsBlankQuestionsAndClampsTime(t *testing.T) {
	tt := validTest()
	tt.TotalTime = 500
	tt.Questions = append(tt.Questions, exam.Question{ID: "q2", Text: "  "})
	if err := exam.Normalize(&tt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tt.Questions) != 1 {
		t.Fatalf("blank question should be dropped, have %d", len(tt.Questions))
	}
	if tt.TotalTime != exam.MaxTotalTime {
		t.Fatalf("total time should clamp to %d, got %d", exam.MaxTotalTime, tt.TotalTime)
	}

	tt.TotalTime = 1
	if err := exam.Normalize(&tt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tt.TotalTime != exam.MinTotalTime {
		t.Fatalf("total time should clamp to %d, got %d", exam.MinTotalTime, tt.TotalTime)
	}
}

func TestNormalize_UppercasesCode(t *testing.T) {
	tt := validTest()
	tt.Code = " ab12cd "
	if err := exam.Normalize(&tt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tt.Code != "AB12CD" {
		t.Fatalf("expected normalized code AB12CD, got %q", tt.Code)
	}
}
