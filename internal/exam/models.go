package exam

// Wire format matches the persisted JSON records: camelCase keys,
// level/mode as short strings.

type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

var Levels = []Level{LevelEasy, LevelMedium, LevelHard}

func (l Level) Valid() bool {
	return l == LevelEasy || l == LevelMedium || l == LevelHard
}

type Mode string

const (
	ModeFlat       Mode = "flat"
	ModeLevelBased Mode = "level-based"
)

type Question struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level *Level `json:"level,omitempty"` // set iff the owning test is level-based
}

type Test struct {
	ID      string `json:"id"`
	Code    string `json:"code"` // short human-enterable, unique across the collection
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Mode    Mode   `json:"mode"`
	Shuffle bool   `json:"shuffle"`
	// Whole-test time budget in minutes, 5-120.
	TotalTime               int        `json:"totalTime"`
	AllowStudentLevelChoice bool       `json:"allowStudentLevelChoice"`
	Questions               []Question `json:"questions"`
	CreatedAt               string     `json:"createdAt"`
}

// Session is the single active attempt. At most one exists at a time;
// it is rewritten wholesale on every mutation.
type Session struct {
	TestID               string   `json:"testId"`
	CurrentQuestionIndex int      `json:"currentQuestionIndex"`
	StartTime            string   `json:"startTime"`
	QuestionStartTime    string   `json:"questionStartTime"`
	TimeRemaining        int      `json:"timeRemaining"` // seconds
	ShowTimer            bool     `json:"showTimer"`
	IsComplete           bool     `json:"isComplete"`
	SelectedLevel        *Level   `json:"selectedLevel,omitempty"`
	AnsweredQuestions    []string `json:"answeredQuestions"`
	// QuestionOrder pins the one-time shuffle so a reload cannot reorder
	// the remaining questions mid-session.
	QuestionOrder []string `json:"questionOrder"`
}

func (s *Session) answered(id string) bool {
	for _, a := range s.AnsweredQuestions {
		if a == id {
			return true
		}
	}
	return false
}
