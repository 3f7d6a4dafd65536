package exam

import (
	"context"
	"math/rand"
	"sync"
)

type Phase string

const (
	PhaseLevelSelect Phase = "level-selection"
	PhaseQuestion    Phase = "question"
	PhaseFinished    Phase = "finished"
)

type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// View is what the presentation layer renders: an explicit tagged state
// instead of a bundle of optional fields.
type View struct {
	Phase         Phase         `json:"phase"`
	Question      *Question     `json:"question,omitempty"`
	Levels        map[Level]int `json:"levels,omitempty"` // remaining per level, level-selection only
	Progress      Progress      `json:"progress"`
	TimeRemaining int           `json:"timeRemaining"`
	ShowTimer     bool          `json:"showTimer"`
	SelectedLevel *Level        `json:"selectedLevel,omitempty"`
}

// Flow drives one student's attempt at a test: which question is shown,
// how level selection interacts with sequencing, and how the countdown
// is tracked. Every mutation is persisted before it returns. All
// methods are serialized by the mutex, so a timer tick can never
// interleave mid-step with a user transition.
type Flow struct {
	mu    sync.Mutex
	store *Store
	test  Test

	sess      Session
	questions []Question // test questions in session (possibly shuffled) order
	phase     Phase
	current   *Question
	timeUp    bool // one-shot latch for the "time is up" notification
}

// StartOrResume reconstructs a persisted session when one exists for
// this test, and otherwise starts a fresh one. A stored session
// belonging to a different test is irrelevant to the new attempt and is
// overwritten. Resume restores time, answered questions, selected level
// and question order from the record, so a reload grants no extra time
// and replays no questions.
func StartOrResume(ctx context.Context, store *Store, test Test) (*Flow, error) {
	f := &Flow{store: store, test: test}

	prev, err := store.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if prev != nil && prev.TestID == test.ID {
		f.sess = *prev
		if f.sess.AnsweredQuestions == nil {
			f.sess.AnsweredQuestions = []string{}
		}
		f.questions = orderQuestions(test.Questions, f.sess.QuestionOrder)
		// Re-arm nothing: a session resumed at zero already fired its
		// notification before the reload.
		f.timeUp = f.sess.TimeRemaining <= 0
	} else {
		initial := test.TotalTime * 60
		f.questions = sessionOrder(test)
		f.sess = Session{
			TestID:            test.ID,
			StartTime:         Now(),
			QuestionStartTime: Now(),
			TimeRemaining:     initial,
			ShowTimer:         initial <= ShowTimerThreshold,
			AnsweredQuestions: []string{},
			QuestionOrder:     questionIDs(f.questions),
		}
		if err := store.SaveSession(ctx, f.sess); err != nil {
			return nil, err
		}
	}

	f.enterNext()
	return f, nil
}

// sessionOrder applies the one-time shuffle. The permutation is
// persisted on the session afterwards and never re-derived, so a reload
// cannot silently reorder the remaining questions.
func sessionOrder(t Test) []Question {
	out := make([]Question, len(t.Questions))
	copy(out, t.Questions)
	if t.Shuffle {
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

// orderQuestions replays a persisted permutation against the current
// question list. Questions the instructor has since removed drop out;
// ones added since the session started go to the back.
func orderQuestions(questions []Question, order []string) []Question {
	byID := map[string]Question{}
	for _, q := range questions {
		byID[q.ID] = q
	}
	out := make([]Question, 0, len(questions))
	for _, id := range order {
		if q, ok := byID[id]; ok {
			out = append(out, q)
			delete(byID, id)
		}
	}
	for _, q := range questions {
		if _, ok := byID[q.ID]; ok {
			out = append(out, q)
		}
	}
	return out
}

func questionIDs(qs []Question) []string {
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ids
}

// enterNext computes the state after a (re)start, a level choice or an
// advance. Caller holds the lock or is the constructor.
func (f *Flow) enterNext() {
	if f.sess.IsComplete {
		f.phase = PhaseFinished
		f.current = nil
		return
	}
	if f.test.Mode == ModeLevelBased && f.test.AllowStudentLevelChoice && f.sess.SelectedLevel == nil {
		f.phase = PhaseLevelSelect
		f.current = nil
		return
	}
	q := NextQuestion(f.questions, f.sess.SelectedLevel, f.sess.AnsweredQuestions)
	if q == nil {
		f.phase = PhaseFinished
		f.current = nil
		return
	}
	f.phase = PhaseQuestion
	f.current = q
}

// ChooseLevel sets the level for the current round. Only valid while
// the level-selection screen is showing.
func (f *Flow) ChooseLevel(ctx context.Context, level Level) (View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhaseLevelSelect {
		return f.view(), ErrWrongPhase
	}
	if !level.Valid() {
		return f.view(), ErrBadLevel
	}

	lvl := level
	f.sess.SelectedLevel = &lvl
	f.enterNext()
	f.finishIfExhausted()
	if err := f.store.SaveSession(ctx, f.sess); err != nil {
		return f.view(), err
	}
	return f.view(), nil
}

// Advance records the current question as answered and moves on. With
// per-question level choice the student re-chooses every round, so the
// selected level is cleared rather than reused. Advancing twice on the
// same question (a double click) appends its ID only once.
func (f *Flow) Advance(ctx context.Context) (View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhaseQuestion || f.current == nil {
		return f.view(), ErrWrongPhase
	}

	if !f.sess.answered(f.current.ID) {
		f.sess.AnsweredQuestions = append(f.sess.AnsweredQuestions, f.current.ID)
	}
	f.sess.CurrentQuestionIndex = len(f.sess.AnsweredQuestions)
	f.sess.QuestionStartTime = Now()
	if f.test.Mode == ModeLevelBased && f.test.AllowStudentLevelChoice {
		f.sess.SelectedLevel = nil
	}

	f.enterNext()
	f.finishIfExhausted()
	if err := f.store.SaveSession(ctx, f.sess); err != nil {
		return f.view(), err
	}
	return f.view(), nil
}

// finishIfExhausted marks the session complete when no question can
// follow. In choose-per-round mode the round screen keeps showing until
// every level is empty.
func (f *Flow) finishIfExhausted() {
	switch f.phase {
	case PhaseFinished:
		f.sess.IsComplete = true
	case PhaseLevelSelect:
		if NextQuestion(f.questions, nil, f.sess.AnsweredQuestions) == nil {
			f.phase = PhaseFinished
			f.current = nil
			f.sess.IsComplete = true
		}
	}
}

// Exit destroys the session. Only an explicit exit allows restarting.
// The flow is marked complete so a timer tick already in flight when
// the student exits cannot write the cleared record back.
func (f *Flow) Exit(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = PhaseFinished
	f.current = nil
	f.sess.IsComplete = true
	return f.store.ClearSession(ctx)
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view()
}

func (f *Flow) view() View {
	v := View{
		Phase:         f.phase,
		Question:      f.current,
		TimeRemaining: f.sess.TimeRemaining,
		ShowTimer:     f.sess.ShowTimer,
		SelectedLevel: f.sess.SelectedLevel,
		Progress: Progress{
			Answered: len(f.sess.AnsweredQuestions),
			Total:    len(f.test.Questions),
		},
	}
	if f.phase == PhaseLevelSelect {
		v.Levels = LevelCounts(f.questions, f.sess.AnsweredQuestions)
	}
	return v
}

// Session returns a copy of the persisted session state.
func (f *Flow) Session() Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess
}
