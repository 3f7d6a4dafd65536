package exam

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muntlig-app/muntlig/internal/kv"
)

// The two persisted records. Both are rewritten wholesale on every
// mutation; last-write-wins is fine in a single-attempt model.
const (
	keyTests   = "oral_exam_tests"
	keySession = "oral_exam_session"
)

// Store persists the test collection and the single active session in
// an opaque key-value record store.
type Store struct {
	kv kv.Store
}

func NewStore(s kv.Store) *Store { return &Store{kv: s} }

func (s *Store) GetTests(ctx context.Context) ([]Test, error) {
	raw, err := s.kv.Get(ctx, keyTests)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []Test{}, nil
	}
	var tests []Test
	if err := json.Unmarshal(raw, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// SaveTest inserts or fully replaces by ID. There are no partial-field
// updates; the editor always submits the whole test.
func (s *Store) SaveTest(ctx context.Context, t Test) error {
	tests, err := s.GetTests(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range tests {
		if tests[i].ID == t.ID {
			tests[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		tests = append(tests, t)
	}
	return s.writeTests(ctx, tests)
}

func (s *Store) DeleteTest(ctx context.Context, id string) error {
	tests, err := s.GetTests(ctx)
	if err != nil {
		return err
	}
	out := tests[:0]
	for _, t := range tests {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return s.writeTests(ctx, out)
}

func (s *Store) GetTestByCode(ctx context.Context, code string) (Test, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	tests, err := s.GetTests(ctx)
	if err != nil {
		return Test{}, err
	}
	for _, t := range tests {
		if t.Code == code {
			return t, nil
		}
	}
	return Test{}, ErrNotFound
}

func (s *Store) writeTests(ctx context.Context, tests []Test) error {
	raw, err := json.Marshal(tests)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keyTests, raw)
}

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateCode returns a fresh 6-character base-36 code, regenerated on
// collision against existing codes until unique. Not cryptographically
// secure; fine for a classroom-scale, non-adversarial setting.
func (s *Store) GenerateCode(ctx context.Context) (string, error) {
	tests, err := s.GetTests(ctx)
	if err != nil {
		return "", err
	}
	taken := map[string]bool{}
	for _, t := range tests {
		taken[t.Code] = true
	}
	for {
		code := randomCode(6)
		if !taken[code] {
			return code, nil
		}
	}
}

func randomCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

func NewID() string { return uuid.NewString() }

func Now() string { return time.Now().UTC().Format(time.RFC3339) }

// --- session record ---

// GetSession returns the active session or nil when none is stored.
func (s *Store) GetSession(ctx context.Context) (*Session, error) {
	raw, err := s.kv.Get(ctx, keySession)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) SaveSession(ctx context.Context, sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keySession, raw)
}

func (s *Store) ClearSession(ctx context.Context) error {
	return s.kv.Delete(ctx, keySession)
}
