package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Session transition actions.
const (
	ActionLogin          = "session.login"
	ActionLogout         = "session.logout"
	ActionForbiddenExit  = "session.forbidden_exit"
	ActionStaleWipe      = "session.stale_wipe"
	ActionPasswordChange = "user.change_password"
	ActionPasswordReset  = "user.reset_password"
	ActionRoleUpdate     = "user.update_role"
	ActionUserCreate     = "user.create"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

type Event struct {
	At        string `json:"at"`
	RequestID string `json:"request_id,omitempty"`
	Client    string `json:"client,omitempty"`
	Actor     string `json:"actor,omitempty"`
	Role      string `json:"role,omitempty"`
	Action    string `json:"action"`
	Target    string `json:"target,omitempty"`
	Outcome   string `json:"outcome"`
	Detail    string `json:"detail,omitempty"`
}

// Logger appends one JSON line per event. An empty path disables it.
type Logger struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewLogger(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

func (l *Logger) Record(e Event) error {
	if l == nil || l.path == "" {
		return nil
	}
	if e.At == "" {
		e.At = l.now().UTC().Format(time.RFC3339)
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("mkdir audit log dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write audit log entry: %w", err)
	}
	return nil
}
