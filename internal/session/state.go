package session

import (
	"errors"
	"time"

	"github.com/quizbuzz/buzzer-backend/internal/protocol"
	"github.com/quizbuzz/buzzer-backend/internal/registry"
)

var ErrLocked = errors.New("buzzers are locked")
var ErrAlreadyBuzzed = errors.New("team already buzzed")
var ErrDuplicateName = errors.New("team name already in use")
var ErrNotBuzzer = errors.New("connection is not a registered buzzer")
var ErrNotAdmin = errors.New("connection is not a registered admin")
var ErrUnknownCommand = errors.New("unknown admin command")

// State is the shared session state: the gate flag and the ordered log of
// accepted buzzes since the last clearing event. The session starts locked.
type State struct {
	Locked  bool
	BuzzLog []protocol.BuzzEntry
}

func NewState() State {
	return State{Locked: true}
}

// buzz records one buzz for rec at now. Preconditions are checked before any
// mutation so a rejection leaves both the state and the record untouched.
func (st *State) buzz(rec *registry.Record, now time.Time) error {
	if rec == nil || rec.Role != registry.RoleBuzzer {
		return ErrNotBuzzer
	}
	if st.Locked {
		return ErrLocked
	}
	if rec.HasBuzzed {
		return ErrAlreadyBuzzed
	}

	rec.HasBuzzed = true
	rec.BuzzTime = &now
	st.BuzzLog = append(st.BuzzLog, protocol.BuzzEntry{
		TeamName: rec.TeamName,
		BuzzTime: now.Format(time.RFC3339Nano),
		Order:    len(st.BuzzLog) + 1,
	})
	return nil
}

// clear empties the buzz log and re-arms every buzzer. The lock flag is
// deliberately left alone: reset clears mistaken buzzes without reopening
// the gate, and lock sets the flag itself before calling this.
func (st *State) clear(buzzers []*registry.Record) {
	for _, rec := range buzzers {
		rec.HasBuzzed = false
		rec.BuzzTime = nil
	}
	st.BuzzLog = nil
}
