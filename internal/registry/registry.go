package registry

import (
	"time"

	"github.com/quizbuzz/buzzer-backend/internal/protocol"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleBuzzer Role = "buzzer"
)

// Record is the per-connection metadata held by the registry. Role and
// TeamName are fixed at registration; the buzz fields are cleared on reset.
type Record struct {
	ID          string
	Role        Role
	TeamName    string // buzzer connections only
	HasBuzzed   bool
	BuzzTime    *time.Time
	ConnectedAt time.Time
	Outbox      chan protocol.Outbound
}

// Registry maps connection IDs to records. It performs no I/O and enforces
// no policy; name uniqueness is the session's business. It is owned by the
// session goroutine and must not be shared without that serialization.
type Registry struct {
	conns map[string]*Record
}

func New() *Registry {
	return &Registry{conns: make(map[string]*Record)}
}

// Register inserts or overwrites the record for rec.ID.
func (r *Registry) Register(rec *Record) {
	r.conns[rec.ID] = rec
}

func (r *Registry) Lookup(id string) (*Record, bool) {
	rec, ok := r.conns[id]
	return rec, ok
}

// Remove deletes and returns the record for id, if any.
func (r *Registry) Remove(id string) (*Record, bool) {
	rec, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
	}
	return rec, ok
}

// All returns a copy of the current record set, safe to iterate while the
// owner mutates the registry between passes.
func (r *Registry) All() []*Record {
	out := make([]*Record, 0, len(r.conns))
	for _, rec := range r.conns {
		out = append(out, rec)
	}
	return out
}

// Buzzers returns the currently-registered buzzer records.
func (r *Registry) Buzzers() []*Record {
	out := make([]*Record, 0, len(r.conns))
	for _, rec := range r.conns {
		if rec.Role == RoleBuzzer {
			out = append(out, rec)
		}
	}
	return out
}

func (r *Registry) CountBuzzers() int {
	n := 0
	for _, rec := range r.conns {
		if rec.Role == RoleBuzzer {
			n++
		}
	}
	return n
}

// NameTaken reports whether a currently-registered buzzer other than
// exceptID holds name, so a connection re-registering under its own name is
// not counted against itself. Names freed by disconnect are reusable.
func (r *Registry) NameTaken(name, exceptID string) bool {
	for _, rec := range r.conns {
		if rec.Role == RoleBuzzer && rec.TeamName == name && rec.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *Registry) Len() int { return len(r.conns) }
