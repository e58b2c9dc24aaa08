package session

import (
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quizbuzz/buzzer-backend/internal/protocol"
	"github.com/quizbuzz/buzzer-backend/internal/registry"
)

// snapshotFor renders the role-specific view of the session. Admins see the
// full roster; buzzers see their own armed status. Everyone sees the full
// buzz log, not just their own entry.
func (s *Session) snapshotFor(rec *registry.Record) protocol.StateUpdate {
	log := make([]protocol.BuzzEntry, len(s.state.BuzzLog))
	copy(log, s.state.BuzzLog)

	snap := protocol.StateUpdate{
		Type:    protocol.TypeStateUpdate,
		Locked:  s.state.Locked,
		BuzzLog: log,
	}

	if rec.Role == registry.RoleAdmin {
		snap.Teams = s.teamStatuses()
	} else {
		hasBuzzed := rec.HasBuzzed
		snap.HasBuzzed = &hasBuzzed
	}
	return snap
}

// teamStatuses lists the connected buzzers in join order so admin rosters
// are stable across snapshots.
func (s *Session) teamStatuses() []protocol.TeamStatus {
	buzzers := s.reg.Buzzers()
	slices.SortFunc(buzzers, func(a, b *registry.Record) int {
		if c := a.ConnectedAt.Compare(b.ConnectedAt); c != 0 {
			return c
		}
		return strings.Compare(a.TeamName, b.TeamName)
	})

	teams := make([]protocol.TeamStatus, 0, len(buzzers))
	for _, rec := range buzzers {
		var buzzTime *string
		if rec.BuzzTime != nil {
			t := rec.BuzzTime.Format(time.RFC3339Nano)
			buzzTime = &t
		}
		teams = append(teams, protocol.TeamStatus{
			TeamName:  rec.TeamName,
			HasBuzzed: rec.HasBuzzed,
			BuzzTime:  buzzTime,
		})
	}
	return teams
}

// deliver sends one snapshot to rec. A full outbox means the peer has
// stopped draining; report failure instead of blocking the session.
func (s *Session) deliver(rec *registry.Record) bool {
	select {
	case rec.Outbox <- s.snapshotFor(rec):
		return true
	default:
		return false
	}
}

// reply sends a single frame (a rejection) to one connection only.
func (s *Session) reply(out chan<- protocol.Outbound, msg protocol.Outbound) {
	select {
	case out <- msg:
	default:
		// Peer is stalled; it will be dropped on the next broadcast anyway.
	}
}

// broadcast delivers a snapshot to every registered connection. Failures are
// collected during the pass and their disconnects processed after it
// completes, then the shrunken roster is broadcast again so remaining peers
// see the departures. Each retry strictly shrinks the registry, so this
// terminates.
func (s *Session) broadcast() {
	for {
		var failed []string
		for _, rec := range s.reg.All() {
			if !s.deliver(rec) {
				failed = append(failed, rec.ID)
			}
		}
		if len(failed) == 0 {
			return
		}
		for _, id := range failed {
			rec, ok := s.reg.Remove(id)
			if !ok {
				continue
			}
			close(rec.Outbox)
			s.dropped[id] = struct{}{}
			s.log.Warn("dropping unresponsive connection",
				zap.String("conn", id),
				zap.String("team", rec.TeamName))
		}
	}
}
