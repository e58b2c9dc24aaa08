package session

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/quizbuzz/buzzer-backend/internal/protocol"
	"github.com/quizbuzz/buzzer-backend/internal/registry"
)

type Msg interface{ isSessionMsg() }

// Register creates the connection's record. The outbox is where this
// connection wants to receive outbound frames.
type Register struct {
	ConnID   string
	IsAdmin  bool
	TeamName string
	Outbox   chan protocol.Outbound
}

func (Register) isSessionMsg() {}

type Buzz struct{ ConnID string }

func (Buzz) isSessionMsg() {}

type AdminCommand struct {
	ConnID  string
	Command string
}

func (AdminCommand) isSessionMsg() {}

type Disconnect struct{ ConnID string }

func (Disconnect) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// GetView is a test hook: it reflects internal state without data races.
type GetView struct {
	Reply chan View
}

func (GetView) isSessionMsg() {}

type View struct {
	Locked   bool
	BuzzLog  []protocol.BuzzEntry
	NumConns int
	Teams    []protocol.TeamStatus
}

// Session is the single coordinator of the shared buzzer state. One
// goroutine owns {State, Registry}; every transition and every snapshot
// render runs on it, so a broadcast triggered by transition N always
// reflects state as of exactly N.
type Session struct {
	inbox  chan Msg
	state  State
	reg    *registry.Registry
	clock  clockwork.Clock
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	// dropped holds connection IDs whose outbox was closed by a failed
	// broadcast. Frames from such a connection may still be in flight; a
	// re-register carrying the closed channel must be refused, or the next
	// snapshot send would panic. Entries are pruned by the connection's
	// terminal disconnect.
	dropped map[string]struct{}
}

func New(parent context.Context, clock clockwork.Clock, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		inbox:   make(chan Msg, 64),
		state:   NewState(),
		reg:     registry.New(),
		clock:   clock,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		dropped: make(map[string]struct{}),
	}

	go s.loop()
	return s
}

// Inbox exposes the message channel to the transport layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			if _, ok := m.(Shutdown); ok {
				s.shutdown()
				return
			}
			s.dispatch(m)
		}
	}
}

// dispatch applies one transition. A panic here means a bug, not a protocol
// violation; it is contained so one bad message cannot take the session down.
func (s *Session) dispatch(m Msg) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("recovered from fault during transition", zap.Any("panic", r))
		}
	}()

	switch msg := m.(type) {
	case Register:
		s.register(msg)
	case Buzz:
		s.handleBuzz(msg.ConnID)
	case AdminCommand:
		s.handleAdminCommand(msg.ConnID, msg.Command)
	case Disconnect:
		s.disconnect(msg.ConnID)
	case GetView:
		msg.Reply <- s.view()
	}
}

func (s *Session) register(msg Register) {
	if _, gone := s.dropped[msg.ConnID]; gone {
		// The outbox was closed when this connection was dropped; there is
		// no live channel to answer on.
		s.log.Debug("ignoring register from dropped connection", zap.String("conn", msg.ConnID))
		return
	}

	now := s.clock.Now()

	if msg.IsAdmin {
		rec := &registry.Record{
			ID:          msg.ConnID,
			Role:        registry.RoleAdmin,
			ConnectedAt: now,
			Outbox:      msg.Outbox,
		}
		s.reg.Register(rec)
		s.log.Info("admin connected", zap.String("conn", msg.ConnID))
		s.deliver(rec)
		return
	}

	name := msg.TeamName
	if name == "" {
		name = fmt.Sprintf("Team %d", s.reg.CountBuzzers()+1)
	}
	if s.reg.NameTaken(name, msg.ConnID) {
		s.log.Debug("registration rejected",
			zap.String("conn", msg.ConnID),
			zap.String("team", name),
			zap.Error(ErrDuplicateName))
		s.reply(msg.Outbox, protocol.RegistrationRejected{
			Type:    protocol.TypeRegistrationRejected,
			Reason:  protocol.ReasonDuplicateName,
			Message: fmt.Sprintf("team name %q is already in use", name),
		})
		return
	}

	rec := &registry.Record{
		ID:          msg.ConnID,
		Role:        registry.RoleBuzzer,
		TeamName:    name,
		ConnectedAt: now,
		Outbox:      msg.Outbox,
	}
	s.reg.Register(rec)
	s.log.Info("buzzer connected", zap.String("conn", msg.ConnID), zap.String("team", name))
	s.deliver(rec)
}

func (s *Session) handleBuzz(connID string) {
	rec, ok := s.reg.Lookup(connID)
	if !ok || rec.Role != registry.RoleBuzzer {
		// Unregistered or admin connection; nothing to reply to.
		s.log.Debug("buzz from non-buzzer connection", zap.String("conn", connID))
		return
	}

	switch err := s.state.buzz(rec, s.clock.Now()); err {
	case nil:
		s.log.Info("buzz accepted",
			zap.String("team", rec.TeamName),
			zap.Int("order", len(s.state.BuzzLog)))
		s.broadcast()
	case ErrLocked:
		s.log.Debug("buzz rejected", zap.String("team", rec.TeamName), zap.Error(err))
		s.reply(rec.Outbox, protocol.BuzzRejected{
			Type:   protocol.TypeBuzzRejected,
			Reason: protocol.ReasonLocked,
		})
	case ErrAlreadyBuzzed:
		s.log.Debug("buzz rejected", zap.String("team", rec.TeamName), zap.Error(err))
		s.reply(rec.Outbox, protocol.BuzzRejected{
			Type:   protocol.TypeBuzzRejected,
			Reason: protocol.ReasonAlreadyBuzzed,
		})
	}
}

func (s *Session) handleAdminCommand(connID, command string) {
	rec, ok := s.reg.Lookup(connID)
	if !ok || rec.Role != registry.RoleAdmin {
		s.log.Warn("non-admin connection attempted admin command",
			zap.String("conn", connID),
			zap.String("command", command))
		return
	}

	switch command {
	case protocol.CommandReset:
		s.state.clear(s.reg.Buzzers())
		s.log.Info("buzzers reset")
		s.broadcast()
	case protocol.CommandLock:
		// Locking also re-arms everyone: a stale buzz from the previous
		// round must not survive into the next one.
		s.state.Locked = true
		s.state.clear(s.reg.Buzzers())
		s.log.Info("buzzers locked")
		s.broadcast()
	case protocol.CommandUnlock:
		s.state.Locked = false
		s.log.Info("buzzers unlocked")
		s.broadcast()
	default:
		s.log.Warn("unknown admin command", zap.String("command", command))
	}
}

func (s *Session) disconnect(connID string) {
	// A disconnect is the last message a connection ever sends, so any
	// dropped-marker for it can be retired.
	delete(s.dropped, connID)

	rec, ok := s.reg.Remove(connID)
	if !ok {
		return
	}
	close(rec.Outbox)
	if rec.Role == registry.RoleAdmin {
		s.log.Info("admin disconnected", zap.String("conn", connID))
	} else {
		s.log.Info("buzzer disconnected", zap.String("conn", connID), zap.String("team", rec.TeamName))
	}
	s.broadcast()
}

func (s *Session) view() View {
	log := make([]protocol.BuzzEntry, len(s.state.BuzzLog))
	copy(log, s.state.BuzzLog)
	return View{
		Locked:   s.state.Locked,
		BuzzLog:  log,
		NumConns: s.reg.Len(),
		Teams:    s.teamStatuses(),
	}
}

func (s *Session) shutdown() {
	for _, rec := range s.reg.All() {
		s.reg.Remove(rec.ID)
		close(rec.Outbox)
	}
	s.cancel()
}
