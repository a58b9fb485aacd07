package amqp

import (
	"context"
	"sync"

	"github.com/coreamqp/amqp-link/internal/frames"
)

// SessionState mirrors the AMQP session lifecycle states relevant to a
// link: whether outgoing performatives can flow at all, and whether the
// session is unwinding and pending deliveries should be abandoned.
type SessionState int

const (
	SessionStateUnmapped SessionState = iota
	SessionStateMapped
	SessionStateDiscarding
)

func (s SessionState) String() string {
	switch s {
	case SessionStateUnmapped:
		return "unmapped"
	case SessionStateMapped:
		return "mapped"
	case SessionStateDiscarding:
		return "discarding"
	default:
		return "unknown"
	}
}

// Session is the contract a link relies on to actually put bytes on the
// wire. Everything about connection and session establishment --
// transport negotiation, begin/end, flow control windows across the
// whole session -- lives outside this package; a link only ever needs
// these five outgoing operations plus the session's current state.
type Session interface {
	State() SessionState
	OutgoingAttach(ctx context.Context, a *frames.Attach) error
	OutgoingDetach(ctx context.Context, d *frames.Detach) error
	OutgoingFlow(ctx context.Context, f *frames.Flow) error
	OutgoingTransfer(ctx context.Context, t *frames.Transfer) error
	OutgoingDisposition(ctx context.Context, d *frames.Disposition) error
}

// MemSession is a minimal in-process Session that records outgoing
// performatives instead of writing them to a transport. It exists so a
// link can be exercised and tested without a real connection.
type MemSession struct {
	mu    sync.Mutex
	state SessionState

	Attaches      []*frames.Attach
	Detaches      []*frames.Detach
	Flows         []*frames.Flow
	Transfers     []*frames.Transfer
	Dispositions  []*frames.Disposition
}

// NewMemSession returns a MemSession already in the mapped state, ready
// for a link to attach over.
func NewMemSession() *MemSession {
	return &MemSession{state: SessionStateMapped}
}

func (s *MemSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState records the session's state. It does not notify any link;
// a test passes the new state to Link.OnSessionStateChange itself.
func (s *MemSession) SetState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *MemSession) OutgoingAttach(_ context.Context, a *frames.Attach) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attaches = append(s.Attaches, a)
	return nil
}

func (s *MemSession) OutgoingDetach(_ context.Context, d *frames.Detach) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Detaches = append(s.Detaches, d)
	return nil
}

func (s *MemSession) OutgoingFlow(_ context.Context, f *frames.Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Flows = append(s.Flows, f)
	return nil
}

func (s *MemSession) OutgoingTransfer(_ context.Context, t *frames.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Transfers = append(s.Transfers, t)
	return nil
}

func (s *MemSession) OutgoingDisposition(_ context.Context, d *frames.Disposition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dispositions = append(s.Dispositions, d)
	return nil
}
