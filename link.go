package amqp

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/coreamqp/amqp-link/internal/frames"
	"github.com/coreamqp/amqp-link/internal/queue"
	"github.com/coreamqp/amqp-link/internal/shared"
)

// LinkState is the lifecycle state of a link's attach/detach handshake.
type LinkState int

const (
	LinkStateDetached LinkState = iota
	LinkStateAttachSent
	LinkStateAttachRcvd
	LinkStateAttached
	LinkStateError
)

func (s LinkState) String() string {
	switch s {
	case LinkStateDetached:
		return "detached"
	case LinkStateAttachSent:
		return "attach-sent"
	case LinkStateAttachRcvd:
		return "attach-rcvd"
	case LinkStateAttached:
		return "attached"
	case LinkStateError:
		return "error"
	default:
		return "unknown"
	}
}

// Link is the client-side half of an AMQP link endpoint: the attach/
// detach handshake, credit bookkeeping, and the state transitions that
// react to session lifecycle changes. Sender and Receiver embed Link
// and add the role-specific behavior (message sending, credit issuance)
// on top.
type Link struct {
	mu sync.Mutex

	name   string
	handle uint32
	role   Role

	session Session

	source *Source
	target *Target

	senderSettleMode   SenderSettleMode
	receiverSettleMode ReceiverSettleMode
	maxMessageSize     uint64

	offeredCapabilities MultiSymbol
	desiredCapabilities MultiSymbol
	properties          map[string]any

	linkCredit           uint32
	currentLinkCredit    uint32
	deliveryCount        uint32
	initialDeliveryCount uint32

	remoteHandle              *uint32
	remoteMaxMessageSize      uint64
	remoteOfferedCapabilities MultiSymbol

	state    LinkState
	isClosed bool

	// rxQ buffers incoming attach/flow/detach frames for MuxFrame,
	// decoupling their arrival (driven by a connection's single reader)
	// from the pace at which this link's state machine processes them.
	rxQ *queue.Holder[incomingFrame]

	// onRemovePendingDeliveries lets Sender hook delivery-cleanup into
	// the state machine's detach/session-discard paths without the
	// base link owning the pending-delivery map itself.
	onRemovePendingDeliveries func(ctx context.Context)
}

// NewLink constructs a link in the detached state, ready to attach over
// session.
func NewLink(session Session, opts LinkOptions) *Link {
	name := opts.Name
	if name == "" {
		name = shared.RandString()
	}
	credit := opts.Credit
	if credit == 0 {
		credit = DefaultLinkCredit
	}
	return &Link{
		name:                name,
		handle:              opts.Handle,
		role:                opts.Role,
		session:             session,
		source:              opts.Source,
		target:              opts.Target,
		senderSettleMode:    opts.SenderSettleMode,
		receiverSettleMode:  opts.ReceiverSettleMode,
		maxMessageSize:      opts.MaxMessageSize,
		offeredCapabilities: opts.OfferedCapabilities,
		desiredCapabilities: opts.DesiredCapabilities,
		properties:          opts.Properties,
		linkCredit:          credit,
		currentLinkCredit:   credit,
		state:               LinkStateDetached,
		rxQ:                 queue.NewHolder[incomingFrame](rxSegmentSize),
	}
}

// State returns the link's current state.
func (l *Link) State() LinkState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Name returns the link name used in the attach handshake.
func (l *Link) Name() string { return l.name }

// setState transitions the link and yields, mirroring the suspension
// point the link's original async implementation takes after every
// state change so other goroutines waiting on the link get a chance to
// observe it.
func (l *Link) setState(ctx context.Context, state LinkState) {
	logDebug(ctx, "link state transition", "name", l.name, "from", l.state.String(), "to", state.String())
	l.state = state
	runtime.Gosched()
}

// evaluateStatus re-arms local link credit and announces it to the peer
// once it has been fully drawn down.
func (l *Link) evaluateStatus(ctx context.Context) error {
	if l.currentLinkCredit <= 0 {
		l.currentLinkCredit = l.linkCredit
		return l.outgoingFlowLocked(ctx)
	}
	return nil
}

// EvaluateStatus is the exported, locking entry point for evaluateStatus.
func (l *Link) EvaluateStatus(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.evaluateStatus(ctx)
}

func (l *Link) outgoingAttach(ctx context.Context) error {
	l.deliveryCount = l.initialDeliveryCount

	a := &frames.Attach{
		Name:               l.name,
		Handle:             l.handle,
		Role:               l.role,
		SenderSettleMode:   l.senderSettleMode,
		ReceiverSettleMode: l.receiverSettleMode,
		Source:             l.source,
		Target:             l.target,
		MaxMessageSize:     l.maxMessageSize,
		Properties:         l.properties,
	}
	if l.role == RoleSender {
		dc := l.deliveryCount
		a.InitialDeliveryCount = &dc
	}
	if l.state == LinkStateAttachRcvd {
		a.OfferedCapabilities = l.offeredCapabilities
	}
	if l.state == LinkStateDetached {
		a.DesiredCapabilities = l.desiredCapabilities
	}
	return l.session.OutgoingAttach(ctx, a)
}

// incomingAttach applies a peer's attach frame to the link's state.
//
// When the peer's attach carries neither a source nor a target, the
// link has nowhere to address and cannot proceed: pending deliveries
// are abandoned and the link falls back to detached. No detach is sent
// in this case -- the peer's attach already signalled it considers the
// link unusable, so echoing one back adds nothing the peer doesn't
// already know.
func (l *Link) incomingAttach(ctx context.Context, frame *frames.Attach) error {
	if l.isClosed {
		return &LinkError{Message: "amqp: attach received on a closed link"}
	}
	if frame.Source == nil && frame.Target == nil {
		l.removePendingDeliveriesLocked(ctx)
		l.setState(ctx, LinkStateDetached)
		return &InvalidLinkError{Name: l.name}
	}

	l.remoteHandle = &frame.Handle
	l.remoteMaxMessageSize = frame.MaxMessageSize
	l.remoteOfferedCapabilities = frame.OfferedCapabilities
	if frame.Properties != nil {
		if l.properties == nil {
			l.properties = map[string]any{}
		}
		for k, v := range frame.Properties {
			l.properties[k] = v
		}
	}

	switch l.state {
	case LinkStateDetached:
		l.setState(ctx, LinkStateAttachRcvd)
	case LinkStateAttachSent:
		l.setState(ctx, LinkStateAttached)
	default:
		return &ProtocolError{Reason: fmt.Sprintf("attach received while link %q was already %s", l.name, l.state)}
	}
	return nil
}

func (l *Link) outgoingFlowLocked(ctx context.Context) error {
	handle := l.handle
	deliveryCount := l.deliveryCount
	credit := l.currentLinkCredit
	f := &frames.Flow{
		Handle:        &handle,
		DeliveryCount: &deliveryCount,
		LinkCredit:    &credit,
	}
	return l.session.OutgoingFlow(ctx, f)
}

// OutgoingFlow sends a flow frame announcing the link's current credit.
func (l *Link) OutgoingFlow(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outgoingFlowLocked(ctx)
}

// HandleFlow applies an incoming flow frame: updates what we know of
// the peer's delivery count and, if the peer asked to be echoed,
// answers with our own flow state.
func (l *Link) HandleFlow(ctx context.Context, frame *frames.Flow) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handleFlowLocked(ctx, frame)
}

func (l *Link) handleFlowLocked(ctx context.Context, frame *frames.Flow) error {
	if frame.DeliveryCount != nil {
		l.deliveryCount = *frame.DeliveryCount
	}
	if frame.LinkCredit != nil {
		l.currentLinkCredit = *frame.LinkCredit
	}
	if frame.Echo {
		return l.outgoingFlowLocked(ctx)
	}
	return nil
}

func (l *Link) outgoingDetach(ctx context.Context, closeLink bool, linkErr *Error) error {
	d := &frames.Detach{Handle: l.handle, Closed: closeLink, Error: linkErr}
	if err := l.session.OutgoingDetach(ctx, d); err != nil {
		return err
	}
	if closeLink {
		l.isClosed = true
	}
	return nil
}

// incomingDetach applies a peer's detach frame.
//
// A detach arriving while fully attached is answered symmetrically: we
// reply with the same closed flag the peer used. A closing detach that
// arrives while we are still mid-handshake (attach-sent or
// attach-rcvd), when we ourselves never asked to close, means the peer
// is tearing down a link we thought was still coming up; the recovery
// is to complete our side of the attach and then immediately send a
// closing detach of our own, rather than treat it as a protocol
// violation.
func (l *Link) incomingDetach(ctx context.Context, frame *frames.Detach) error {
	switch {
	case l.state == LinkStateAttached:
		if err := l.outgoingDetach(ctx, frame.Closed, nil); err != nil {
			return err
		}
	case frame.Closed && !l.isClosed && (l.state == LinkStateAttachSent || l.state == LinkStateAttachRcvd):
		if err := l.outgoingAttach(ctx); err != nil {
			return err
		}
		if err := l.outgoingDetach(ctx, true, nil); err != nil {
			return err
		}
	}

	l.removePendingDeliveriesLocked(ctx)

	if frame.Error != nil {
		l.setState(ctx, LinkStateError)
		return &PeerDetachedWithError{RemoteError: frame.Error}
	}
	l.setState(ctx, LinkStateDetached)
	return nil
}

// HandleDetach is the locking entry point for incomingDetach.
func (l *Link) HandleDetach(ctx context.Context, frame *frames.Detach) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.incomingDetach(ctx, frame)
}

// HandleAttach is the locking entry point for incomingAttach.
func (l *Link) HandleAttach(ctx context.Context, frame *frames.Attach) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.incomingAttach(ctx, frame)
}

func (l *Link) removePendingDeliveriesLocked(ctx context.Context) {
	if l.onRemovePendingDeliveries != nil {
		l.onRemovePendingDeliveries(ctx)
	}
}

// OnSessionStateChange reacts to the owning session transitioning. Once
// the session is mapped, a link still sitting detached begins its own
// attach; if the session starts discarding, any pending deliveries are
// abandoned and the link falls back to detached.
func (l *Link) OnSessionStateChange(ctx context.Context, state SessionState) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case state == SessionStateMapped && !l.isClosed && l.state == LinkStateDetached:
		if err := l.outgoingAttach(ctx); err != nil {
			return err
		}
		l.setState(ctx, LinkStateAttachSent)
	case state == SessionStateDiscarding:
		l.removePendingDeliveriesLocked(ctx)
		l.setState(ctx, LinkStateDetached)
	}
	return nil
}

// Attach begins the attach handshake from idle.
func (l *Link) Attach(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.isClosed {
		return ErrLinkClosed
	}
	if err := l.outgoingAttach(ctx); err != nil {
		return err
	}
	l.setState(ctx, LinkStateAttachSent)
	return nil
}

// Detach tears the link down. While mid-handshake this completes
// immediately; while fully attached it only half-closes, waiting for
// the peer's own detach to finish the handshake (see incomingDetach).
func (l *Link) Detach(ctx context.Context, closeLink bool, linkErr *Error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.isClosed {
		return ErrLinkClosed
	}
	l.removePendingDeliveriesLocked(ctx)
	switch l.state {
	case LinkStateAttachSent, LinkStateAttachRcvd:
		if err := l.outgoingDetach(ctx, closeLink, linkErr); err != nil {
			return err
		}
		l.setState(ctx, LinkStateDetached)
	case LinkStateAttached:
		if err := l.outgoingDetach(ctx, closeLink, linkErr); err != nil {
			return err
		}
		l.setState(ctx, LinkStateAttachSent)
	}
	return nil
}
