package amqp

import (
	"context"

	"github.com/coreamqp/amqp-link/internal/frames"
)

// Receiver is a link attached in the receiver role. It issues credit to
// the peer and turns incoming transfers into delivered payloads; it
// does not track pending deliveries the way Sender does, since nothing
// it receives waits on settlement the way something it sent would.
type Receiver struct {
	*Link

	onMessage func(payload map[string]any, transfer *frames.Transfer)
}

// NewReceiver constructs a receiver-role link over session. onMessage
// is invoked for every complete (non-partial) transfer delivered on the
// link.
func NewReceiver(session Session, opts LinkOptions, onMessage func(map[string]any, *frames.Transfer)) *Receiver {
	opts.Role = RoleReceiver
	return &Receiver{
		Link:      NewLink(session, opts),
		onMessage: onMessage,
	}
}

// HandleTransfer applies an incoming transfer: advances delivery-count
// bookkeeping, draws down local credit, and (once the peer marks the
// transfer complete) delivers the payload to onMessage.
func (r *Receiver) HandleTransfer(ctx context.Context, frame *frames.Transfer) error {
	r.Link.mu.Lock()
	r.Link.deliveryCount++
	if r.Link.currentLinkCredit > 0 {
		r.Link.currentLinkCredit--
	}
	err := r.Link.evaluateStatus(ctx)
	r.Link.mu.Unlock()
	if err != nil {
		return err
	}

	if !frame.More && r.onMessage != nil {
		r.onMessage(frame.Payload, frame)
	}
	return nil
}

// IssueCredit grants additional link credit to the peer immediately,
// bypassing the evaluateStatus re-arm threshold.
func (r *Receiver) IssueCredit(ctx context.Context, credit uint32) error {
	r.Link.mu.Lock()
	r.Link.currentLinkCredit += credit
	r.Link.mu.Unlock()
	return r.Link.OutgoingFlow(ctx)
}

// DrainCredit asks the peer to immediately use or relinquish all
// outstanding credit by sending a flow frame with drain set.
func (r *Receiver) DrainCredit(ctx context.Context) error {
	r.Link.mu.Lock()
	handle := r.Link.handle
	deliveryCount := r.Link.deliveryCount
	credit := r.Link.currentLinkCredit
	r.Link.mu.Unlock()

	f := &frames.Flow{
		Handle:        &handle,
		DeliveryCount: &deliveryCount,
		LinkCredit:    &credit,
		Drain:         true,
	}
	return r.Link.session.OutgoingFlow(ctx, f)
}
