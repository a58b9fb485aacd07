package amqp

import (
	"context"
	"sync"

	"github.com/coreamqp/amqp-link/internal/frames"
	"github.com/coreamqp/amqp-link/internal/shared"
)

// Sender is a link attached in the sender role. Unlike the base Link,
// a Sender owns the pending-delivery map: only a sender ever awaits
// settlement of something it transferred, so tracking unsettled
// deliveries belongs here rather than on every link regardless of role.
type Sender struct {
	*Link

	mu               sync.Mutex
	pendingDeliveries map[string]*Delivery
}

// NewSender constructs a sender-role link over session.
func NewSender(session Session, opts LinkOptions) *Sender {
	opts.Role = RoleSender
	s := &Sender{
		Link:              NewLink(session, opts),
		pendingDeliveries: map[string]*Delivery{},
	}
	s.Link.onRemovePendingDeliveries = s.removePendingDeliveries
	return s
}

func (s *Sender) removePendingDeliveries(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDeliveries = removePendingDeliveries(ctx, s.pendingDeliveries)
}

// Send transfers a message and registers a Delivery that is settled
// either when a matching disposition arrives (via HandleDisposition) or
// when the link is torn down first.
func (s *Sender) Send(ctx context.Context, payload map[string]any, onSettled func(LinkDeliverySettleReason, any)) (*Delivery, error) {
	s.Link.mu.Lock()
	if s.Link.isClosed {
		s.Link.mu.Unlock()
		return nil, ErrLinkClosed
	}
	if s.Link.currentLinkCredit == 0 {
		s.Link.mu.Unlock()
		return nil, &LinkError{Message: "amqp: no link credit available"}
	}
	deliveryID := s.Link.deliveryCount
	handle := s.Link.handle
	s.Link.deliveryCount++
	s.Link.currentLinkCredit--
	if err := s.Link.evaluateStatus(ctx); err != nil {
		s.Link.mu.Unlock()
		return nil, err
	}
	s.Link.mu.Unlock()

	tag := []byte(shared.RandString())
	d := &Delivery{DeliveryTag: tag, DeliveryID: deliveryID, OnSettled: onSettled}

	s.mu.Lock()
	s.pendingDeliveries[string(tag)] = d
	s.mu.Unlock()

	t := &frames.Transfer{
		Handle:      handle,
		DeliveryID:  &deliveryID,
		DeliveryTag: tag,
		Payload:     payload,
	}
	if err := s.Link.session.OutgoingTransfer(ctx, t); err != nil {
		s.mu.Lock()
		delete(s.pendingDeliveries, string(tag))
		s.mu.Unlock()
		return nil, err
	}
	return d, nil
}

// HandleDisposition settles every pending delivery the disposition's
// [First, Last] range covers.
func (s *Sender) HandleDisposition(_ context.Context, frame *frames.Disposition) error {
	if !frame.Settled {
		return nil
	}
	last := frame.First
	if frame.Last != nil {
		last = *frame.Last
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for tag, d := range s.pendingDeliveries {
		if d.DeliveryID >= frame.First && d.DeliveryID <= last {
			d.settle(LinkDeliverySettleReasonDisposed, frame.State)
			delete(s.pendingDeliveries, tag)
		}
	}
	return nil
}
