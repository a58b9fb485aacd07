package amqp

import (
	"context"

	"github.com/coreamqp/amqp-link/internal/frames"
)

const rxSegmentSize = 16

// incomingFrame is the sum of performative frames a link's own state
// machine reacts to directly. Transfer and disposition are routed
// straight to Sender/Receiver, which own the delivery-tracking state
// those carry, so they never pass through rxQ.
type incomingFrame struct {
	attach *frames.Attach
	flow   *frames.Flow
	detach *frames.Detach
}

// EnqueueAttach, EnqueueFlow, and EnqueueDetach buffer a decoded
// incoming frame for MuxFrame rather than dispatching it inline, so
// frames that arrive between MuxFrame calls are held in rxQ. Enqueueing
// takes the link's lock, so it waits while MuxFrame (which holds the
// lock for its whole drain) or another locked operation is running.
func (l *Link) EnqueueAttach(frame *frames.Attach) { l.enqueue(incomingFrame{attach: frame}) }
func (l *Link) EnqueueFlow(frame *frames.Flow)     { l.enqueue(incomingFrame{flow: frame}) }
func (l *Link) EnqueueDetach(frame *frames.Detach) { l.enqueue(incomingFrame{detach: frame}) }

func (l *Link) enqueue(frame incomingFrame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rxQ.Enqueue(frame)
}

// MuxFrame drains and dispatches every frame currently buffered in the
// link's receive queue, in arrival order, stopping at the first error
// so a later frame is never processed against a state the failed one
// left inconsistent.
func (l *Link) MuxFrame(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		item := l.rxQ.Dequeue()
		if item == nil {
			return nil
		}
		var err error
		switch {
		case item.attach != nil:
			err = l.incomingAttach(ctx, item.attach)
		case item.flow != nil:
			err = l.handleFlowLocked(ctx, item.flow)
		case item.detach != nil:
			err = l.incomingDetach(ctx, item.detach)
		}
		if err != nil {
			return err
		}
	}
}
