package amqp

import (
	"context"
	"testing"

	"github.com/coreamqp/amqp-link/internal/frames"
	"github.com/stretchr/testify/require"
)

func newTestSender(t *testing.T) (*Sender, *MemSession) {
	t.Helper()
	sess := NewMemSession()
	addr := "q1"
	s := NewSender(sess, LinkOptions{
		Name:   "sender-link",
		Handle: 1,
		Target: &frames.Target{Address: &addr},
		Credit: 2,
	})
	s.state = LinkStateAttached
	return s, sess
}

func TestSenderSendRegistersPendingDelivery(t *testing.T) {
	s, sess := newTestSender(t)

	settled := make(chan LinkDeliverySettleReason, 1)
	d, err := s.Send(context.Background(), map[string]any{"amqp-value": "hi"}, func(r LinkDeliverySettleReason, _ any) {
		settled <- r
	})
	require.NoError(t, err)
	require.Len(t, sess.Transfers, 1)
	require.Contains(t, s.pendingDeliveries, string(d.DeliveryTag))
}

func TestSenderHandleDispositionSettlesInRange(t *testing.T) {
	s, _ := newTestSender(t)

	settled := make(chan LinkDeliverySettleReason, 1)
	d, err := s.Send(context.Background(), nil, func(r LinkDeliverySettleReason, _ any) {
		settled <- r
	})
	require.NoError(t, err)

	last := d.DeliveryID
	err = s.HandleDisposition(context.Background(), &frames.Disposition{
		First:   d.DeliveryID,
		Last:    &last,
		Settled: true,
	})
	require.NoError(t, err)

	select {
	case reason := <-settled:
		require.Equal(t, LinkDeliverySettleReasonDisposed, reason)
	default:
		t.Fatal("expected delivery to be settled")
	}
	require.NotContains(t, s.pendingDeliveries, string(d.DeliveryTag))
}

func TestSenderSendWithoutCreditFails(t *testing.T) {
	s, _ := newTestSender(t)
	s.currentLinkCredit = 0

	_, err := s.Send(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestSenderDetachAbandonsPendingDeliveries(t *testing.T) {
	s, _ := newTestSender(t)

	reason := make(chan LinkDeliverySettleReason, 1)
	_, err := s.Send(context.Background(), nil, func(r LinkDeliverySettleReason, _ any) {
		reason <- r
	})
	require.NoError(t, err)

	require.NoError(t, s.Detach(context.Background(), true, nil))

	select {
	case r := <-reason:
		require.Equal(t, LinkDeliverySettleReasonNotDelivered, r)
	default:
		t.Fatal("expected abandoned delivery to be settled")
	}
}
