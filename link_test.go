package amqp

import (
	"context"
	"testing"

	"github.com/coreamqp/amqp-link/internal/frames"
	"github.com/stretchr/testify/require"
)

func newTestLink(t *testing.T, sess *MemSession, role Role) *Link {
	t.Helper()
	addr := "test-address"
	return NewLink(sess, LinkOptions{
		Name:   "test-link",
		Handle: 1,
		Role:   role,
		Source: &frames.Source{Address: &addr},
		Target: &frames.Target{Address: &addr},
		Credit: 10,
	})
}

func TestAttachTransitionsDetachedToAttachSent(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleSender)

	require.NoError(t, l.Attach(context.Background()))
	require.Equal(t, LinkStateAttachSent, l.State())
	require.Len(t, sess.Attaches, 1)
	require.NotNil(t, sess.Attaches[0].InitialDeliveryCount)
}

func TestIncomingAttachCompletesHandshake(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleSender)
	require.NoError(t, l.Attach(context.Background()))

	remoteAddr := "peer-address"
	err := l.HandleAttach(context.Background(), &frames.Attach{
		Name:   "test-link",
		Handle: 99,
		Source: &frames.Source{Address: &remoteAddr},
		Target: &frames.Target{Address: &remoteAddr},
	})
	require.NoError(t, err)
	require.Equal(t, LinkStateAttached, l.State())
}

func TestIncomingAttachFromDetachedMovesToAttachRcvd(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleReceiver)

	remoteAddr := "peer-address"
	err := l.HandleAttach(context.Background(), &frames.Attach{
		Name:   "test-link",
		Handle: 99,
		Source: &frames.Source{Address: &remoteAddr},
		Target: &frames.Target{Address: &remoteAddr},
	})
	require.NoError(t, err)
	require.Equal(t, LinkStateAttachRcvd, l.State())
}

func TestIncomingAttachMergesPeerProperties(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleSender)
	l.properties = map[string]any{"local": "value"}

	remoteAddr := "peer-address"
	err := l.HandleAttach(context.Background(), &frames.Attach{
		Name:       "test-link",
		Handle:     99,
		Source:     &frames.Source{Address: &remoteAddr},
		Target:     &frames.Target{Address: &remoteAddr},
		Properties: map[string]any{"peer": "value"},
	})
	require.NoError(t, err)
	require.Equal(t, "value", l.properties["local"])
	require.Equal(t, "value", l.properties["peer"])
}

func TestIncomingAttachWithoutSourceOrTargetIsInvalid(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleReceiver)

	err := l.HandleAttach(context.Background(), &frames.Attach{Name: "test-link", Handle: 99})
	require.Error(t, err)
	var invalid *InvalidLinkError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, LinkStateDetached, l.State())
	// no detach is sent in this case: the peer's own attach already
	// signalled the link is unusable.
	require.Len(t, sess.Detaches, 0)
}

func TestIncomingAttachWhileAlreadyAttachedIsProtocolError(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleSender)
	l.state = LinkStateAttached

	remoteAddr := "peer-address"
	err := l.HandleAttach(context.Background(), &frames.Attach{
		Name:   "test-link",
		Handle: 99,
		Source: &frames.Source{Address: &remoteAddr},
		Target: &frames.Target{Address: &remoteAddr},
	})
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	require.Equal(t, LinkStateAttached, l.State())
}

func TestIncomingDetachWhileAttachedRepliesSymmetrically(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleSender)
	l.state = LinkStateAttached

	err := l.HandleDetach(context.Background(), &frames.Detach{Handle: 1, Closed: true})
	require.NoError(t, err)
	require.Len(t, sess.Detaches, 1)
	require.True(t, sess.Detaches[0].Closed)
	require.Equal(t, LinkStateDetached, l.State())
}

func TestIncomingClosingDetachDuringHandshakeReattachesThenCloses(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleSender)
	require.NoError(t, l.Attach(context.Background()))
	require.Equal(t, LinkStateAttachSent, l.State())

	err := l.HandleDetach(context.Background(), &frames.Detach{Handle: 1, Closed: true})
	require.NoError(t, err)

	// the recovery sequence re-sends attach before the closing detach.
	require.Len(t, sess.Attaches, 2)
	require.Len(t, sess.Detaches, 1)
	require.True(t, sess.Detaches[0].Closed)
	require.Equal(t, LinkStateDetached, l.State())
}

func TestIncomingDetachWithErrorMovesToErrorState(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleSender)
	l.state = LinkStateAttached

	err := l.HandleDetach(context.Background(), &frames.Detach{
		Handle: 1,
		Closed: true,
		Error:  &Error{Condition: ErrCondInternalError},
	})
	var peerErr *PeerDetachedWithError
	require.ErrorAs(t, err, &peerErr)
	require.Equal(t, ErrCondInternalError, peerErr.RemoteError.Condition)
	require.Equal(t, LinkStateError, l.State())
}

func TestOnSessionStateChangeAttachesWhenMapped(t *testing.T) {
	sess := NewMemSession()
	sess.SetState(SessionStateUnmapped)
	l := newTestLink(t, sess, RoleSender)

	require.NoError(t, l.OnSessionStateChange(context.Background(), SessionStateMapped))
	require.Equal(t, LinkStateAttachSent, l.State())
	require.Len(t, sess.Attaches, 1)
}

func TestOnSessionStateChangeDiscardingDetaches(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleSender)
	l.state = LinkStateAttached

	require.NoError(t, l.OnSessionStateChange(context.Background(), SessionStateDiscarding))
	require.Equal(t, LinkStateDetached, l.State())
}

func TestEvaluateStatusReArmsCreditAndSendsFlow(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleSender)
	l.currentLinkCredit = 0

	require.NoError(t, l.EvaluateStatus(context.Background()))
	require.Equal(t, l.linkCredit, l.currentLinkCredit)
	require.Len(t, sess.Flows, 1)
}

func TestHandleFlowEchoesWhenRequested(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleReceiver)

	credit := uint32(5)
	err := l.HandleFlow(context.Background(), &frames.Flow{LinkCredit: &credit, Echo: true})
	require.NoError(t, err)
	require.Equal(t, uint32(5), l.currentLinkCredit)
	require.Len(t, sess.Flows, 1)
}

func TestDetachWhileAttachedHalfCloses(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleSender)
	l.state = LinkStateAttached

	require.NoError(t, l.Detach(context.Background(), true, nil))
	require.Equal(t, LinkStateAttachSent, l.State())
	require.True(t, sess.Detaches[0].Closed)
}

func TestDetachAfterCloseIsRejected(t *testing.T) {
	sess := NewMemSession()
	l := newTestLink(t, sess, RoleSender)
	l.isClosed = true

	err := l.Detach(context.Background(), true, nil)
	require.ErrorIs(t, err, ErrLinkClosed)
}
