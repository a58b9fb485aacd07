package amqp

import (
	"fmt"

	"github.com/coreamqp/amqp-link/internal/encoding"
	"github.com/coreamqp/amqp-link/internal/frames"
)

// Error is the AMQP error composite (condition, description, info).
type Error = encoding.Error

// ErrCond re-exports the well-known AMQP error condition symbols.
type ErrCond = encoding.ErrCond

const (
	ErrCondInternalError         = encoding.ErrCondInternalError
	ErrCondNotFound              = encoding.ErrCondNotFound
	ErrCondUnauthorizedAccess    = encoding.ErrCondUnauthorizedAccess
	ErrCondDecodeError           = encoding.ErrCondDecodeError
	ErrCondResourceLimitExceeded = encoding.ErrCondResourceLimitExceeded
	ErrCondNotAllowed            = encoding.ErrCondNotAllowed
	ErrCondInvalidField          = encoding.ErrCondInvalidField
	ErrCondNotImplemented        = encoding.ErrCondNotImplemented
	ErrCondIllegalState          = encoding.ErrCondIllegalState
	ErrCondDetachForced          = encoding.ErrCondDetachForced
	ErrCondTransferLimitExceeded = encoding.ErrCondTransferLimitExceeded
	ErrCondLinkRedirect          = encoding.ErrCondLinkRedirect
	ErrCondStolen                = encoding.ErrCondStolen
)

// DecodeError reports a malformed byte window: an unrecognized format
// code, or a value whose declared length overruns the window.
type DecodeError = encoding.DecodeError

// FrameShapeError reports a frame buffer that doesn't match the
// described-type list envelope every AMQP frame must have.
type FrameShapeError = frames.FrameShapeError

// InvalidLinkError is raised when an incoming attach carries neither a
// source nor a target, leaving the link with nowhere to address.
type InvalidLinkError struct {
	Name string
}

func (e *InvalidLinkError) Error() string {
	return fmt.Sprintf("amqp: invalid link %q: attach carried neither source nor target", e.Name)
}

// ProtocolError reports a peer violating a link state machine
// invariant, e.g. an attach received while already attached.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "amqp: protocol error: " + e.Reason }

// PeerDetachedWithError reports that the remote peer closed a link and
// supplied an error condition explaining why.
type PeerDetachedWithError struct {
	RemoteError *Error
}

func (e *PeerDetachedWithError) Error() string {
	if e.RemoteError == nil {
		return "amqp: link detached by peer"
	}
	return fmt.Sprintf("amqp: link detached by peer: %v", e.RemoteError)
}

// LinkError wraps a terminal link-level failure that isn't a peer error
// condition, such as an operation attempted after the link closed.
type LinkError struct {
	Message string
}

func (e *LinkError) Error() string { return e.Message }

var (
	ErrLinkClosed   = &LinkError{Message: "amqp: link closed"}
	ErrLinkDetached = &LinkError{Message: "amqp: link detached"}
)
