// Package frames implements the AMQP 1.0 frame envelope and performative
// decoder: turning a raw frame's bytes into a typed performative, and the
// payload sections carried by a transfer frame into a named map.
package frames

// Type identifies which performative a frame's descriptor names.
type Type byte

const (
	TypeOpen        Type = 0x10
	TypeBegin       Type = 0x11
	TypeAttach      Type = 0x12
	TypeFlow        Type = 0x13
	TypeTransfer    Type = 0x14
	TypeDisposition Type = 0x15
	TypeDetach      Type = 0x16
	TypeEnd         Type = 0x17
	TypeClose       Type = 0x18
)

// FrameShapeError reports that a buffer claiming to be an AMQP frame
// does not match the envelope this decoder requires: a described-type
// list8 with a smallulong descriptor. The descriptor's value itself is
// not checked against the performative codes.
type FrameShapeError struct {
	Reason string
}

func (e *FrameShapeError) Error() string { return "amqp: malformed frame: " + e.Reason }
