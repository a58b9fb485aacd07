package amqp

import "github.com/coreamqp/amqp-link/internal/encoding"

// DefaultLinkCredit is used when LinkOptions.Credit is left at zero.
const DefaultLinkCredit = 1

// MultiSymbol is a Symbol or an array of Symbol.
type MultiSymbol = encoding.MultiSymbol

// LinkOptions configures a link at construction time. Every field maps
// directly to an attribute of the outgoing attach frame or to the
// link's local flow-control state.
type LinkOptions struct {
	Name   string
	Handle uint32
	Role   Role

	Source *Source
	Target *Target

	SenderSettleMode   SenderSettleMode
	ReceiverSettleMode ReceiverSettleMode
	MaxMessageSize     uint64

	OfferedCapabilities MultiSymbol
	DesiredCapabilities MultiSymbol
	Properties          map[string]any

	// Credit is the link-credit value re-armed by evaluateStatus
	// whenever the current credit is exhausted. Zero means
	// DefaultLinkCredit.
	Credit uint32
}
