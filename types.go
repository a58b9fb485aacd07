package amqp

import (
	"github.com/coreamqp/amqp-link/internal/encoding"
	"github.com/coreamqp/amqp-link/internal/frames"
)

// Role identifies whether a link endpoint is a sender or a receiver.
type Role = encoding.Role

const (
	RoleSender   = encoding.RoleSender
	RoleReceiver = encoding.RoleReceiver
)

// SenderSettleMode and ReceiverSettleMode control who settles a
// transfer and when.
type SenderSettleMode = encoding.SenderSettleMode
type ReceiverSettleMode = encoding.ReceiverSettleMode

const (
	SenderSettleModeUnsettled = encoding.SenderSettleModeUnsettled
	SenderSettleModeSettled   = encoding.SenderSettleModeSettled
	SenderSettleModeMixed     = encoding.SenderSettleModeMixed

	ReceiverSettleModeFirst  = encoding.ReceiverSettleModeFirst
	ReceiverSettleModeSecond = encoding.ReceiverSettleModeSecond
)

// Durability and ExpiryPolicy describe the lifetime of a node a link
// addresses.
type Durability = encoding.Durability
type ExpiryPolicy = encoding.ExpiryPolicy

const (
	DurabilityNone           = encoding.DurabilityNone
	DurabilityConfiguration  = encoding.DurabilityConfiguration
	DurabilityUnsettledState = encoding.DurabilityUnsettledState

	ExpiryPolicyLinkDetach      = encoding.ExpiryPolicyLinkDetach
	ExpiryPolicySessionEnd      = encoding.ExpiryPolicySessionEnd
	ExpiryPolicyConnectionClose = encoding.ExpiryPolicyConnectionClose
	ExpiryPolicyNever           = encoding.ExpiryPolicyNever
)

// Symbol is restricted-namespace ASCII text, e.g. a capability or
// error condition.
type Symbol = encoding.Symbol

// Source describes a link's originating node.
type Source = frames.Source

// Target describes a link's destination node.
type Target = frames.Target
