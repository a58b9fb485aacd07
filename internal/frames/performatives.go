package frames

import (
	"github.com/coreamqp/amqp-link/internal/buffer"
	"github.com/coreamqp/amqp-link/internal/encoding"
)

// Source describes a link's originating node.
type Source struct {
	Address               *string
	Durable               encoding.Durability
	ExpiryPolicy          encoding.ExpiryPolicy
	Timeout               uint32
	Dynamic               bool
	DynamicNodeProperties map[string]any
	DistributionMode      encoding.Symbol
	Filter                encoding.Filter
	DefaultOutcome        any
	Outcomes              encoding.MultiSymbol
	Capabilities          encoding.MultiSymbol
}

func SourceFromFields(fields []any) *Source {
	if fields == nil {
		return nil
	}
	return &Source{
		Address:          encoding.StringPtr(encoding.Field(fields, 0)),
		Durable:          encoding.Durability(mustUint32(encoding.Field(fields, 1))),
		ExpiryPolicy:     encoding.ExpiryPolicy(encoding.SymbolVal(encoding.Field(fields, 2))),
		Timeout:          mustUint32(encoding.Field(fields, 3)),
		Dynamic:          encoding.Bool(encoding.Field(fields, 4)),
		DistributionMode: encoding.SymbolVal(encoding.Field(fields, 6)),
		DefaultOutcome:   encoding.Field(fields, 8),
	}
}

func (s *Source) Marshal(wr *buffer.Buffer) error {
	fields := []any{
		ptrString(s.Address), uint32(s.Durable), encoding.Symbol(s.ExpiryPolicy), s.Timeout, s.Dynamic,
		nil, encoding.Symbol(s.DistributionMode), nil, s.DefaultOutcome, s.Outcomes, s.Capabilities,
	}
	return encoding.MarshalComposite(wr, 0x28, fields, nil)
}

// Target describes a link's destination node.
type Target struct {
	Address               *string
	Durable               encoding.Durability
	ExpiryPolicy          encoding.ExpiryPolicy
	Timeout               uint32
	Dynamic               bool
	DynamicNodeProperties map[string]any
	Capabilities          encoding.MultiSymbol
}

func TargetFromFields(fields []any) *Target {
	if fields == nil {
		return nil
	}
	return &Target{
		Address:      encoding.StringPtr(encoding.Field(fields, 0)),
		Durable:      encoding.Durability(mustUint32(encoding.Field(fields, 1))),
		ExpiryPolicy: encoding.ExpiryPolicy(encoding.SymbolVal(encoding.Field(fields, 2))),
		Timeout:      mustUint32(encoding.Field(fields, 3)),
		Dynamic:      encoding.Bool(encoding.Field(fields, 4)),
	}
}

func (t *Target) Marshal(wr *buffer.Buffer) error {
	fields := []any{
		ptrString(t.Address), uint32(t.Durable), encoding.Symbol(t.ExpiryPolicy), t.Timeout, t.Dynamic,
		nil, t.Capabilities,
	}
	return encoding.MarshalComposite(wr, 0x29, fields, nil)
}

func ptrString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func mustUint32(field any) uint32 {
	v, _ := encoding.Uint32(field)
	return v
}

// Attach is the attach performative: the handshake that establishes a
// link over a session.
type Attach struct {
	Name                   string
	Handle                 uint32
	Role                   encoding.Role
	SenderSettleMode       encoding.SenderSettleMode
	ReceiverSettleMode     encoding.ReceiverSettleMode
	Source                 *Source
	Target                 *Target
	Unsettled              map[string]any
	IncompleteUnsettled    bool
	InitialDeliveryCount   *uint32
	MaxMessageSize         uint64
	OfferedCapabilities    encoding.MultiSymbol
	DesiredCapabilities    encoding.MultiSymbol
	Properties             map[string]any
}

func AttachFromFields(fields []any) *Attach {
	a := &Attach{
		Name:                 encoding.String(encoding.Field(fields, 0)),
		Handle:               mustUint32(encoding.Field(fields, 1)),
		Role:                 encoding.Role(encoding.Bool(encoding.Field(fields, 2))),
		SenderSettleMode:     encoding.SenderSettleMode(mustUint32(encoding.Field(fields, 3))),
		ReceiverSettleMode:   encoding.ReceiverSettleMode(mustUint32(encoding.Field(fields, 4))),
		Source:               SourceFromFields(encoding.List(encoding.Field(fields, 5))),
		Target:               TargetFromFields(encoding.List(encoding.Field(fields, 6))),
		IncompleteUnsettled:  encoding.Bool(encoding.Field(fields, 8)),
		InitialDeliveryCount: encoding.Uint32Ptr(encoding.Field(fields, 9)),
		MaxMessageSize:       mustUint64(encoding.Field(fields, 10)),
		OfferedCapabilities:  encoding.MultiSymbolVal(encoding.Field(fields, 11)),
		DesiredCapabilities:  encoding.MultiSymbolVal(encoding.Field(fields, 12)),
		Properties:           encoding.StringKeyedMap(encoding.Field(fields, 13)),
	}
	return a
}

func mustUint64(field any) uint64 {
	v, _ := encoding.Uint64(field)
	return v
}

func (a *Attach) Marshal(wr *buffer.Buffer) error {
	var source, target any
	if a.Source != nil {
		source = a.Source
	}
	if a.Target != nil {
		target = a.Target
	}
	var initDC any
	if a.InitialDeliveryCount != nil {
		initDC = *a.InitialDeliveryCount
	}
	var properties any
	if a.Properties != nil {
		m := make(map[any]any, len(a.Properties))
		for k, v := range a.Properties {
			m[k] = v
		}
		properties = m
	}
	fields := []any{
		a.Name, a.Handle, bool(a.Role), uint32(a.SenderSettleMode), uint32(a.ReceiverSettleMode),
		source, target, nil, a.IncompleteUnsettled, initDC, a.MaxMessageSize,
		a.OfferedCapabilities, a.DesiredCapabilities, properties,
	}
	return encoding.MarshalComposite(wr, 0x12, fields, nil)
}

// Flow is the flow performative: link-credit bookkeeping.
type Flow struct {
	NextIncomingID *uint32
	IncomingWindow uint32
	NextOutgoingID uint32
	OutgoingWindow uint32
	Handle         *uint32
	DeliveryCount  *uint32
	LinkCredit     *uint32
	Available      *uint32
	Drain          bool
	Echo           bool
	Properties     map[string]any
}

func FlowFromFields(fields []any) *Flow {
	return &Flow{
		NextIncomingID: encoding.Uint32Ptr(encoding.Field(fields, 0)),
		IncomingWindow: mustUint32(encoding.Field(fields, 1)),
		NextOutgoingID: mustUint32(encoding.Field(fields, 2)),
		OutgoingWindow: mustUint32(encoding.Field(fields, 3)),
		Handle:         encoding.Uint32Ptr(encoding.Field(fields, 4)),
		DeliveryCount:  encoding.Uint32Ptr(encoding.Field(fields, 5)),
		LinkCredit:     encoding.Uint32Ptr(encoding.Field(fields, 6)),
		Available:      encoding.Uint32Ptr(encoding.Field(fields, 7)),
		Drain:          encoding.Bool(encoding.Field(fields, 8)),
		Echo:           encoding.Bool(encoding.Field(fields, 9)),
	}
}

func (f *Flow) Marshal(wr *buffer.Buffer) error {
	fields := []any{
		ptrUint32(f.NextIncomingID), f.IncomingWindow, f.NextOutgoingID, f.OutgoingWindow,
		ptrUint32(f.Handle), ptrUint32(f.DeliveryCount), ptrUint32(f.LinkCredit), ptrUint32(f.Available),
		f.Drain, f.Echo, nil,
	}
	return encoding.MarshalComposite(wr, 0x13, fields, nil)
}

func ptrUint32(p *uint32) any {
	if p == nil {
		return nil
	}
	return *p
}

// Transfer is the transfer performative, carrying a message's payload
// sections in its trailing field (see DecodePayload).
type Transfer struct {
	Handle          uint32
	DeliveryID      *uint32
	DeliveryTag     []byte
	MessageFormat   *uint32
	Settled         *bool
	More            bool
	ReceiverSettleMode *encoding.ReceiverSettleMode
	State           any
	Resume          bool
	Aborted         bool
	Batchable       bool
	Payload         map[string]any
}

func TransferFromFields(fields []any) *Transfer {
	var payload map[string]any
	if n := len(fields); n > 0 {
		if p, ok := fields[n-1].(map[string]any); ok {
			payload = p
			fields = fields[:n-1]
		}
	}
	t := &Transfer{
		Handle:        mustUint32(encoding.Field(fields, 0)),
		DeliveryID:    encoding.Uint32Ptr(encoding.Field(fields, 1)),
		DeliveryTag:   encoding.Bytes(encoding.Field(fields, 2)),
		MessageFormat: encoding.Uint32Ptr(encoding.Field(fields, 3)),
		Settled:       encoding.BoolPtr(encoding.Field(fields, 4)),
		More:          encoding.Bool(encoding.Field(fields, 5)),
		State:         encoding.Field(fields, 7),
		Resume:        encoding.Bool(encoding.Field(fields, 8)),
		Aborted:       encoding.Bool(encoding.Field(fields, 9)),
		Batchable:     encoding.Bool(encoding.Field(fields, 10)),
	}
	if rsm, ok := encoding.Field(fields, 6).(uint32); ok {
		m := encoding.ReceiverSettleMode(rsm)
		t.ReceiverSettleMode = &m
	}
	t.Payload = payload
	return t
}

// Disposition is the disposition performative: settlement feedback for
// a range of deliveries.
type Disposition struct {
	Role       encoding.Role
	First      uint32
	Last       *uint32
	Settled    bool
	State      any
	Batchable  bool
}

func DispositionFromFields(fields []any) *Disposition {
	return &Disposition{
		Role:      encoding.Role(encoding.Bool(encoding.Field(fields, 0))),
		First:     mustUint32(encoding.Field(fields, 1)),
		Last:      encoding.Uint32Ptr(encoding.Field(fields, 2)),
		Settled:   encoding.Bool(encoding.Field(fields, 3)),
		State:     encoding.Field(fields, 4),
		Batchable: encoding.Bool(encoding.Field(fields, 5)),
	}
}

func (d *Disposition) Marshal(wr *buffer.Buffer) error {
	fields := []any{bool(d.Role), d.First, ptrUint32(d.Last), d.Settled, d.State, d.Batchable}
	return encoding.MarshalComposite(wr, 0x15, fields, nil)
}

// Detach is the detach performative: closes or suspends a link.
type Detach struct {
	Handle uint32
	Closed bool
	Error  *encoding.Error
}

func DetachFromFields(fields []any) *Detach {
	return &Detach{
		Handle: mustUint32(encoding.Field(fields, 0)),
		Closed: encoding.Bool(encoding.Field(fields, 1)),
		Error:  encoding.ErrorVal(encoding.Field(fields, 2)),
	}
}

func (d *Detach) Marshal(wr *buffer.Buffer) error {
	fields := []any{d.Handle, d.Closed, d.Error}
	return encoding.MarshalComposite(wr, 0x16, fields, nil)
}
