package frames

import (
	"github.com/coreamqp/amqp-link/internal/encoding"
	"github.com/pkg/errors"
)

var protoHeaderPrefix = [4]byte{'A', 'M', 'Q', 'P'}

// HeaderKind identifies what an empty/special frame buffer turned out
// to be: a protocol header exchanged before any real frames flow, or a
// genuine zero-field empty frame such as a heartbeat.
type HeaderKind int

const (
	HeaderKindNone HeaderKind = iota
	HeaderKindProto
	HeaderKindEmpty
)

// DecodeEmptyFrame classifies a short buffer that cannot hold a
// described-type performative: either the 8-byte "AMQP" protocol header
// or a zero-field empty frame (field count byte equal to 0), per the
// AMQP connection preamble and heartbeat convention.
func DecodeEmptyFrame(header []byte) (HeaderKind, error) {
	if len(header) >= 4 && header[0] == protoHeaderPrefix[0] && header[1] == protoHeaderPrefix[1] &&
		header[2] == protoHeaderPrefix[2] && header[3] == protoHeaderPrefix[3] {
		return HeaderKindProto, nil
	}
	if len(header) >= 6 && header[5] == 0 {
		return HeaderKindEmpty, nil
	}
	return HeaderKindNone, &FrameShapeError{Reason: "neither a protocol header nor an empty frame"}
}

// DecodeFrame decodes the fixed six-byte performative envelope --
// 0x00 0x53 <frame-type> <list-ctor> <list-size> <field-count> -- that
// precedes every non-empty AMQP frame, followed by field-count
// self-describing field values. Transfer frames additionally carry a
// trailing payload, which this function decodes via DecodePayload and
// appends to fields as the final element.
func DecodeFrame(data []byte) (frameType Type, fields []any, err error) {
	if len(data) < 6 {
		return 0, nil, &FrameShapeError{Reason: "too short for a frame envelope"}
	}
	if data[0] != 0x00 || data[1] != 0x53 {
		return 0, nil, &FrameShapeError{Reason: "missing described-type/smallulong descriptor prefix"}
	}
	frameType = Type(data[2])
	if data[3] != 0xc0 {
		return 0, nil, &FrameShapeError{Reason: "frame field list must use the list8 encoding"}
	}
	count := int(data[5])
	rest := data[6:]
	fields = make([]any, 0, count)
	for i := 0; i < count; i++ {
		var v any
		v, rest, err = encoding.Decode(rest)
		if err != nil {
			return 0, nil, errors.Wrapf(err, "decoding field %d of frame type 0x%02x", i, frameType)
		}
		fields = append(fields, v)
	}
	if frameType == TypeTransfer {
		payload, perr := DecodePayload(rest)
		if perr != nil {
			return 0, nil, errors.Wrap(perr, "decoding transfer payload")
		}
		fields = append(fields, payload)
	}
	return frameType, fields, nil
}
