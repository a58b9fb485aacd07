package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/coreamqp/amqp-link/internal/buffer"
)

// Marshaler is implemented by composite types that know how to encode
// themselves onto a wire buffer, e.g. the delivery-state composites.
type Marshaler interface {
	Marshal(wr *buffer.Buffer) error
}

// Marshal writes v to wr using one fixed AMQP encoding per Go type.
// Integers and floats always use their full-width format code (the
// compact uint0/smalluint-style codes are never written); binary,
// string, symbol, list and map values use the 8-bit form when they fit.
// It accepts the primitive, list and map shapes Decode produces plus a
// few Go types used to build outgoing values (int, Annotations, *Error,
// Marshaler); the map[string]any Decode returns for a delivery-state
// composite is not accepted.
func Marshal(wr *buffer.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		wr.AppendByte(codeNull)
	case bool:
		if val {
			wr.AppendByte(codeBoolT)
		} else {
			wr.AppendByte(codeBoolF)
		}
	case uint8:
		wr.AppendByte(codeUbyte)
		wr.AppendByte(val)
	case int8:
		wr.AppendByte(codeByte)
		wr.AppendByte(byte(val))
	case uint16:
		wr.AppendByte(codeUshort)
		appendUint16(wr, val)
	case int16:
		wr.AppendByte(codeShort)
		appendUint16(wr, uint16(val))
	case uint32:
		wr.AppendByte(codeUint)
		appendUint32(wr, val)
	case int32:
		wr.AppendByte(codeInt)
		appendUint32(wr, uint32(val))
	case uint64:
		wr.AppendByte(codeUlong)
		appendUint64(wr, val)
	case int64:
		wr.AppendByte(codeLong)
		appendUint64(wr, uint64(val))
	case int:
		return Marshal(wr, int64(val))
	case float32:
		wr.AppendByte(codeFloat)
		appendUint32(wr, math.Float32bits(val))
	case float64:
		wr.AppendByte(codeDouble)
		appendUint64(wr, math.Float64bits(val))
	case time.Time:
		wr.AppendByte(codeTime)
		appendUint64(wr, uint64(val.UnixMilli()))
	case UUID:
		wr.AppendByte(codeUUID)
		wr.Append(val[:])
	case []byte:
		return marshalBinary(wr, val)
	case string:
		return marshalString(wr, val)
	case Symbol:
		return marshalSymbol(wr, val)
	case MultiSymbol:
		return marshalMultiSymbol(wr, val)
	case []any:
		return marshalList(wr, val)
	case map[any]any:
		return marshalMap(wr, val)
	case Annotations:
		m := make(map[any]any, len(val))
		for k, v := range val {
			m[k] = v
		}
		return marshalMap(wr, m)
	case Marshaler:
		return val.Marshal(wr)
	case *Error:
		return marshalErrorComposite(wr, val)
	default:
		return fmt.Errorf("amqp: encode: unsupported type %T", v)
	}
	return nil
}

func appendUint16(wr *buffer.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	wr.Append(b[:])
}

func appendUint32(wr *buffer.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	wr.Append(b[:])
}

func appendUint64(wr *buffer.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	wr.Append(b[:])
}

func marshalBinary(wr *buffer.Buffer, b []byte) error {
	if len(b) <= math.MaxUint8 {
		wr.AppendByte(codeVbin8)
		wr.AppendByte(byte(len(b)))
	} else {
		wr.AppendByte(codeVbin32)
		appendUint32(wr, uint32(len(b)))
	}
	wr.Append(b)
	return nil
}

func marshalString(wr *buffer.Buffer, s string) error {
	if len(s) <= math.MaxUint8 {
		wr.AppendByte(codeStr8)
		wr.AppendByte(byte(len(s)))
	} else {
		wr.AppendByte(codeStr32)
		appendUint32(wr, uint32(len(s)))
	}
	wr.AppendString(s)
	return nil
}

func marshalSymbol(wr *buffer.Buffer, s Symbol) error {
	if len(s) <= math.MaxUint8 {
		wr.AppendByte(codeSym8)
		wr.AppendByte(byte(len(s)))
	} else {
		wr.AppendByte(codeSym32)
		appendUint32(wr, uint32(len(s)))
	}
	wr.AppendString(string(s))
	return nil
}

func marshalMultiSymbol(wr *buffer.Buffer, s MultiSymbol) error {
	if len(s) == 1 {
		return marshalSymbol(wr, s[0])
	}
	items := make([]any, len(s))
	for i, sym := range s {
		items[i] = sym
	}
	return marshalList(wr, items)
}

func marshalList(wr *buffer.Buffer, items []any) error {
	if len(items) == 0 {
		wr.AppendByte(codeList0)
		return nil
	}
	body := buffer.New(64)
	for _, item := range items {
		if err := Marshal(body, item); err != nil {
			return err
		}
	}
	return writeCompound(wr, codeList8, codeList32, len(items), body.Bytes())
}

func marshalMap(wr *buffer.Buffer, m map[any]any) error {
	body := buffer.New(64)
	for k, v := range m {
		if err := Marshal(body, k); err != nil {
			return err
		}
		if err := Marshal(body, v); err != nil {
			return err
		}
	}
	return writeCompound(wr, codeMap8, codeMap32, len(m)*2, body.Bytes())
}

// writeCompound writes the size/count header for a list or map body that
// has already been encoded into payload, choosing the 8- or 32-bit form
// based on the encoded length.
func writeCompound(wr *buffer.Buffer, code8, code32 byte, count int, payload []byte) error {
	// +1 accounts for the count byte/word itself being part of "size".
	if len(payload) < math.MaxUint8 && count <= math.MaxUint8 {
		wr.AppendByte(code8)
		wr.AppendByte(byte(len(payload) + 1))
		wr.AppendByte(byte(count))
	} else {
		wr.AppendByte(code32)
		appendUint32(wr, uint32(len(payload)+4))
		appendUint32(wr, uint32(count))
	}
	wr.Append(payload)
	return nil
}

// marshalErrorComposite writes the amqp:error:list composite (descriptor
// 0x1d) carrying condition, description, and info.
func marshalErrorComposite(wr *buffer.Buffer, e *Error) error {
	if e == nil {
		wr.AppendByte(codeNull)
		return nil
	}
	fields := []any{Symbol(e.Condition)}
	if e.Description != "" {
		fields = append(fields, e.Description)
	} else {
		fields = append(fields, nil)
	}
	if e.Info != nil {
		m := make(map[any]any, len(e.Info))
		for k, v := range e.Info {
			m[k] = v
		}
		fields = append(fields, m)
	} else {
		fields = append(fields, nil)
	}
	return MarshalComposite(wr, 0x1d, fields, nil)
}
