package encoding

import "github.com/coreamqp/amqp-link/internal/buffer"

// MarshalComposite writes the described-list encoding used by every
// performative and delivery-state composite: a 0x00 constructor, a
// ulong descriptor, then the fields as an AMQP list, with trailing
// fields whose omit flag is set trimmed from the end (AMQP composites
// are allowed to end short). The field values themselves are not
// inspected when trimming.
func MarshalComposite(wr *buffer.Buffer, descriptor uint64, fields []any, omit []bool) error {
	wr.AppendByte(codeDescribed)
	wr.AppendByte(codeSmallUL)
	wr.AppendByte(byte(descriptor))
	end := len(fields)
	for end > 0 && omit != nil && end-1 < len(omit) && omit[end-1] {
		end--
	}
	return marshalList(wr, fields[:end])
}

// Field looks up index i in fields, returning nil if the composite was
// encoded short (a trailing omitted field) or the element itself is nil.
func Field(fields []any, i int) any {
	if i < 0 || i >= len(fields) {
		return nil
	}
	return fields[i]
}

// Uint32 coerces field to a uint32, accepting any of the unsigned
// integer widths the decoder may have produced for it.
func Uint32(field any) (uint32, bool) {
	switch v := field.(type) {
	case uint32:
		return v, true
	case uint16:
		return uint32(v), true
	case uint8:
		return uint32(v), true
	case uint64:
		return uint32(v), true
	}
	return 0, false
}

// Uint32Ptr is like Uint32 but returns a pointer, or nil when field is
// absent, matching AMQP's "field not present" semantics.
func Uint32Ptr(field any) *uint32 {
	v, ok := Uint32(field)
	if !ok {
		return nil
	}
	return &v
}

func Uint16(field any) (uint16, bool) {
	switch v := field.(type) {
	case uint16:
		return v, true
	case uint8:
		return uint32ToUint16(v), true
	case uint32:
		return uint32ToUint16(v), true
	}
	return 0, false
}

func uint32ToUint16[T uint8 | uint32](v T) uint16 { return uint16(v) }

func Uint64(field any) (uint64, bool) {
	switch v := field.(type) {
	case uint64:
		return v, true
	case uint32:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	}
	return 0, false
}

func Bool(field any) bool {
	v, _ := field.(bool)
	return v
}

func BoolPtr(field any) *bool {
	v, ok := field.(bool)
	if !ok {
		return nil
	}
	return &v
}

func String(field any) string {
	v, _ := field.(string)
	return v
}

func StringPtr(field any) *string {
	if field == nil {
		return nil
	}
	v, ok := field.(string)
	if !ok {
		return nil
	}
	return &v
}

func Bytes(field any) []byte {
	v, _ := field.([]byte)
	return v
}

func SymbolVal(field any) Symbol {
	v, _ := field.(Symbol)
	return v
}

// MultiSymbolVal coerces field to a MultiSymbol, accepting either the
// single-Symbol or array-of-Symbol shape Decode may have produced for an
// AMQP "one-or-many" symbol field.
func MultiSymbolVal(field any) MultiSymbol {
	switch v := field.(type) {
	case Symbol:
		return MultiSymbol{v}
	case []any:
		syms := make(MultiSymbol, 0, len(v))
		for _, item := range v {
			if s, ok := item.(Symbol); ok {
				syms = append(syms, s)
			}
		}
		return syms
	}
	return nil
}

// StringKeyedMap coerces field to a map[string]any, converting Symbol or
// string keys; other key types are dropped, matching the string-keyed
// shape the "properties" fields on performatives expect.
func StringKeyedMap(field any) map[string]any {
	m := Map(field)
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch key := k.(type) {
		case Symbol:
			out[string(key)] = v
		case string:
			out[key] = v
		}
	}
	return out
}

func List(field any) []any {
	v, _ := field.([]any)
	return v
}

func Map(field any) map[any]any {
	v, _ := field.(map[any]any)
	return v
}

// ErrorVal decodes the recognized "amqp:error:list" composite shape
// (condition, description, info) out of a generically-decoded field.
func ErrorVal(field any) *Error {
	list := List(field)
	if list == nil {
		return nil
	}
	e := &Error{}
	if len(list) > 0 {
		e.Condition = ErrCond(SymbolVal(list[0]))
	}
	if len(list) > 1 {
		e.Description = String(list[1])
	}
	if len(list) > 2 {
		if m := Map(list[2]); m != nil {
			info := make(map[string]any, len(m))
			for k, v := range m {
				if s, ok := k.(Symbol); ok {
					info[string(s)] = v
				} else if s, ok := k.(string); ok {
					info[s] = v
				}
			}
			e.Info = info
		}
	}
	return e
}
