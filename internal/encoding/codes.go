package encoding

// Format codes from the AMQP 1.0 type system (amqp-core-types-v1.0,
// section 1.6). Each entry of the dispatch table in decode.go is
// registered under the constant for the code it handles.
const (
	codeDescribed byte = 0x00

	codeNull    byte = 0x40
	codeBoolT   byte = 0x41
	codeBoolF   byte = 0x42
	codeUint0   byte = 0x43
	codeUlong0  byte = 0x44
	codeUbyte   byte = 0x50
	codeByte    byte = 0x51
	codeSmall   byte = 0x52 // smalluint
	codeSmallUL byte = 0x53 // smallulong
	codeSmallI  byte = 0x54 // smallint
	codeSmallL  byte = 0x55 // smalllong
	codeBool    byte = 0x56
	codeUshort  byte = 0x60
	codeShort   byte = 0x61
	codeUint    byte = 0x70
	codeInt     byte = 0x71
	codeFloat   byte = 0x72
	codeChar    byte = 0x73
	codeDec32   byte = 0x74
	codeUlong   byte = 0x80
	codeLong    byte = 0x81
	codeDouble  byte = 0x82
	codeTime    byte = 0x83
	codeDec64   byte = 0x84
	codeUUID    byte = 0x98
	codeDec128  byte = 0x94
	codeVbin8   byte = 0xa0
	codeStr8    byte = 0xa1
	codeSym8    byte = 0xa3
	codeVbin32  byte = 0xb0
	codeStr32   byte = 0xb1
	codeSym32   byte = 0xb3
	codeList0   byte = 0x45
	codeList8   byte = 0xc0
	codeMap8    byte = 0xc1
	codeList32  byte = 0xd0
	codeMap32   byte = 0xd1
	codeArray8  byte = 0xe0
	codeArray32 byte = 0xf0
)

// descriptor codes of the composite delivery-state values. When a
// described type's descriptor resolves to one of these, the decoder
// projects the result to a single-entry map keyed by the state name
// instead of discarding the descriptor.
var compositeNames = map[uint64]string{
	35: "received",
	36: "accepted",
	37: "rejected",
	38: "released",
	39: "modified",
}
