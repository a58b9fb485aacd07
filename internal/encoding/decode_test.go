package encoding

import (
	"testing"

	"github.com/coreamqp/amqp-link/internal/buffer"
	"github.com/stretchr/testify/require"
)

func encodeRoundTrip(t *testing.T, v any) any {
	t.Helper()
	wr := buffer.New(16)
	require.NoError(t, Marshal(wr, v))
	got, rest, err := Decode(wr.Bytes())
	require.NoError(t, err)
	require.Empty(t, rest)
	return got
}

func TestRoundTripPrimitives(t *testing.T) {
	require.Equal(t, true, encodeRoundTrip(t, true))
	require.Equal(t, false, encodeRoundTrip(t, false))
	require.Equal(t, uint32(42), encodeRoundTrip(t, uint32(42)))
	require.Equal(t, int32(-7), encodeRoundTrip(t, int32(-7)))
	require.Equal(t, uint64(9000000000), encodeRoundTrip(t, uint64(9000000000)))
	require.Equal(t, "hello", encodeRoundTrip(t, "hello"))
	require.Equal(t, Symbol("amqp:accepted:list"), encodeRoundTrip(t, Symbol("amqp:accepted:list")))
}

func TestDecodeNull(t *testing.T) {
	v, rest, err := Decode([]byte{codeNull})
	require.NoError(t, err)
	require.Nil(t, v)
	require.Empty(t, rest)
}

func TestDecodeEmptyBinaryIsAbsent(t *testing.T) {
	v, rest, err := Decode([]byte{codeVbin8, 0x00})
	require.NoError(t, err)
	require.Nil(t, v)
	require.Empty(t, rest)
}

func TestDecodeEmptyStringIsAbsent(t *testing.T) {
	v, _, err := Decode([]byte{codeStr8, 0x00})
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestDecodeUnrecognizedFormatCode(t *testing.T) {
	_, _, err := Decode([]byte{0x99})
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, byte(0x99), de.Code)
}

func TestDecodeTruncatedFixedWidth(t *testing.T) {
	_, _, err := Decode([]byte{codeUint, 0x00, 0x01})
	require.Error(t, err)
}

func TestDecodeList8(t *testing.T) {
	// list8: size=5 (count byte + 2x smalluint bodies), count=2
	data := []byte{codeList8, 0x05, 0x02, codeSmall, 0x01, codeSmall, 0x02}
	v, rest, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, []any{uint32(1), uint32(2)}, v)
}

func TestDecodeMapOddCountIsTruncationError(t *testing.T) {
	// map8 claiming 3 entries (odd) but only one key present.
	data := []byte{codeMap8, 0x03, 0x03, codeSmall, 0x01}
	_, _, err := Decode(data)
	require.Error(t, err)
}

func TestDecodeArraySingleConstructorGovernsAllElements(t *testing.T) {
	// array8: size=4, count=2, element ctor = smalluint, 2 single-byte bodies
	data := []byte{codeArray8, 0x04, 0x02, codeSmall, 0x01, 0x02}
	v, rest, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, []any{uint32(1), uint32(2)}, v)
}

func TestDecodeDescribedProjectsKnownCompositeState(t *testing.T) {
	// 0x00 <smallulong descriptor=36 (accepted)> <list0>
	data := []byte{codeDescribed, codeSmallUL, 36, codeList0}
	v, rest, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, rest)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	require.Contains(t, m, "accepted")
}

func TestDecodeDescribedUnknownDescriptorDiscardsWrapper(t *testing.T) {
	// descriptor 0x28 (source) isn't a delivery-state composite, so the
	// bare value is returned with the descriptor discarded.
	data := []byte{codeDescribed, codeSmallUL, 0x28, codeList0}
	v, rest, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, []any{}, v)
}
