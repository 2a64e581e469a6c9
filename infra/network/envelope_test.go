package network

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTryParseHeaderIncompleteOnShortHeader(t *testing.T) {
	buf := NewBuffer()
	buf.Write([]byte{1, 2, 3})
	status, _ := TryParseHeader(buf)
	require.Equal(t, StatusIncomplete, status)
	require.Equal(t, 3, buf.ReadableBytes(), "a short header must not be consumed")
}

func TestTryParseHeaderIncompleteOnShortBody(t *testing.T) {
	out, err := Serialize(HashMethodName("Svc.Method"), &EchoRequest{Text: "hello world"})
	require.NoError(t, err)
	full := out.ReadableSlice()

	buf := NewBuffer()
	buf.Write(full[:len(full)-1]) // one byte short of the full envelope
	status, _ := TryParseHeader(buf)
	require.Equal(t, StatusIncomplete, status)
	require.Equal(t, len(full)-1, buf.ReadableBytes(), "the length header itself must not be consumed until the whole envelope has arrived")
}

func TestTryParseHeaderBadOnImpossibleLength(t *testing.T) {
	buf := NewBuffer()
	buf.WriteUint64(3) // shorter than headerWidth itself
	status, _ := TryParseHeader(buf)
	require.Equal(t, StatusBad, status)
}

func TestSerializeParseEnvelopeRoundTrip(t *testing.T) {
	methodID := HashMethodName("EchoService.Echo")
	req := &EchoRequest{Text: "round trip"}

	out, err := Serialize(methodID, req)
	require.NoError(t, err)

	buf := NewBuffer()
	buf.Write(out.ReadableSlice())

	got := &EchoRequest{}
	status, gotMethodID := ParseEnvelope(buf, got)
	require.Equal(t, StatusOK, status)
	require.Equal(t, methodID, gotMethodID)
	require.Equal(t, req.Text, got.Text)
}

func TestTryParseHeaderHandlesSplitAcrossMultipleWrites(t *testing.T) {
	out, err := Serialize(HashMethodName("Svc.Method"), &EchoRequest{Text: "streamed"})
	require.NoError(t, err)
	full := append([]byte(nil), out.ReadableSlice()...)

	buf := NewBuffer()
	for _, b := range full[:len(full)-1] {
		buf.Write([]byte{b})
		status, _ := TryParseHeader(buf)
		require.Equal(t, StatusIncomplete, status)
	}
	buf.Write(full[len(full)-1:])
	status, totalLength := TryParseHeader(buf)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(len(full)-headerWidth), totalLength)
	require.Equal(t, HashMethodName("Svc.Method"), ParseMethodID(buf))
}
