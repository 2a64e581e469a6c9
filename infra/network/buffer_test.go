package network

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferWriteReadRoundTrip(t *testing.T) {
	buf := NewBuffer()
	buf.Write([]byte("hello"))
	require.Equal(t, 5, buf.ReadableBytes())
	require.Equal(t, []byte("hello"), buf.Read(5))
	require.Equal(t, 0, buf.ReadableBytes())
}

func TestBufferUint64RoundTrip(t *testing.T) {
	buf := NewBuffer()
	buf.WriteUint64(123456789)
	require.Equal(t, uint64(123456789), buf.ReadUint64())
}

func TestBufferEnsureWritableCompactsBeforeGrowing(t *testing.T) {
	buf := NewBuffer()
	buf.Write(make([]byte, initialBufferCapacity-10))
	buf.Read(initialBufferCapacity - 20)
	capBefore := buf.Capacity()

	buf.EnsureWritable(100)
	require.Equal(t, capBefore, buf.Capacity(), "compaction should satisfy a small request without growing")
}

func TestBufferEnsureWritableGrowsWhenCompactionInsufficient(t *testing.T) {
	buf := NewBuffer()
	buf.Write(make([]byte, initialBufferCapacity))
	buf.EnsureWritable(1)
	require.Greater(t, buf.Capacity(), initialBufferCapacity)
}

func TestBufferRetrieveResetsCursorsWhenFullyDrained(t *testing.T) {
	buf := NewBuffer()
	buf.Write([]byte("abc"))
	buf.Retrieve(3)
	require.Equal(t, 0, buf.ReadableBytes())
	require.Equal(t, buf.Capacity(), buf.WritableBytes())
}
