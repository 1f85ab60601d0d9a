package bufreader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnegrim/recurdns/internal/dnserr"
)

func TestReadByteAdvancesCursor(t *testing.T) {
	r := New([]byte{0x01, 0x02, 0x03})

	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)
	assert.Equal(t, 1, r.Offset())

	b, err = r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), b)
}

func TestReadNReturnsSlice(t *testing.T) {
	r := New([]byte("hello world"))

	got, err := r.ReadN(5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
	assert.Equal(t, 5, r.Offset())
}

func TestReadPastEndIsTruncated(t *testing.T) {
	r := New([]byte{0x01})

	_, err := r.ReadByte()
	require.NoError(t, err)

	_, err = r.ReadByte()
	require.Error(t, err)
	assert.True(t, errors.Is(err, dnserr.ErrInputTruncated))

	_, err = New([]byte{0x01, 0x02}).ReadN(5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dnserr.ErrInputTruncated))
}

func TestSeekOutOfRangeFailsOnNextRead(t *testing.T) {
	r := New([]byte{0x01, 0x02})

	require.NoError(t, r.Seek(10))
	_, err := r.ReadByte()
	require.Error(t, err)
	assert.True(t, errors.Is(err, dnserr.ErrInputTruncated))
}

func TestCloneIsIndependent(t *testing.T) {
	r := New([]byte{0x01, 0x02, 0x03, 0x04})
	_, err := r.ReadN(2)
	require.NoError(t, err)

	clone := r.Clone()
	require.NoError(t, clone.Seek(0))

	b, err := clone.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)

	// r's own cursor is untouched by the clone's seek.
	assert.Equal(t, 2, r.Offset())
}
