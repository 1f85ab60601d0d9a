package dnsname

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnegrim/recurdns/internal/bufreader"
	"github.com/arnegrim/recurdns/internal/dnserr"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n := Name{Label("www"), Label("example"), Label("com")}

	wire, err := Encode(n)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 'w', 'w', 'w', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}, wire)

	got, err := Decode(bufreader.New(wire))
	require.NoError(t, err)
	assert.True(t, n.Equal(got))
}

func TestRootNameRoundTrip(t *testing.T) {
	wire, err := Encode(Name{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, wire)

	got, err := Decode(bufreader.New(wire))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeFollowsPointer(t *testing.T) {
	// "example.com" at offset 0, then at offset 13 a pointer back to it.
	packet := []byte{
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0, // 0..12
		0xC0, 0x00, // pointer to offset 0
	}
	r := bufreader.New(packet)
	require.NoError(t, r.Seek(13))

	got, err := Decode(r)
	require.NoError(t, err)
	assert.Equal(t, "example.com", got.String())
	assert.Equal(t, 15, r.Offset())
}

func TestDecodeRejectsForwardPointer(t *testing.T) {
	packet := []byte{0xC0, 0x02, 0x00}
	_, err := Decode(bufreader.New(packet))
	require.Error(t, err)
	assert.True(t, errors.Is(err, dnserr.ErrMalformedName))
}

func TestDecodeRejectsReservedLengthPattern(t *testing.T) {
	packet := []byte{0x40, 0x00}
	_, err := Decode(bufreader.New(packet))
	require.Error(t, err)
	assert.True(t, errors.Is(err, dnserr.ErrMalformedName))
}

func TestEncodeRejectsOversizedLabel(t *testing.T) {
	big := make([]byte, 64)
	_, err := Encode(Name{Label(big)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dnserr.ErrMalformedName))
}

func TestEncodeRejectsOversizedName(t *testing.T) {
	label := make([]byte, 63)
	n := make(Name, 0, 5)
	for i := 0; i < 5; i++ {
		n = append(n, Label(label))
	}
	_, err := Encode(n)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dnserr.ErrMalformedName))
}

func TestFromDottedTrimsTrailingDot(t *testing.T) {
	n := FromDotted("a.gtld-servers.net.")
	assert.Equal(t, "a.gtld-servers.net", n.String())
}

func TestHostnameJoinsWithTrailingDot(t *testing.T) {
	assert.Equal(t, "a.gtld-servers.net.", Hostname([]string{"a", "gtld-servers", "net"}))
}
