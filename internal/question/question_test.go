package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnegrim/recurdns/internal/bufreader"
	"github.com/arnegrim/recurdns/internal/dnsname"
	"github.com/arnegrim/recurdns/internal/rrclass"
	"github.com/arnegrim/recurdns/internal/rrtype"
)

func TestMarshalDecodeRoundTrip(t *testing.T) {
	q := Question{
		Name:  dnsname.FromDotted("example.com"),
		Type:  rrtype.A,
		Class: rrclass.IN,
	}

	wire, err := q.MarshalBinary()
	require.NoError(t, err)

	got, err := Decode(bufreader.New(wire))
	require.NoError(t, err)
	assert.True(t, q.Name.Equal(got.Name))
	assert.Equal(t, q.Type, got.Type)
	assert.Equal(t, q.Class, got.Class)
}

func TestDecodeFollowsCompressedName(t *testing.T) {
	packet := []byte{
		3, 'c', 'o', 'm', 0, // "com" at offset 0
		0xC0, 0x00, // QNAME: pointer to offset 0
		0x00, 0x01, // QTYPE A
		0x00, 0x01, // QCLASS IN
	}
	r := bufreader.New(packet)
	require.NoError(t, r.Seek(5))

	got, err := Decode(r)
	require.NoError(t, err)
	assert.Equal(t, "com", got.Name.String())
	assert.Equal(t, rrtype.A, got.Type)
	assert.Equal(t, rrclass.IN, got.Class)
}
