package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnegrim/recurdns/internal/bufreader"
	"github.com/arnegrim/recurdns/internal/dnsname"
	"github.com/arnegrim/recurdns/internal/rrclass"
	"github.com/arnegrim/recurdns/internal/rrtype"
)

func TestMarshalDecodeRoundTripARecord(t *testing.T) {
	r := Record{
		Name:     dnsname.FromDotted("example.com"),
		Type:     rrtype.A,
		Class:    rrclass.IN,
		TTL:      300,
		RDLength: 4,
		RData:    []byte{93, 184, 216, 34},
	}

	wire, err := r.MarshalBinary()
	require.NoError(t, err)

	got, err := Decode(bufreader.New(wire), false)
	require.NoError(t, err)
	assert.True(t, r.Equal(got))
	assert.Nil(t, got.DecodedName)
}

func TestDecodeResolvesNSRdataWhenAsked(t *testing.T) {
	nsName := dnsname.FromDotted("a.gtld-servers.net")
	nsWire, err := dnsname.Encode(nsName)
	require.NoError(t, err)

	r := Record{
		Name:     dnsname.FromDotted("com"),
		Type:     rrtype.NS,
		Class:    rrclass.IN,
		TTL:      3600,
		RDLength: uint16(len(nsWire)),
		RData:    nsWire,
	}
	wire, err := r.MarshalBinary()
	require.NoError(t, err)

	reader := bufreader.New(wire)
	got, err := Decode(reader, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "gtld-servers", "net"}, got.DecodedName)
	assert.Equal(t, len(wire), reader.Offset())
}

func TestDecodeSkipsNSResolutionWhenNotAsked(t *testing.T) {
	nsName := dnsname.FromDotted("a.gtld-servers.net")
	nsWire, err := dnsname.Encode(nsName)
	require.NoError(t, err)

	r := Record{
		Name:     dnsname.FromDotted("com"),
		Type:     rrtype.NS,
		Class:    rrclass.IN,
		TTL:      3600,
		RDLength: uint16(len(nsWire)),
		RData:    nsWire,
	}
	wire, err := r.MarshalBinary()
	require.NoError(t, err)

	got, err := Decode(bufreader.New(wire), false)
	require.NoError(t, err)
	assert.Nil(t, got.DecodedName)
}

func TestEqualIgnoresDecodedName(t *testing.T) {
	a := Record{Name: dnsname.FromDotted("com"), Type: rrtype.NS, Class: rrclass.IN, TTL: 1, RData: []byte{1}, RDLength: 1}
	b := a
	b.DecodedName = []string{"whatever"}
	assert.True(t, a.Equal(b))
}
