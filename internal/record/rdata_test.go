package record

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnegrim/recurdns/internal/dnsname"
	"github.com/arnegrim/recurdns/internal/rrtype"
)

func TestARoundTrip(t *testing.T) {
	ip := net.IPv4(93, 184, 216, 34)
	rdata, err := NewA(ip)
	require.NoError(t, err)

	r := Record{Type: rrtype.A, RData: rdata}
	got, err := r.AsA()
	require.NoError(t, err)
	assert.True(t, got.Equal(ip.To4()))
}

func TestNewAAAARejectsIPv4(t *testing.T) {
	_, err := NewAAAA(net.IPv4(1, 2, 3, 4))
	require.Error(t, err)
}

func TestMXRoundTrip(t *testing.T) {
	exchange := dnsname.FromDotted("mail.example.com")
	rdata, err := NewMX(10, exchange)
	require.NoError(t, err)

	r := Record{Type: rrtype.MX, RData: rdata}
	pref, got, err := r.AsMX()
	require.NoError(t, err)
	assert.Equal(t, uint16(10), pref)
	assert.True(t, exchange.Equal(got))
}

func TestTXTRoundTrip(t *testing.T) {
	rdata, err := NewTXT("hello world")
	require.NoError(t, err)

	r := Record{Type: rrtype.TXT, RData: rdata}
	got, err := r.AsTXT()
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestNameRoundTripCNAME(t *testing.T) {
	target := dnsname.FromDotted("canonical.example.com")
	rdata, err := NewName(target)
	require.NoError(t, err)

	r := Record{Type: rrtype.CNAME, RData: rdata}
	got, err := r.AsName()
	require.NoError(t, err)
	assert.True(t, target.Equal(got))
}

func TestSOARoundTrip(t *testing.T) {
	f := SOAFields{
		MName: dnsname.FromDotted("ns1.example.com"), RName: dnsname.FromDotted("admin.example.com"),
		Serial: 2024010100, Refresh: 7200, Retry: 3600, Expire: 1209600, Minimum: 300,
	}
	rdata, err := NewSOA(f)
	require.NoError(t, err)

	r := Record{Type: rrtype.SOA, RData: rdata}
	got, err := r.AsSOA()
	require.NoError(t, err)
	assert.True(t, f.MName.Equal(got.MName))
	assert.True(t, f.RName.Equal(got.RName))
	assert.Equal(t, f.Serial, got.Serial)
	assert.Equal(t, f.Minimum, got.Minimum)
}
