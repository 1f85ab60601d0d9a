package record

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/arnegrim/recurdns/internal/bufreader"
	"github.com/arnegrim/recurdns/internal/dnsname"
	"github.com/arnegrim/recurdns/internal/rrtype"
)

// Typed RDATA constructors and readers for the record types this
// resolver's builder and cache pass through opaquely. The resolver
// itself never needs to interpret rdata beyond the NS case Decode already
// handles (see spec.md §4.3); these exist for callers — tests, tooling,
// a future authoritative-serving mode — that do.

// NewA builds an A record's RData from an IPv4 address.
func NewA(ip net.IP) ([]byte, error) {
	v4 := ip.To4()
	if v4 == nil {
		return nil, fmt.Errorf("record: %s is not an IPv4 address", ip)
	}
	return []byte(v4), nil
}

// AsA interprets RData as an A record's address.
func (r Record) AsA() (net.IP, error) {
	if r.Type != rrtype.A {
		return nil, fmt.Errorf("record: type is %s, not A", r.Type)
	}
	if len(r.RData) != net.IPv4len {
		return nil, fmt.Errorf("record: A rdata is %d bytes, want %d", len(r.RData), net.IPv4len)
	}
	return net.IPv4(r.RData[0], r.RData[1], r.RData[2], r.RData[3]), nil
}

// NewAAAA builds an AAAA record's RData from an IPv6 address.
func NewAAAA(ip net.IP) ([]byte, error) {
	v6 := ip.To16()
	if v6 == nil || ip.To4() != nil {
		return nil, fmt.Errorf("record: %s is not an IPv6 address", ip)
	}
	return []byte(v6), nil
}

// AsAAAA interprets RData as an AAAA record's address.
func (r Record) AsAAAA() (net.IP, error) {
	if r.Type != rrtype.AAAA {
		return nil, fmt.Errorf("record: type is %s, not AAAA", r.Type)
	}
	if len(r.RData) != net.IPv6len {
		return nil, fmt.Errorf("record: AAAA rdata is %d bytes, want %d", len(r.RData), net.IPv6len)
	}
	return net.IP(r.RData), nil
}

// NewName builds the RData for any record whose value is a single domain
// name (CNAME, NS, PTR).
func NewName(n dnsname.Name) ([]byte, error) {
	return dnsname.Encode(n)
}

// AsName decodes RData as a single domain name, for CNAME, NS, and PTR
// records. Compression pointers within rdata are resolved relative to the
// record's own RData slice, which is correct only when the rdata was
// extracted without compression (the decoder's default); a record whose
// rdata pointed back into the enclosing message needs record.Decode's
// resolveNSName path instead.
func (r Record) AsName() (dnsname.Name, error) {
	switch r.Type {
	case rrtype.CNAME, rrtype.NS, rrtype.PTR:
	default:
		return nil, fmt.Errorf("record: type %s has no single-name rdata", r.Type)
	}
	return dnsname.Decode(bufreader.New(r.RData))
}

// NewMX builds an MX record's RData: a 2-byte preference followed by the
// exchange domain name.
func NewMX(preference uint16, exchange dnsname.Name) ([]byte, error) {
	name, err := dnsname.Encode(exchange)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 2+len(name))
	binary.BigEndian.PutUint16(buf, preference)
	copy(buf[2:], name)
	return buf, nil
}

// AsMX interprets RData as an MX record.
func (r Record) AsMX() (preference uint16, exchange dnsname.Name, err error) {
	if r.Type != rrtype.MX {
		return 0, nil, fmt.Errorf("record: type is %s, not MX", r.Type)
	}
	if len(r.RData) < 3 {
		return 0, nil, fmt.Errorf("record: MX rdata too short: %d bytes", len(r.RData))
	}
	preference = binary.BigEndian.Uint16(r.RData[0:2])
	exchange, err = dnsname.Decode(bufreader.New(r.RData[2:]))
	return preference, exchange, err
}

// NewTXT builds a TXT record's RData: a single length-prefixed character
// string (this resolver does not split text across multiple strings).
func NewTXT(text string) ([]byte, error) {
	if len(text) > 255 {
		return nil, fmt.Errorf("record: TXT string is %d bytes, exceeds 255", len(text))
	}
	buf := make([]byte, 1+len(text))
	buf[0] = byte(len(text))
	copy(buf[1:], text)
	return buf, nil
}

// AsTXT interprets RData as a single character-string TXT record.
func (r Record) AsTXT() (string, error) {
	if r.Type != rrtype.TXT {
		return "", fmt.Errorf("record: type is %s, not TXT", r.Type)
	}
	if len(r.RData) == 0 {
		return "", fmt.Errorf("record: TXT rdata is empty")
	}
	n := int(r.RData[0])
	if len(r.RData) < 1+n {
		return "", fmt.Errorf("record: TXT rdata truncated: declares %d bytes, has %d", n, len(r.RData)-1)
	}
	return string(r.RData[1 : 1+n]), nil
}

// SOAFields holds the seven fields of an SOA record's RData.
type SOAFields struct {
	MName, RName                            dnsname.Name
	Serial, Refresh, Retry, Expire, Minimum uint32
}

// NewSOA builds an SOA record's RData.
func NewSOA(f SOAFields) ([]byte, error) {
	mname, err := dnsname.Encode(f.MName)
	if err != nil {
		return nil, err
	}
	rname, err := dnsname.Encode(f.RName)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(mname)+len(rname)+20)
	buf = append(buf, mname...)
	buf = append(buf, rname...)
	var tail [20]byte
	binary.BigEndian.PutUint32(tail[0:4], f.Serial)
	binary.BigEndian.PutUint32(tail[4:8], f.Refresh)
	binary.BigEndian.PutUint32(tail[8:12], f.Retry)
	binary.BigEndian.PutUint32(tail[12:16], f.Expire)
	binary.BigEndian.PutUint32(tail[16:20], f.Minimum)
	buf = append(buf, tail[:]...)
	return buf, nil
}

// AsSOA interprets RData as an SOA record.
func (r Record) AsSOA() (SOAFields, error) {
	if r.Type != rrtype.SOA {
		return SOAFields{}, fmt.Errorf("record: type is %s, not SOA", r.Type)
	}
	br := bufreader.New(r.RData)
	mname, err := dnsname.Decode(br)
	if err != nil {
		return SOAFields{}, fmt.Errorf("record: SOA mname: %w", err)
	}
	rname, err := dnsname.Decode(br)
	if err != nil {
		return SOAFields{}, fmt.Errorf("record: SOA rname: %w", err)
	}
	tail, err := br.ReadN(20)
	if err != nil {
		return SOAFields{}, fmt.Errorf("record: SOA fixed fields: %w", err)
	}
	return SOAFields{
		MName:   mname,
		RName:   rname,
		Serial:  binary.BigEndian.Uint32(tail[0:4]),
		Refresh: binary.BigEndian.Uint32(tail[4:8]),
		Retry:   binary.BigEndian.Uint32(tail[8:12]),
		Expire:  binary.BigEndian.Uint32(tail[12:16]),
		Minimum: binary.BigEndian.Uint32(tail[16:20]),
	}, nil
}
