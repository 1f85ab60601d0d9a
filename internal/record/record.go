// Package record implements the DNS resource record (RFC 1035 §4.1.3):
// name, type, class, ttl, rdata, plus the one decode-time interpretation
// of rdata this resolver needs — resolving an NS record's rdata back into
// a domain name, to discover the next referral's hostname.
package record

import (
	"encoding/binary"
	"fmt"

	"github.com/arnegrim/recurdns/internal/bufreader"
	"github.com/arnegrim/recurdns/internal/dnsname"
	"github.com/arnegrim/recurdns/internal/rrclass"
	"github.com/arnegrim/recurdns/internal/rrtype"
)

const fixedFieldsSize = 2 + 2 + 4 + 2 // type + class + ttl + rdlength

// Record is a single resource record. DecodedName is populated only when
// the record is an NS record and the caller asked the decoder to resolve
// it; it is derivative and plays no part in Equal.
type Record struct {
	Name        dnsname.Name
	Type        rrtype.Type
	Class       rrclass.Class
	TTL         uint32
	RDLength    uint16
	RData       []byte
	DecodedName []string
}

// Equal compares records by the value tuple (name, type, class, ttl,
// data_len, data); the decoded view is derivative and excluded.
func (r Record) Equal(other Record) bool {
	return r.Name.Equal(other.Name) &&
		r.Type == other.Type &&
		r.Class == other.Class &&
		r.TTL == other.TTL &&
		r.RDLength == other.RDLength &&
		string(r.RData) == string(other.RData)
}

// MarshalBinary encodes the record in uncompressed wire form.
func (r Record) MarshalBinary() ([]byte, error) {
	name, err := dnsname.Encode(r.Name)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}

	buf := make([]byte, len(name)+fixedFieldsSize+len(r.RData))
	n := copy(buf, name)
	binary.BigEndian.PutUint16(buf[n:], uint16(r.Type))
	n += 2
	binary.BigEndian.PutUint16(buf[n:], uint16(r.Class))
	n += 2
	binary.BigEndian.PutUint32(buf[n:], r.TTL)
	n += 4
	binary.BigEndian.PutUint16(buf[n:], uint16(len(r.RData)))
	n += 2
	copy(buf[n:], r.RData)

	return buf, nil
}

// Decode reads a Record off r's current cursor. When resolveNSName is true
// and the record is an NS record, its rdata is additionally decoded as a
// domain name into DecodedName, per the rdata reinterpretation rule: reset
// to the start of rdata, decode a name, then restore the cursor to just
// past rdata so the caller can keep walking the message.
func Decode(r *bufreader.Reader, resolveNSName bool) (Record, error) {
	name, err := dnsname.Decode(r)
	if err != nil {
		return Record{}, err
	}

	fixed, err := r.ReadN(fixedFieldsSize)
	if err != nil {
		return Record{}, fmt.Errorf("record: %w", err)
	}

	rec := Record{
		Name:     name,
		Type:     rrtype.Type(binary.BigEndian.Uint16(fixed[0:2])),
		Class:    rrclass.Class(binary.BigEndian.Uint16(fixed[2:4])),
		TTL:      binary.BigEndian.Uint32(fixed[4:8]),
		RDLength: binary.BigEndian.Uint16(fixed[8:10]),
	}

	rdataStart := r.Offset()
	rdata, err := r.ReadN(int(rec.RDLength))
	if err != nil {
		return Record{}, fmt.Errorf("record: %w", err)
	}
	rec.RData = make([]byte, len(rdata))
	copy(rec.RData, rdata)
	rdataEnd := r.Offset()

	if resolveNSName && rec.Type == rrtype.NS {
		if err := r.Seek(rdataStart); err != nil {
			return Record{}, fmt.Errorf("record: seeking to rdata: %w", err)
		}
		nsName, err := dnsname.Decode(r)
		if err != nil {
			return Record{}, fmt.Errorf("record: decoding NS rdata: %w", err)
		}
		rec.DecodedName = dnsname.DecodeUTF8(nsName)
		if err := r.Seek(rdataEnd); err != nil {
			return Record{}, fmt.Errorf("record: restoring cursor past rdata: %w", err)
		}
	}

	return rec, nil
}
