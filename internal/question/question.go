// Package question implements the DNS question section entry (RFC 1035
// §4.1.2): QNAME, QTYPE, QCLASS.
package question

import (
	"encoding/binary"
	"fmt"

	"github.com/arnegrim/recurdns/internal/bufreader"
	"github.com/arnegrim/recurdns/internal/dnsname"
	"github.com/arnegrim/recurdns/internal/rrclass"
	"github.com/arnegrim/recurdns/internal/rrtype"
)

// Question is one entry of a message's question section.
type Question struct {
	Name  dnsname.Name
	Type  rrtype.Type
	Class rrclass.Class
}

// MarshalBinary encodes the question in uncompressed wire form.
func (q Question) MarshalBinary() ([]byte, error) {
	name, err := dnsname.Encode(q.Name)
	if err != nil {
		return nil, fmt.Errorf("question: %w", err)
	}
	buf := make([]byte, len(name)+4)
	n := copy(buf, name)
	binary.BigEndian.PutUint16(buf[n:], uint16(q.Type))
	binary.BigEndian.PutUint16(buf[n+2:], uint16(q.Class))
	return buf, nil
}

// Decode reads a Question off r's current cursor.
func Decode(r *bufreader.Reader) (Question, error) {
	name, err := dnsname.Decode(r)
	if err != nil {
		return Question{}, err
	}
	rest, err := r.ReadN(4)
	if err != nil {
		return Question{}, fmt.Errorf("question: %w", err)
	}
	return Question{
		Name:  name,
		Type:  rrtype.Type(binary.BigEndian.Uint16(rest[0:2])),
		Class: rrclass.Class(binary.BigEndian.Uint16(rest[2:4])),
	}, nil
}
