// Package dnsname encodes and decodes RFC 1035 domain names: the
// length-prefixed label sequences that make up a wire-format DNS name,
// including compression pointers on decode.
package dnsname

import (
	"fmt"
	"strings"

	"github.com/arnegrim/recurdns/internal/bufreader"
	"github.com/arnegrim/recurdns/internal/dnserr"
)

const (
	// MaxLabelLen is the largest a single label may be (RFC 1035 §3.1).
	MaxLabelLen = 63
	// MaxWireLen is the largest a name may be on the wire, label lengths
	// and the terminator included (RFC 1035 §3.1).
	MaxWireLen = 255

	pointerMarker   byte = 0b11000000
	reservedMarker  byte = 0b01000000
	pointerHighMask byte = 0b00111111
)

// Label is one component of a domain name, stored as the raw bytes read
// off the wire (not decoded to UTF-8; see DecodeUTF8 for the one case that
// needs that).
type Label []byte

// Name is an ordered sequence of labels, terminated implicitly (the
// zero-length terminating label is never represented as an element).
type Name []Label

// Equal reports whether two names have identical label sequences.
func (n Name) Equal(other Name) bool {
	if len(n) != len(other) {
		return false
	}
	for i := range n {
		if string(n[i]) != string(other[i]) {
			return false
		}
	}
	return true
}

// Key returns an unambiguous, comparable encoding of the name suitable for
// use as (part of) a map key: its own wire encoding. Two names compare
// equal under Key iff they are Equal.
func (n Name) Key() string {
	buf, _ := Encode(n) // labels were already validated when decoded/built
	return string(buf)
}

// String renders the name in the usual dotted form, purely for logging.
func (n Name) String() string {
	parts := make([]string, len(n))
	for i, l := range n {
		parts[i] = string(l)
	}
	return strings.Join(parts, ".")
}

// FromDotted splits a dotted-form hostname (trailing dot tolerated) into a
// Name. It does not validate label lengths; callers that need wire-safety
// should run the result through Encode, which does.
func FromDotted(s string) Name {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	if s == "" {
		return Name{}
	}
	parts := strings.Split(s, ".")
	n := make(Name, 0, len(parts))
	for _, p := range parts {
		n = append(n, Label(p))
	}
	return n
}

// DecodeUTF8 converts a Name's raw label bytes into strings. This is only
// meaningful for the single case the resolver needs it: a decoded NS
// record's rdata, per RFC 1035 wire format a domain name and nothing else.
func DecodeUTF8(n Name) []string {
	out := make([]string, len(n))
	for i, l := range n {
		out[i] = string(l)
	}
	return out
}

// Hostname joins decoded labels into a connectable hostname, trailing dot
// included (DNS servers generally tolerate either form).
func Hostname(labels []string) string {
	return strings.Join(labels, ".") + "."
}

// Encode writes a Name in uncompressed wire form: each label as a length
// byte followed by its bytes, terminated by a single zero byte. Encode
// never emits compression pointers.
func Encode(n Name) ([]byte, error) {
	buf := make([]byte, 0, 16)
	for _, l := range n {
		if len(l) == 0 || len(l) > MaxLabelLen {
			return nil, fmt.Errorf("dnsname: label length %d out of range [1,%d]: %w", len(l), MaxLabelLen, dnserr.ErrMalformedName)
		}
		buf = append(buf, byte(len(l)))
		buf = append(buf, l...)
	}
	buf = append(buf, 0)
	if len(buf) > MaxWireLen {
		return nil, fmt.Errorf("dnsname: name is %d wire bytes, exceeds %d: %w", len(buf), MaxWireLen, dnserr.ErrMalformedName)
	}
	return buf, nil
}

// Decode reads a domain name at r's current cursor, following compression
// pointers as needed, and leaves the cursor just past the name as it
// appears at the call site (i.e. past the pointer's two bytes, not past
// whatever the pointer targets).
func Decode(r *bufreader.Reader) (Name, error) {
	n, err := decodeAt(r)
	if err != nil {
		return nil, err
	}
	if wireLen(n) > MaxWireLen {
		return nil, fmt.Errorf("dnsname: decoded name is %d wire bytes, exceeds %d: %w", wireLen(n), MaxWireLen, dnserr.ErrMalformedName)
	}
	return n, nil
}

// wireLen is the size a Name would occupy if re-encoded uncompressed:
// every label's length byte and bytes, plus the terminator.
func wireLen(n Name) int {
	total := 1 // terminator
	for _, l := range n {
		total += 1 + len(l)
	}
	return total
}

// decodeAt implements the recursive descent described in spec §4.2: read
// labels until a zero terminator or a compression pointer, which is
// always final (a name cannot resume after a pointer). Every pointer must
// target an offset strictly before the label that referenced it, which
// bounds the recursion without a separate hop counter.
func decodeAt(r *bufreader.Reader) (Name, error) {
	var labels Name

	for {
		pos := r.Offset()
		lb, err := r.ReadByte()
		if err != nil {
			return nil, err
		}

		switch {
		case lb == 0:
			return labels, nil

		case lb&pointerMarker == pointerMarker:
			b2, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			target := (int(lb&pointerHighMask) << 8) | int(b2)
			if target >= pos {
				return nil, fmt.Errorf("dnsname: pointer at %d targets %d, not strictly before it: %w", pos, target, dnserr.ErrMalformedName)
			}

			sub := r.Clone()
			if err := sub.Seek(target); err != nil {
				return nil, fmt.Errorf("dnsname: pointer target %d: %w", target, err)
			}
			rest, err := decodeAt(sub)
			if err != nil {
				return nil, err
			}
			labels = append(labels, rest...)
			return labels, nil

		case lb&pointerMarker == reservedMarker || (lb&pointerMarker) == 0b10000000:
			return nil, fmt.Errorf("dnsname: reserved label length pattern 0x%02x: %w", lb, dnserr.ErrMalformedName)

		default:
			length := int(lb)
			if length > MaxLabelLen {
				return nil, fmt.Errorf("dnsname: label length %d exceeds %d: %w", length, MaxLabelLen, dnserr.ErrMalformedName)
			}
			data, err := r.ReadN(length)
			if err != nil {
				return nil, err
			}
			label := make(Label, length)
			copy(label, data)
			labels = append(labels, label)

			if wireLen(labels) > MaxWireLen {
				return nil, fmt.Errorf("dnsname: name exceeds %d wire bytes: %w", MaxWireLen, dnserr.ErrMalformedName)
			}
		}
	}
}
