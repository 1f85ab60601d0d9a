// Package message implements the full DNS message codec (RFC 1035 §4):
// header, question section, and the three resource record sections.
package message

import (
	"fmt"

	"github.com/arnegrim/recurdns/internal/bufreader"
	"github.com/arnegrim/recurdns/internal/header"
	"github.com/arnegrim/recurdns/internal/question"
	"github.com/arnegrim/recurdns/internal/record"
)

// Message is a full DNS message.
type Message struct {
	Header     header.Header
	Questions  []question.Question
	Answers    []record.Record
	Authority  []record.Record
	Additional []record.Record
}

// NewQuery builds a minimal query message for a single question: a random
// id, RD set, one question, no records.
func NewQuery(q question.Question) (Message, error) {
	var m Message
	if err := m.Header.SetRandomID(); err != nil {
		return Message{}, err
	}
	m.Header.SetRD(true)
	if err := m.Header.SetQDCount(1); err != nil {
		return Message{}, err
	}
	m.Questions = []question.Question{q}
	return m, nil
}

// MarshalBinary encodes the message in uncompressed wire form.
func (m Message) MarshalBinary() ([]byte, error) {
	if err := m.Header.SetQDCount(len(m.Questions)); err != nil {
		return nil, err
	}
	if err := m.Header.SetANCount(len(m.Answers)); err != nil {
		return nil, err
	}
	if err := m.Header.SetNSCount(len(m.Authority)); err != nil {
		return nil, err
	}
	if err := m.Header.SetARCount(len(m.Additional)); err != nil {
		return nil, err
	}

	hdrBytes, err := m.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf := hdrBytes

	for _, q := range m.Questions {
		b, err := q.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("message: question: %w", err)
		}
		buf = append(buf, b...)
	}
	for _, sec := range [][]record.Record{m.Answers, m.Authority, m.Additional} {
		for _, r := range sec {
			b, err := r.MarshalBinary()
			if err != nil {
				return nil, fmt.Errorf("message: record: %w", err)
			}
			buf = append(buf, b...)
		}
	}
	return buf, nil
}

// Decode parses a full message from data. NS-name resolution (see
// record.Decode) is requested for the Authority section only, and only
// when the message is not authoritative — an authoritative reply's
// Authority section, if present, is not a referral and its rdata is never
// needed as a hostname. This mirrors how the resolver actually consumes
// Authority: only to find the next server to query.
func Decode(data []byte) (Message, error) {
	r := bufreader.New(data)

	hdrBytes, err := r.ReadN(header.Size)
	if err != nil {
		return Message{}, fmt.Errorf("message: %w", err)
	}
	hdr, err := header.Unmarshal(hdrBytes)
	if err != nil {
		return Message{}, fmt.Errorf("message: %w", err)
	}

	m := Message{Header: hdr}

	m.Questions = make([]question.Question, hdr.QDCount)
	for i := range m.Questions {
		q, err := question.Decode(r)
		if err != nil {
			return Message{}, fmt.Errorf("message: question %d: %w", i, err)
		}
		m.Questions[i] = q
	}

	m.Answers, err = decodeRecords(r, int(hdr.ANCount), false)
	if err != nil {
		return Message{}, fmt.Errorf("message: answer: %w", err)
	}

	m.Authority, err = decodeRecords(r, int(hdr.NSCount), !hdr.IsAA())
	if err != nil {
		return Message{}, fmt.Errorf("message: authority: %w", err)
	}

	m.Additional, err = decodeRecords(r, int(hdr.ARCount), false)
	if err != nil {
		return Message{}, fmt.Errorf("message: additional: %w", err)
	}

	return m, nil
}

func decodeRecords(r *bufreader.Reader, n int, resolveNSNames bool) ([]record.Record, error) {
	recs := make([]record.Record, n)
	for i := range recs {
		rec, err := record.Decode(r, resolveNSNames)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		recs[i] = rec
	}
	return recs, nil
}

// AllRecords returns every record across Answers, Authority, and
// Additional, in that order — the set the resolver caches and, for an
// authoritative reply, returns to the caller.
func (m Message) AllRecords() []record.Record {
	all := make([]record.Record, 0, len(m.Answers)+len(m.Authority)+len(m.Additional))
	all = append(all, m.Answers...)
	all = append(all, m.Authority...)
	all = append(all, m.Additional...)
	return all
}
