// Package builder assembles a response message by routing records into
// the Answers/Authority/Additional sections by record type, the way a
// resolver reconstructs a reply from whatever it has cached.
package builder

import (
	"github.com/arnegrim/recurdns/internal/header"
	"github.com/arnegrim/recurdns/internal/message"
	"github.com/arnegrim/recurdns/internal/question"
	"github.com/arnegrim/recurdns/internal/record"
	"github.com/arnegrim/recurdns/internal/rrtype"
)

// Builder accumulates questions and records into a Message, dispatching
// each added record to the appropriate section.
type Builder struct {
	msg message.Message
}

// New starts a builder for a response to id, with the given RD/RA intent.
func New(id uint16, rd, ra bool) *Builder {
	b := &Builder{}
	b.msg.Header.ID = id
	b.msg.Header.SetQR(true)
	b.msg.Header.SetRD(rd)
	b.msg.Header.SetRA(ra)
	return b
}

// AddQuestion appends q to the question section.
func (b *Builder) AddQuestion(q question.Question) {
	b.msg.Questions = append(b.msg.Questions, q)
}

// SetAA sets the Authoritative Answer bit.
func (b *Builder) SetAA(aa bool) { b.msg.Header.SetAA(aa) }

// SetRCODE sets the response code.
func (b *Builder) SetRCODE(rc header.ResponseCode) { b.msg.Header.SetRCODE(rc) }

// AddRecord routes r into a section by type: NS records go to Authority,
// A records (and everything else) go to Answers or Additional following
// the same exhaustive, no-special-casing dispatch the rest of the record
// set uses — type 1 (A) to Answers, type 2 (NS) to Authority, everything
// else to Additional. There is no CNAME special case.
func (b *Builder) AddRecord(r record.Record) {
	switch r.Type {
	case rrtype.A:
		b.msg.Answers = append(b.msg.Answers, r)
	case rrtype.NS:
		b.msg.Authority = append(b.msg.Authority, r)
	default:
		b.msg.Additional = append(b.msg.Additional, r)
	}
}

// Build finalizes and returns the assembled message.
func (b *Builder) Build() message.Message {
	return b.msg
}
