// Package resolver implements the two upstream resolution strategies: a
// recursive descent from a fixed root server, and a single-upstream
// forwarder, both sharing the same cache-integration policy.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/arnegrim/recurdns/internal/builder"
	"github.com/arnegrim/recurdns/internal/cache"
	"github.com/arnegrim/recurdns/internal/dnserr"
	"github.com/arnegrim/recurdns/internal/dnsname"
	"github.com/arnegrim/recurdns/internal/header"
	"github.com/arnegrim/recurdns/internal/message"
	"github.com/arnegrim/recurdns/internal/question"
	"github.com/arnegrim/recurdns/internal/record"
)

// Mode selects which upstream strategy Resolve uses.
type Mode int

const (
	// ModeRecursive walks referrals from a fixed root server (the default).
	ModeRecursive Mode = iota
	// ModeForward sends every miss to a single upstream resolver.
	ModeForward
)

const (
	maxReferralHops = 16
	udpReadSize     = 512
	upstreamTimeout = 3 * time.Second
	dnsPort         = "53"
)

// Resolver holds the configuration shared by both modes.
type Resolver struct {
	Mode       Mode
	RootServer string // host, IP, or host:port of the fixed root (port defaults to 53), recursive mode
	Forwarder  string // host, IP, or host:port of the upstream (port defaults to 53), forward mode
	CachePath  string
	Logger     *slog.Logger
}

// Resolve implements the cache-integration policy common to both modes: it
// opens the cache, resolves whatever questions are missing via the
// configured mode, builds a response carrying the client's id and RD bit
// (with QR and RA set and AA clear), and persists the cache before
// returning.
func (rv *Resolver) Resolve(ctx context.Context, query message.Message) (message.Message, error) {
	c, err := cache.Load(ctx, rv.CachePath)
	if err != nil {
		return message.Message{}, fmt.Errorf("resolver: %w", err)
	}
	c.Refresh()

	b := builder.New(query.Header.ID, query.Header.IsRD(), true)
	for _, q := range query.Questions {
		b.AddQuestion(q)
	}

	switch rv.Mode {
	case ModeForward:
		if err := rv.resolveForward(ctx, c, query.Questions); err != nil {
			return message.Message{}, err
		}
	default:
		for _, q := range query.Questions {
			if len(c.Get(q.Type, q.Name)) > 0 {
				continue
			}
			recs, err := rv.resolveRecursive(ctx, q)
			if err != nil {
				return message.Message{}, err
			}
			for _, r := range recs {
				c.Put(r)
			}
		}
	}

	b.SetAA(false)
	for _, q := range query.Questions {
		for _, r := range c.Get(q.Type, q.Name) {
			b.AddRecord(r)
		}
	}

	if err := c.Save(ctx, rv.CachePath); err != nil {
		return message.Message{}, fmt.Errorf("resolver: %w", err)
	}

	return b.Build(), nil
}

// resolveForward collects the questions not already cached, forwards them
// as one message to the configured upstream, and inserts every record the
// reply carries. It never follows referrals itself: the upstream is
// assumed to be a full recursive server.
func (rv *Resolver) resolveForward(ctx context.Context, c *cache.Cache, questions []question.Question) error {
	var misses []question.Question
	for _, q := range questions {
		if len(c.Get(q.Type, q.Name)) == 0 {
			misses = append(misses, q)
		}
	}
	if len(misses) == 0 {
		return nil
	}

	var q message.Message
	if err := q.Header.SetRandomID(); err != nil {
		return fmt.Errorf("resolver: %w", err)
	}
	q.Header.SetRD(true)
	q.Questions = misses

	resp, err := rv.query(ctx, rv.Forwarder, q)
	if err != nil {
		return err
	}
	for _, r := range resp.AllRecords() {
		c.Put(r)
	}
	return nil
}

// resolveRecursive performs an iterative descent for a single question,
// starting at the configured root server and following Authority
// referrals until an authoritative reply is obtained.
func (rv *Resolver) resolveRecursive(ctx context.Context, q question.Question) ([]record.Record, error) {
	server := rv.RootServer
	visited := map[string]bool{}

	for hop := 0; hop < maxReferralHops; hop++ {
		if visited[server] {
			return nil, fmt.Errorf("resolver: referral loop at %s: %w", server, dnserr.ErrResolutionFailed)
		}
		visited[server] = true

		var qm message.Message
		if err := qm.Header.SetRandomID(); err != nil {
			return nil, fmt.Errorf("resolver: %w", err)
		}
		qm.Header.SetRD(true)
		qm.Questions = []question.Question{q}

		resp, err := rv.query(ctx, server, qm)
		if err != nil {
			return nil, err
		}

		if resp.Header.IsAA() {
			return resp.AllRecords(), nil
		}

		if len(resp.Authority) == 0 || len(resp.Authority[0].DecodedName) == 0 {
			return nil, fmt.Errorf("resolver: referral from %s has no usable NS: %w", server, dnserr.ErrResolutionFailed)
		}
		server = dnsname.Hostname(resp.Authority[0].DecodedName)
	}

	return nil, fmt.Errorf("resolver: exceeded %d referral hops: %w", maxReferralHops, dnserr.ErrResolutionFailed)
}

// query sends qm to host (a bare hostname, an IP, or host:port — port
// defaults to 53) over a short-lived UDP socket and decodes the reply.
func (rv *Resolver) query(ctx context.Context, host string, qm message.Message) (message.Message, error) {
	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, dnsPort)
	}

	wire, err := qm.MarshalBinary()
	if err != nil {
		return message.Message{}, fmt.Errorf("resolver: marshaling query: %w", err)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return message.Message{}, fmt.Errorf("resolver: dialing %s: %w", addr, errWrap(err, dnserr.ErrUpstreamUnreachable))
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(upstreamTimeout)); err != nil {
		return message.Message{}, fmt.Errorf("resolver: setting deadline: %w", err)
	}

	if _, err := conn.Write(wire); err != nil {
		return message.Message{}, fmt.Errorf("resolver: sending to %s: %w", addr, errWrap(err, dnserr.ErrUpstreamUnreachable))
	}

	buf := make([]byte, udpReadSize)
	n, err := conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return message.Message{}, fmt.Errorf("resolver: reading from %s: %w", addr, dnserr.ErrUpstreamTimeout)
		}
		return message.Message{}, fmt.Errorf("resolver: reading from %s: %w", addr, errWrap(err, dnserr.ErrUpstreamUnreachable))
	}

	resp, err := message.Decode(buf[:n])
	if err != nil {
		return message.Message{}, fmt.Errorf("resolver: decoding reply from %s: %w", addr, errWrap(err, dnserr.ErrUpstreamUnreachable))
	}
	return resp, nil
}

func errWrap(err error, sentinel error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}

// ServFailHeader sets fields appropriate for a SERVFAIL reply to the
// client's original query, for callers that need to respond even when
// Resolve fails (e.g. ErrUpstreamTimeout on a deadline-bound resolution).
func ServFailHeader(id uint16, rd bool) header.Header {
	var h header.Header
	h.ID = id
	h.SetQR(true)
	h.SetRD(rd)
	h.SetRCODE(header.ServerFailure)
	return h
}
