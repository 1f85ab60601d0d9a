// Package server implements the UDP listener that drives the resolver:
// a strictly serial receive loop, one client datagram at a time, with no
// parallel dispatch and no pipelining.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/arnegrim/recurdns/internal/header"
	"github.com/arnegrim/recurdns/internal/message"
	"github.com/arnegrim/recurdns/internal/resolver"
)

const maxDatagram = 512

// Server binds a single UDP socket and answers every query serially: a
// query is resolved to completion, including all upstream round-trips
// and the cache save, before the next is read off the wire.
type Server struct {
	conn     *net.UDPConn
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// New binds host:port and returns a Server ready to Serve.
func New(host string, port int, rv *resolver.Resolver, logger *slog.Logger) (*Server, error) {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := listenUDP(addr)
	if err != nil {
		return nil, fmt.Errorf("server: listening on %s:%d: %w", host, port, err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Server{conn: conn, resolver: rv, logger: logger}, nil
}

// Close releases the listening socket.
func (s *Server) Close() error {
	return s.conn.Close()
}

// Addr returns the socket's bound address.
func (s *Server) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Serve runs the receive loop until ctx is canceled or the socket is
// closed; canceling ctx closes the socket, which unblocks a pending read.
// Other read errors are logged and the loop keeps reading. Each datagram
// is fully resolved and answered before the next read, per the
// single-threaded, serial processing model.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("listening", slog.Any("addr", s.conn.LocalAddr()))

	stop := context.AfterFunc(ctx, func() { _ = s.conn.Close() })
	defer stop()

	buf := make([]byte, maxDatagram)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("read failed", slog.Any("error", err))
			continue
		}

		resp, ok := s.handle(ctx, buf[:n])
		if !ok {
			continue
		}
		wire, err := resp.MarshalBinary()
		if err != nil {
			s.logger.Error("marshaling response failed", slog.Any("error", err))
			continue
		}
		if _, err := s.conn.WriteToUDP(wire, addr); err != nil {
			s.logger.Error("write failed", slog.Any("error", err), slog.Any("client", addr))
		}
	}
}

// handle decodes, resolves, and builds the reply for one client datagram,
// converting any resolution failure into a SERVFAIL carrying the client's
// id. A codec error decoding the inbound datagram itself is reported as
// (zero value, false): a malformed query is logged and dropped, never
// answered.
func (s *Server) handle(ctx context.Context, data []byte) (message.Message, bool) {
	query, err := message.Decode(data)
	if err != nil {
		s.logger.Warn("malformed query, dropping", slog.Any("error", err))
		return message.Message{}, false
	}

	resp, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		s.logger.Error("resolution failed", slog.Any("error", err), logQuestion(query))
		h := resolverFailHeader(query.Header.ID, query.Header.IsRD(), header.ServerFailure)
		return message.Message{Header: h, Questions: query.Questions}, true
	}

	return resp, true
}

func resolverFailHeader(id uint16, rd bool, rc header.ResponseCode) header.Header {
	var h header.Header
	h.ID = id
	h.SetQR(true)
	h.SetRD(rd)
	h.SetRCODE(rc)
	return h
}

func logQuestion(m message.Message) slog.Attr {
	if len(m.Questions) == 0 {
		return slog.String("question", "")
	}
	return slog.String("question", m.Questions[0].Name.String())
}
