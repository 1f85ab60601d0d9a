//go:build !unix

package server

import (
	"context"
	"net"
)

// listenUDP binds addr with no platform-specific socket options; the
// server still works without the SO_REUSEADDR convenience.
func listenUDP(addr string) (*net.UDPConn, error) {
	var lc net.ListenConfig
	pc, err := lc.ListenPacket(context.Background(), "udp", addr)
	if err != nil {
		return nil, err
	}
	return pc.(*net.UDPConn), nil
}
