package netutil

import (
	"errors"
	"net"
)

// LocalIP reports the address of the interface used for outbound traffic.
// Dialing UDP never sends a packet; it only makes the kernel pick a route,
// whose local end we read back. Used to pre-populate client-facing URLs.
func LocalIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", errors.New("unexpected local address type")
	}
	return addr.IP.String(), nil
}
