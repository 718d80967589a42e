package server

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/quic-go/quic-go/http3"
)

// HTTP3Server runs the daemon handler over HTTP/3 (QUIC). TLS is mandatory
// for QUIC, so callers must supply a certificate.
type HTTP3Server struct {
	srv  *http3.Server
	pc   net.PacketConn
	addr string
	stop func() error
}

// NewHTTP3 creates an HTTP/3 daemon bound to addr with the given TLS
// config. A nil handler serves the default daemon handler.
func NewHTTP3(addr string, tlsCfg *tls.Config, h http.Handler) *HTTP3Server {
	if h == nil {
		h = Handler()
	}
	return &HTTP3Server{
		srv:  &http3.Server{Addr: addr, TLSConfig: tlsCfg, Handler: h},
		addr: addr,
	}
}

// Start begins serving and returns the bound UDP address.
func (s *HTTP3Server) Start() (string, error) {
	pc, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return "", err
	}
	s.pc = pc
	done := make(chan struct{})
	go func() {
		_ = s.srv.Serve(pc)
		close(done)
	}()
	s.stop = func() error {
		_ = pc.Close()
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return nil
	}
	return pc.LocalAddr().String(), nil
}

// Stop closes the listener and waits briefly for the serve loop to exit.
func (s *HTTP3Server) Stop() error {
	if s.stop != nil {
		return s.stop()
	}
	return nil
}

// LoadTLS builds the server TLS config from a certificate pair on disk.
func LoadTLS(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
