// Command exalt-server runs the lowering daemon. Units arrive as JSON over
// HTTP (or HTTP/3 when a certificate is supplied) and lowered module text
// comes back.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/exalt-lang/exalt/internal/cli"
	"github.com/exalt-lang/exalt/internal/server"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		addr        = flag.String("addr", "127.0.0.1:7643", "TCP listen address")
		http3Addr   = flag.String("http3", "", "optional UDP listen address for HTTP/3")
		certFile    = flag.String("cert", "", "TLS certificate file (required for -http3)")
		keyFile     = flag.String("key", "", "TLS key file (required for -http3)")
	)
	flag.Parse()

	if *showVersion {
		cli.PrintVersion("exalt-server")
		return
	}

	srv := server.New(*addr)
	bound, err := srv.Start()
	if err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "exalt-server: listening on http://%s\n", bound)

	var h3 *server.HTTP3Server
	if *http3Addr != "" {
		if *certFile == "" || *keyFile == "" {
			fatal(fmt.Errorf("-http3 requires -cert and -key"))
		}
		tlsCfg, err := server.LoadTLS(*certFile, *keyFile)
		if err != nil {
			fatal(err)
		}
		h3 = server.NewHTTP3(*http3Addr, tlsCfg, nil)
		h3Bound, err := h3.Start()
		if err != nil {
			fatal(err)
		}
		fmt.Fprintf(os.Stderr, "exalt-server: listening on https://%s (http/3)\n", h3Bound)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	if h3 != nil {
		_ = h3.Stop()
	}
	if err := srv.Stop(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "exalt-server:", err)
	os.Exit(1)
}
