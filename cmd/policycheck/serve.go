package main

import (
	"fmt"
	"strings"

	pchttp "github.com/fwojciec/policycheck/http"
)

// Run starts the HTTP server and blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := pchttp.NewServer()
	server.Addr = ListenAddr(c.Addr)
	server.Checker = deps.Checker
	server.Metrics = deps.Metrics
	server.Logger = deps.Logger

	if err := server.Open(); err != nil {
		return fmt.Errorf("failed to listen on %q: %w", server.Addr, err)
	}
	deps.Logger.Info("server running", "addr", server.Addr, "port", server.Port())

	<-deps.Ctx.Done()

	deps.Logger.Info("shutting down")
	return server.Close()
}

// ListenAddr turns a bare port number, as found in $PORT, into a listen
// address. Anything containing a colon is returned unchanged.
func ListenAddr(addr string) string {
	if addr == "" || strings.Contains(addr, ":") {
		return addr
	}
	return ":" + addr
}
