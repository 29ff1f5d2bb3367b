package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

type httpServer struct {
	name   string
	server *http.Server
	addr   atomic.Pointer[net.Addr]

	logger *logger.Logger
}

func newHTTPServer(name string, handler http.Handler, address string, logger *logger.Logger) *httpServer {
	return &httpServer{
		name: name,
		server: &http.Server{
			Addr:              address,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger,
	}
}

// NewDeviceServer serves the agent's loopback hook on address.
func NewDeviceServer(handler http.Handler, address string, logger *logger.Logger) Server {
	return newHTTPServer("device hook", handler, address, logger)
}

func (h *httpServer) RunServer() {
	ln, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		h.logger.Error().Err(err).Str("func", "*httpServer.RunServer").Str("server", h.name).Msg("listen failed")
		return
	}
	addr := ln.Addr()
	h.addr.Store(&addr)

	h.logger.Info().Str("server", h.name).Str("address", addr.String()).Msg("listening")
	if err = h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error().Err(err).Str("func", "*httpServer.RunServer").Str("server", h.name).Msg("serve failed")
	}
}

func (h *httpServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Error().Err(err).Str("func", "*httpServer.Shutdown").Str("server", h.name).Msg("shutdown failed")
	}
}

// Addr is the bound address once RunServer is listening, nil before.
func (h *httpServer) Addr() net.Addr {
	if addr := h.addr.Load(); addr != nil {
		return *addr
	}
	return nil
}
