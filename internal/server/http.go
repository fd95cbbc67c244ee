package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPService runs an http.Server under a Lifecycle.
type HTTPService struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
	ready           chan net.Addr
}

// NewHTTPService wraps srv.
//
// Precondition: srv and logger must be non-nil; srv.Addr must be a listen address.
// Postcondition: Stop waits at most shutdownTimeout for in-flight requests.
func NewHTTPService(srv *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) *HTTPService {
	return &HTTPService{
		srv:             srv,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
		ready:           make(chan net.Addr, 1),
	}
}

// Start listens on srv.Addr and serves until Stop is called.
//
// Postcondition: Returns nil after a graceful Stop, or the listen/serve error.
func (h *HTTPService) Start() error {
	ln, err := net.Listen("tcp", h.srv.Addr)
	if err != nil {
		return err
	}
	h.logger.Info("http listening", zap.String("addr", ln.Addr().String()))
	h.ready <- ln.Addr()

	if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Ready delivers the bound address once Start is listening.
func (h *HTTPService) Ready() <-chan net.Addr { return h.ready }

// Stop gracefully shuts the server down, forcing close after the timeout.
func (h *HTTPService) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	if err := h.srv.Shutdown(ctx); err != nil {
		h.logger.Warn("http shutdown timed out, closing", zap.Error(err))
		_ = h.srv.Close()
	}
}
