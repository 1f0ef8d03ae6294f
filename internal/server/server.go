// Package server binds the file server to a TCP port.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/charmbracelet/log"

	fileserver "github.com/avto-dev/go-coi-fileserver"
	"github.com/avto-dev/go-coi-fileserver/internal/config"
)

// Server serves files from the configured web directory with cross-origin isolation headers.
type Server struct {
	config     *config.Config
	httpServer *http.Server
	announcer  *log.Logger
}

// New creates a server. The announcer receives a single startup line, the logger receives HTTP server
// diagnostics only (requests are not logged).
func New(cfg *config.Config, announcer, logger *log.Logger) (*Server, error) {
	fs, err := fileserver.NewFileServer(fileserver.Settings{
		FilesRoot: cfg.WebDirectory,
	})
	if err != nil {
		return nil, fmt.Errorf("file server: %w", err)
	}

	return &Server{
		config:    cfg,
		announcer: announcer,
		httpServer: &http.Server{
			Addr:     cfg.Address(),
			Handler:  fileserver.WithHeaders(fs, fileserver.IsolationHeaders()...),
			ErrorLog: logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
		},
	}, nil
}

// Start binds the configured address and serves until the context is done. Nothing is announced when the address
// cannot be bound.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Address(), err)
	}

	s.announcer.Infof("Server started on port %d", s.config.Port)

	return s.Serve(ctx, ln)
}

// Serve accepts connections on the listener until the context is done. Active connections are closed, not
// drained.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		if err := s.httpServer.Close(); err != nil {
			return fmt.Errorf("close server: %w", err)
		}

		<-errCh

		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	}
}
