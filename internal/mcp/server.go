// Package mcp exposes the scanner as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/mvp-joe/sourcelens/internal/analysis"
)

// ServerName is reported to MCP clients.
const ServerName = "sourcelens-mcp"

// Server manages the MCP server lifecycle.
type Server struct {
	tools  *toolSet
	logger logrus.FieldLogger
	mcp    *server.MCPServer
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server logger. Logs must not go to stdout, which carries the protocol.
func WithLogger(l logrus.FieldLogger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFileScanner routes scan_* requests that read whole files through fs,
// typically a result cache.
func WithFileScanner(fs analysis.FileScanner) ServerOption {
	return func(s *Server) {
		if fs != nil {
			s.tools.files = fs
		}
	}
}

// NewServer creates an MCP server backed by scanner.
func NewServer(scanner *analysis.Scanner, version string, opts ...ServerOption) *Server {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	s := &Server{
		tools:  &toolSet{scanner: scanner, files: scanner},
		logger: quiet,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tools.logger = s.logger

	s.mcp = server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	s.tools.register(s.mcp)

	return s
}

// MCP returns the underlying server, for in-process clients and tests.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve runs the server on stdio and blocks until a shutdown signal, a server
// error or ctx cancellation.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		s.logger.Info("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
