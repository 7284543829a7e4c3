// Package server orchestrates all components: SiYuan client, registry, dispatcher, NATS binding, HTTP docs and MCP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/siyuan-bridge/internal/config"
	"github.com/morezero/siyuan-bridge/pkg/commsutil"
	"github.com/morezero/siyuan-bridge/pkg/events"
	"github.com/morezero/siyuan-bridge/pkg/mcpserver"
)

const logPrefix = "server:server"

// Version is reported to MCP clients and in the OpenAPI document.
var Version = "1.0.0"

const shutdownTimeout = 10 * time.Second

// Server is the siyuan-bridge orchestrator.
type Server struct {
	cfg        *config.Config
	core       *Core
	health     kernelHealth
	version    string
	nc         *comms.Conn
	sub        *comms.Subscription
	httpServer *http.Server
	httpAddr   string
	mcp        *mcpserver.Server
}

// StartParams holds parameters for Start.
type StartParams struct {
	Config *config.Config
	// HTTPClient overrides the SiYuan transport (tests).
	HTTPClient *http.Client
}

// Start builds the core and brings up the optional surfaces: the COMMS
// binding when COMMS_URL is set and the HTTP server when BRIDGE_HTTP_ADDR is
// set. It does not block and does not start MCP; see Serve. ctx bounds the
// lifetime of COMMS requests.
func Start(ctx context.Context, params StartParams) (*Server, error) {
	cfg := params.Config
	s := &Server{cfg: cfg, version: Version}

	var publisher events.EventPublisher
	if cfg.COMMSURL != "" {
		nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
		if err != nil {
			return nil, fmt.Errorf("%s - failed to connect to COMMS: %w", logPrefix, err)
		}
		s.nc = nc
		publisher = events.NewCommsPublisher(nc, &events.CommsPublisherOpts{
			GlobalChangeSubject: cfg.ChangeEventSubject,
		})
	}

	core, err := NewCore(NewCoreParams{Config: cfg, Publisher: publisher, HTTPClient: params.HTTPClient})
	if err != nil {
		s.Shutdown(ctx)
		return nil, err
	}
	s.core = core
	s.health = core.Client
	s.mcp = mcpserver.NewServer(mcpserver.NewServerParams{
		Dispatcher: core.Dispatcher,
		Renderer:   core.Renderer,
		Version:    s.version,
	})

	if s.nc != nil {
		subject := cfg.DispatchSubject
		if subject == "" {
			subject = commsutil.SubjectDispatch
		}
		sub, err := s.nc.Subscribe(subject, dispatchHandler(ctx, core.Dispatcher, cfg.RequestTimeout))
		if err != nil {
			s.Shutdown(ctx)
			return nil, fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, subject, err)
		}
		s.sub = sub
		if err := s.nc.Flush(); err != nil {
			s.Shutdown(ctx)
			return nil, fmt.Errorf("%s - failed to flush subscription to %s: %w", logPrefix, subject, err)
		}
		slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, subject))
	}

	if cfg.HTTPAddr != "" {
		ln, err := net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			s.Shutdown(ctx)
			return nil, fmt.Errorf("%s - failed to listen on %s: %w", logPrefix, cfg.HTTPAddr, err)
		}
		s.httpAddr = ln.Addr().String()
		s.httpServer = &http.Server{Handler: s.routes(), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			slog.Info(fmt.Sprintf("%s - HTTP docs server listening on %s", logPrefix, s.httpAddr))
			if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
			}
		}()
	}

	return s, nil
}

// Core returns the shared components.
func (s *Server) Core() *Core { return s.core }

// HTTPAddr returns the bound HTTP address, empty when HTTP is disabled.
func (s *Server) HTTPAddr() string { return s.httpAddr }

// Serve runs MCP over stdio until the client disconnects or ctx ends. A
// closed session is not an error.
func (s *Server) Serve(ctx context.Context) error {
	err := s.mcp.Serve(ctx)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%s - MCP server: %w", logPrefix, err)
}

// Shutdown stops the COMMS binding and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) {
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			slog.Warn(fmt.Sprintf("%s - unsubscribe: %v", logPrefix, err))
		}
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			slog.Warn(fmt.Sprintf("%s - HTTP shutdown: %v", logPrefix, err))
		}
	}
	if s.nc != nil {
		if err := s.nc.Drain(); err != nil {
			slog.Warn(fmt.Sprintf("%s - COMMS drain: %v", logPrefix, err))
		}
	}
}

// Run starts the bridge, blocks until a shutdown signal or the end of the
// MCP session, then cleans up.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	SetupLogging(cfg)
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("%s - Starting siyuan-bridge %s (kernel %s)", logPrefix, Version, cfg.SiYuanURL))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := Start(ctx, StartParams{Config: cfg})
	if err != nil {
		return err
	}

	mcpDone := make(chan error, 1)
	if cfg.MCPTransport == config.TransportStdio {
		go func() { mcpDone <- s.Serve(ctx) }()
	} else if cfg.COMMSURL == "" && cfg.HTTPAddr == "" {
		slog.Warn(fmt.Sprintf("%s - MCP, COMMS and HTTP are all disabled; nothing to serve", logPrefix))
	}

	slog.Info(fmt.Sprintf("%s - siyuan-bridge is ready", logPrefix))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))
	case runErr = <-mcpDone:
		slog.Info(fmt.Sprintf("%s - MCP session ended, shutting down", logPrefix))
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	s.Shutdown(shutdownCtx)

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return runErr
}
