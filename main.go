// Command t1000mission runs the T-1000 infiltration mission server.
//
//	t1000mission [serve]      REST API, WebSocket render stream and /mcp endpoint (default)
//	t1000mission stdio-mcp    MCP over stdio, backed by a running server or an internal one
//
// Settings come from flags, the environment and an optional .env file. With
// --ngrok the same handler is also published through an ngrok tunnel.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/t1000mission/api"
	"github.com/wricardo/mcp-training/t1000mission/game/config"
	"github.com/wricardo/mcp-training/t1000mission/game/mission"
	"github.com/wricardo/mcp-training/t1000mission/game/service"
	"github.com/wricardo/mcp-training/t1000mission/game/session"
	"github.com/wricardo/mcp-training/t1000mission/transport/mcp"
	"github.com/wricardo/mcp-training/t1000mission/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "T-1000 Mission Server"
)

const (
	sessionMaxAge          = 24 * time.Hour
	sessionCleanupInterval = time.Hour
	filesystemSyncInterval = 5 * time.Second
	shutdownTimeout        = 10 * time.Second
)

// options holds the resolved command line settings
type options struct {
	Host        string
	Port        int
	ConfigDir   string
	SessionsDir string
	Debug       bool
	Ngrok       ngrokOptions
}

type ngrokOptions struct {
	Enabled   bool
	AuthToken string
	Domain    string
}

func (o options) addr() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment variables from .env file")
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatalf("%s: %v", AppName, err)
	}
}

// newCommand builds the command tree. Root flags apply to every mode.
func newCommand() *cli.Command {
	serve := func(ctx context.Context, cmd *cli.Command) error {
		opts := optionsFrom(cmd)
		setupLogging(opts.Debug)
		log.Printf("Starting %s v%s (mode: server)", AppName, Version)

		svc, err := initializeServices(opts.ConfigDir, opts.SessionsDir, opts.Debug)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		return runHTTPServer(ctx, opts, svc)
	}

	return &cli.Command{
		Name:    "t1000mission",
		Usage:   "T-1000 infiltration mission server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port"},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing mission presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "directory where sessions are persisted",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.BoolFlag{Name: "debug", Usage: "log file and line, and every dog move"},
			&cli.BoolFlag{Name: "ngrok", Usage: "publish the server through an ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "run the HTTP server with API, WebSocket and MCP endpoint",
				Action:  serve,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "run an MCP stdio server backed by a running or internal HTTP API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts := optionsFrom(cmd)
					setupLogging(opts.Debug)
					// stdout carries the MCP protocol
					log.SetOutput(os.Stderr)
					log.Printf("Starting %s v%s (mode: stdio-mcp)", AppName, Version)
					return runStdioMCP(ctx, opts)
				},
			},
		},
	}
}

func optionsFrom(cmd *cli.Command) options {
	return options{
		Host:        cmd.String("host"),
		Port:        cmd.Int("port"),
		ConfigDir:   cmd.String("config-dir"),
		SessionsDir: cmd.String("sessions-dir"),
		Debug:       cmd.Bool("debug"),
		Ngrok: ngrokOptions{
			Enabled:   cmd.Bool("ngrok"),
			AuthToken: cmd.String("ngrok-auth"),
			Domain:    cmd.String("ngrok-domain"),
		},
	}
}

func setupLogging(debug bool) {
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		return
	}
	log.SetFlags(log.LstdFlags)
}

// services bundles everything that has to be shut down together
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
	hub         *websocket.Hub
}

// initializeServices wires the config manager, session persistence, the
// WebSocket hub as mission event publisher, and the game service.
func initializeServices(configDir, sessionsDir string, verbose bool) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	// Every session controller publishes its render events to the hub
	hub := websocket.NewHub()
	go hub.Run()

	sessionManager := session.NewManagerWithPersistence(persistence, configManager,
		session.WithPublisher(mission.Publishers{hub, mission.LogPublisher{Verbose: verbose}}),
	)

	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	return &services{
		game:        service.NewGameService(sessionManager, configManager),
		sessions:    sessionManager,
		persistence: persistence,
		hub:         hub,
	}, nil
}

// shutdown persists every session and stops all background loops
func (s *services) shutdown() {
	if err := s.sessions.SaveAllSessions(); err != nil {
		log.Printf("Failed to save sessions: %v", err)
	}
	s.sessions.Close()
	s.hub.Stop()
}

// mcpHandler serves MCP JSON-RPC messages over plain HTTP POST
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)
		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

// newRouter mounts the REST API at the root and the MCP proxy at /mcp
func newRouter(svc *services, baseURL string) *http.ServeMux {
	router := http.NewServeMux()
	router.Handle("/", api.NewServer(svc.game, svc.hub))
	router.HandleFunc("/mcp", mcpHandler(mcp.NewClient(baseURL)))
	return router
}

// runHTTPServer serves until ctx is cancelled, then shuts down gracefully
// and persists all sessions.
func runHTTPServer(ctx context.Context, opts options, svc *services) error {
	defer svc.shutdown()

	addr := opts.addr()
	router := newRouter(svc, "http://"+addr)
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Submitting with wait=true blocks until the mission resolves
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("  REST API: http://%s/api", addr)
		log.Printf("  WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("  MCP endpoint: http://%s/mcp", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		sessionCleanupRoutine(ctx, svc.sessions)
		return nil
	})
	g.Go(func() error {
		filesystemSyncRoutine(ctx, svc.sessions, svc.persistence)
		return nil
	})

	if opts.Ngrok.Enabled {
		g.Go(func() error {
			runNgrokTunnel(ctx, opts.Ngrok, router)
			return nil
		})
	}

	err := g.Wait()
	log.Println("Server stopped")
	return err
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done.
// A tunnel failure is logged and leaves the local server running.
func runNgrokTunnel(ctx context.Context, opts ngrokOptions, handler http.Handler) {
	if opts.AuthToken == "" {
		log.Println("WARNING: ngrok enabled without auth token (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	tunnel := ngrokConfig.HTTPEndpoint()
	if opts.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.Domain))
		log.Printf("Using custom ngrok domain: %s", opts.Domain)
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.AuthToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	// Listen's context only covers tunnel setup; closing the tunnel ends Serve
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	publicURL := tun.URL()
	log.Printf("🚀 ngrok tunnel established: %s", publicURL)
	log.Printf("  Mission board: %s/", publicURL)
	log.Printf("  REST API: %s/api", publicURL)
	log.Printf("  MCP endpoint: %s/mcp", publicURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("ngrok server stopped: %v", err)
	}
	log.Println("ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Printf("[SESSION] cleaned up %d expired sessions", removed)
			}
		}
	}
}

// filesystemSyncRoutine drops sessions from memory once their file is
// deleted from the sessions directory.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	if persistence == nil {
		return
	}

	ticker := time.NewTicker(filesystemSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := pruneDeletedSessions(manager, persistence); pruned > 0 {
				log.Printf("[SESSION] filesystem sync: pruned %d sessions", pruned)
			}
		}
	}
}

// pruneDeletedSessions drops in-memory sessions whose file is gone
func pruneDeletedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			log.Printf("[SESSION] pruned %s from memory (file deleted)", sess.ID)
		}
	}
	return pruned
}

// apiAvailable reports whether a mission server answers on baseURL
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP serves MCP over stdio. It reuses a server already listening on
// localhost:<port>, or starts an internal API on a random loopback port.
func runStdioMCP(ctx context.Context, opts options) error {
	baseURL := fmt.Sprintf("http://localhost:%d", opts.Port)

	if apiAvailable(ctx, baseURL) {
		log.Printf("Using mission server at %s", baseURL)
	} else {
		log.Printf("No mission server at %s, starting an internal one", baseURL)

		svc, err := initializeServices(opts.ConfigDir, opts.SessionsDir, opts.Debug)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svc.shutdown()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		httpServer := &http.Server{Handler: api.NewServer(svc.game, svc.hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.Printf("Internal mission server on %s", baseURL)
	}

	log.Println("MCP stdio server ready")
	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}
