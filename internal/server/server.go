// Package server exposes the twin to browser hosts over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zeusync/hvactwin/internal/core/command"
	"github.com/zeusync/hvactwin/internal/core/events"
	"github.com/zeusync/hvactwin/internal/core/events/bus"
	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/projector"
	"github.com/zeusync/hvactwin/internal/core/scene"
)

// Config holds server settings.
type Config struct {
	ListenAddr     string
	StreamInterval time.Duration
	AllowedOrigins []string
	MaxClients     int
	WriteTimeout   time.Duration
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:     ":8080",
		StreamInterval: 100 * time.Millisecond,
		AllowedOrigins: []string{"*"},
		MaxClients:     64,
		WriteTimeout:   5 * time.Second,
	}
}

// Server serves the view state and accepts commands.
type Server struct {
	config     Config
	state      *scene.State
	projector  *projector.Projector
	dispatcher *command.Dispatcher
	bus        bus.EventBus
	log        log.Log

	router *gin.Engine
	hub    *hub

	mu   sync.Mutex
	http *http.Server
	subs []bus.Subscription
}

func New(
	config Config,
	state *scene.State,
	proj *projector.Projector,
	dispatcher *command.Dispatcher,
	eventBus bus.EventBus,
	logger log.Log,
) *Server {
	s := &Server{
		config:     config,
		state:      state,
		projector:  proj,
		dispatcher: dispatcher,
		bus:        eventBus,
		log:        logger.With(log.String("component", "server")),
	}
	s.hub = newHub(config.MaxClients, config.WriteTimeout, s.log)
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(s.corsConfig()))

	r.GET("/healthz", s.handleHealth)
	r.GET("/ws", s.handleWebSocket)
	api := r.Group("/api")
	api.GET("/view", s.handleView)
	api.POST("/commands", s.handleCommand)
	api.POST("/pick", s.handlePick)
	api.POST("/resize", s.handleResize)
	return r
}

func (s *Server) corsConfig() cors.Config {
	c := cors.DefaultConfig()
	for _, o := range s.config.AllowedOrigins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = s.config.AllowedOrigins
	return c
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			log.String("method", c.Request.Method),
			log.String("path", c.FullPath()),
			log.Int("status", c.Writer.Status()),
			log.Duration("took", time.Since(start)),
		)
	}
}

// View projects the current scene.
func (s *Server) View() projector.ViewState {
	return s.projector.Project(s.state.Snapshot())
}

// Start listens on the configured address and pushes views to websocket
// clients until ctx is done or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.http != nil {
		s.mu.Unlock()
		return ErrServerAlreadyRunning
	}
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.http = &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	srv := s.http
	s.subscribe()
	s.mu.Unlock()

	s.log.Info("server listening", log.String("addr", ln.Addr().String()))

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.stream(streamCtx)
	go func() {
		<-streamCtx.Done()
		_ = s.Stop(context.Background())
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the HTTP server down and disconnects websocket clients.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, subs := s.http, s.subs
	s.http, s.subs = nil, nil
	s.mu.Unlock()
	if srv == nil {
		return ErrServerNotRunning
	}
	for _, sub := range subs {
		_ = sub.Cancel()
	}
	s.hub.closeAll()
	s.log.Info("server stopping")
	return srv.Shutdown(ctx)
}

// subscribe pushes a fresh view whenever telemetry or a command changes the scene.
func (s *Server) subscribe() {
	for _, typ := range []string{events.TelemetryTick, events.TelemetryPulse, events.SceneChanged, events.SelectionChanged} {
		sub, err := s.bus.Subscribe(typ, func(bus.Event) error {
			s.broadcastView()
			return nil
		})
		if err != nil {
			s.log.Warn("subscribe failed", log.String("type", typ), log.Error(err))
			continue
		}
		s.subs = append(s.subs, sub)
	}
}

func (s *Server) stream(ctx context.Context) {
	ticker := time.NewTicker(s.config.StreamInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.hub.size() > 0 {
				s.broadcastView()
			}
		}
	}
}

func (s *Server) broadcastView() {
	if s.hub.size() == 0 {
		return
	}
	view := s.View()
	s.hub.broadcast(Message{Type: MessageView, View: &view})
}
