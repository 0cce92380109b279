package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/views-badge/services/badge/analytics"
	"github.com/iulianpascalau/views-badge/services/badge/engine"
	"github.com/iulianpascalau/views-badge/services/badge/query"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("api")

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress  string
	Engine         Engine
	GeneralHandler func(http.Handler) http.Handler
}

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	engine         Engine
	listenAddr     string
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Engine) {
		return nil, errors.New("nil engine")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		engine:         args.Engine,
		listenAddr:     args.ListenAddress,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	// the path is irrelevant, only the method and the query string matter
	s.router.Any("/*any", s.handleBadge)
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()
	return nil
}

// --- Handlers ---

func (s *server) handleBadge(c *gin.Context) {
	request := c.Request
	entry, err := s.engine.Process(
		request.Context(),
		request.Method,
		request.URL.RequestURI(),
		c.Query("page_path"),
	)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Header("Cache-Control", entry.CacheControl)
	c.Header("Access-Control-Allow-Origin", "*")
	c.Data(http.StatusOK, entry.ContentType, []byte(entry.Body))
}

func (s *server) writeError(c *gin.Context, err error) {
	var upstreamErr *analytics.UpstreamError
	var authErr *analytics.AuthError

	switch {
	case errors.Is(err, engine.ErrMethodNotAllowed), errors.Is(err, query.ErrEmptyPagePath):
		c.String(http.StatusMethodNotAllowed, err.Error())
	case errors.As(err, &upstreamErr):
		log.Warn("backend call failed", "status", upstreamErr.StatusCode, "message", upstreamErr.Message)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     upstreamErr.Message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	case errors.As(err, &authErr):
		log.Error("token acquisition failed", "error", authErr.Err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     authErr.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	default:
		log.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
