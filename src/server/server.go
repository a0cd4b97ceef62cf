package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lost-woods/dice/src/api"
	"github.com/lost-woods/dice/src/rng"
	"github.com/lost-woods/dice/src/roller"
)

type Server struct {
	addr   string
	router *gin.Engine
	log    *zap.SugaredLogger
}

// Options carries what the router needs besides the roller itself.
type Options struct {
	Addr   string
	APIKey string
}

func New(opts Options, handle *roller.Handle, r io.Reader, h *rng.Health, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"X-API-KEY", "Accept"},
		AllowAllOrigins:  true,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(api.CheckHeader("X-API-KEY", opts.APIKey))

	handlers := api.NewHandlers(handle, r, h, log)
	router.POST("/add-dice", handlers.AddDice)
	router.POST("/clear-dice", handlers.ClearDice)
	router.GET("/dice", handlers.ListDice)
	router.POST("/roll-dice/:number_of_rolls", handlers.RollDice)
	router.GET("/last-rolls/:n", handlers.LastRolls)
	router.POST("/save-rolls", handlers.SaveRolls)
	router.POST("/load-rolls", handlers.LoadRolls)
	router.GET("/health", handlers.Health)

	return &Server{addr: opts.Addr, router: router, log: log}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", s.addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugw("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
