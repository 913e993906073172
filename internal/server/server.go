package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"perceptron/internal/configio"
	"perceptron/internal/metrics"
	"perceptron/internal/nn"
	"perceptron/internal/session"
)

type Config struct {
	Holder *session.Holder
	// Source is read on every reload request.
	Source            configio.Source
	DefaultActivation nn.Activation
	Logger            logrus.FieldLogger
}

// Server exposes the perceptron over HTTP. Each request reads the current
// snapshot from the holder once; reloads swap the snapshot for later
// requests without affecting those in flight.
type Server struct {
	holder            *session.Holder
	source            configio.Source
	defaultActivation nn.Activation
	logger            logrus.FieldLogger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	act := cfg.DefaultActivation
	if !act.Valid() {
		act = nn.Step
	}
	return &Server{
		holder:            cfg.Holder,
		source:            cfg.Source,
		defaultActivation: act,
		logger:            logger,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(s.logger))
	router.Use(metrics.Handler())

	router.GET("/healthz", s.handleHealth)
	router.GET("/activations", s.handleActivations)
	router.GET("/configuration", s.handleConfiguration)
	router.POST("/configuration/reload", s.handleReload)
	router.POST("/predict", s.handlePredict)
	router.POST("/batch", s.handleBatch)
	router.GET("/metrics", metrics.Exposer())
	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
