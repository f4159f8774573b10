package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Server struct {
	log    *slog.Logger
	server *http.Server
}

func NewServer(log *slog.Logger, address string, handler *gin.Engine) *Server {
	return &Server{
		log: log,
		server: &http.Server{
			Addr:    address,
			Handler: handler,
		},
	}
}

func (s *Server) MustRun() {
	s.log.Info("http server started", slog.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		panic(err)
	}
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping http server")

	return s.server.Shutdown(ctx)
}
