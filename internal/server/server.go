package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/trsv-dev/imageproxy/internal/di_containers"
	"github.com/trsv-dev/imageproxy/internal/logger"
	"github.com/trsv-dev/imageproxy/internal/router"
)

// NewServer Создание нового сервера.
func NewServer(runAddress string, handlers *di_containers.HandlersContainer) *http.Server {
	mux := router.Router(handlers)

	server := &http.Server{
		Addr:              runAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return server
}

// RunServer Запускает сервер в горутине и возвращает сам сервер и канал ошибок.
func RunServer(runAddress string, handlers *di_containers.HandlersContainer) (*http.Server, chan error) {
	server := NewServer(runAddress, handlers)

	// канал ошибок сервера
	serverErrorCh := make(chan error, 1)

	go func() {
		defer close(serverErrorCh)

		logger.Log.Info("Сервер запущен", logger.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Ошибка сервера", logger.Err(err))
			// отправляем ошибку в канал ошибок сервера
			serverErrorCh <- err
		}
	}()

	return server, serverErrorCh
}
