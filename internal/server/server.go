// Package server запускает HTTP-сервер сервиса вместе с фоновыми процессами и останавливает их по сигналу.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Worker фоновый процесс, работающий до отмены контекста.
type Worker func(ctx context.Context) error

// Run обслуживает HTTP-запросы на addr и запускает workers. При отмене ctx или ошибке
// любой из горутин сервер корректно завершается, а Run возвращает первую ошибку.
func Run(ctx context.Context, logger *zap.SugaredLogger, addr string, handler http.Handler, workers ...Worker) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, w := range workers {
		w := w
		g.Go(func() error {
			return w(ctx)
		})
	}

	g.Go(func() error {
		logger.Infow("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}
