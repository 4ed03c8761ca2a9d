package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"damcore/internal/bootstrap"
	"damcore/internal/server"
	"damcore/internal/solver"
	"damcore/pkg/engine"
	"damcore/pkg/eval"
)

func main() {
	logger := NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	hintSource := solver.NewClient(cfg, logger, &solver.EngineSource{
		New: func() solver.Searcher {
			return engine.NewEngine(engine.Level(engine.MaxLevel), func() engine.IEvaluator {
				return eval.NewEvaluationService(1)
			})
		},
	})

	r := chi.NewRouter()
	handler := server.NewGameHandler(cfg, logger, hintSource)
	handler.Router(r)

	port := ":" + cfg.ServerPort
	logger.Infof("Server is running on port %s", port)
	httpServer := &http.Server{Addr: port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
