// Command server exposes the planner, editor, breadth optimizer, and export
// endpoints over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/app"
	"github.com/bruintracks/bruintracks-go/internal/handler"
	"github.com/bruintracks/bruintracks-go/internal/middleware"
	"github.com/bruintracks/bruintracks-go/internal/service"
)

func main() {
	core, err := app.Bootstrap()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer core.Close()

	httpMetrics := middleware.NewHTTPMetrics()
	domainMetrics := service.NewMetrics(httpMetrics.Registry())

	router := handler.NewRouter(core.Config, core.Log, handler.Handlers{
		Plan:    handler.NewPlanHandler(core.Planner, domainMetrics, core.Log),
		Edit:    handler.NewEditHandler(core.Editor, domainMetrics, core.Log),
		Breadth: handler.NewBreadthHandler(core.Breadth, domainMetrics, core.Log),
		Export:  handler.NewExportHandler(core.Exporter, core.Log),
		Metrics: httpMetrics,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", core.Config.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		core.Log.Info("server listening", zap.Int("port", core.Config.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			core.Log.Fatal("server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		core.Log.Error("shutdown", zap.Error(err))
	}
	core.Log.Info("server stopped")
}
