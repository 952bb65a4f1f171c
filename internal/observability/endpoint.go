package observability

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tphakala/pcmcast-go/internal/conf"
	"github.com/tphakala/pcmcast-go/internal/logging"
)

// StatusFunc returns the current pipeline status for the status endpoint.
type StatusFunc func() any

// Endpoint serves Prometheus metrics and a JSON status API.
type Endpoint struct {
	listenAddress string
	metrics       *Metrics
	status        StatusFunc
	server        *echo.Echo
}

// NewEndpoint creates a telemetry endpoint from the settings. It returns nil
// when telemetry is disabled.
func NewEndpoint(settings *conf.Settings, metrics *Metrics, status StatusFunc) *Endpoint {
	if !settings.Telemetry.Enabled {
		return nil
	}
	return &Endpoint{
		listenAddress: settings.Telemetry.Listen,
		metrics:       metrics,
		status:        status,
	}
}

// Start runs the HTTP server in its own goroutine and shuts it down when the
// quit channel closes.
func (e *Endpoint) Start(wg *sync.WaitGroup, quitChan <-chan struct{}) {
	log := logging.ForService("telemetry")

	srv := echo.New()
	srv.HideBanner = true
	srv.HidePort = true
	srv.Use(middleware.Recover())

	srv.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		e.metrics.Registry(), promhttp.HandlerOpts{})))
	srv.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	srv.GET("/api/v1/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, e.status())
	})

	e.server = srv

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("telemetry endpoint listening", "address", e.listenAddress)
		if err := srv.Start(e.listenAddress); err != nil && err != http.ErrServerClosed {
			log.Error("telemetry endpoint failed", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-quitChan
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("telemetry endpoint shutdown failed", "error", err)
		}
	}()
}
