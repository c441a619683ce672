package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/convolve2d/internal"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

func ApiServer(port int, maxUploadMB int, debug bool) error {
	internal.ShowVersion()
	if debug {
		internal.UserInfo()
		internal.EnvironmentVars("CONVOLVE2D_", "GIN_")
	}

	r, err := newApiEngine(maxUploadMB, debug)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d (max upload %d MB)...", port, maxUploadMB)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP API Server failed to start on port %d: %w", port, err)
	}
	return nil
}

func newApiEngine(maxUploadMB int, debug bool) (*gin.Engine, error) {
	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	if err := healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{}); err != nil {
		return nil, fmt.Errorf("failed to initialize healthcheck: %w", err)
	}

	RegisterRoutes(r, int64(maxUploadMB)<<20)
	return r, nil
}
