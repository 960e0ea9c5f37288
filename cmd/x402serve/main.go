// Command x402serve runs a demo paid API: /premium is gated behind x402
// payments and /metrics exposes the verification counters.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/girderdev/x402-sdk/config"
	"github.com/girderdev/x402-sdk/logger"
	"github.com/girderdev/x402-sdk/metrics"
	"github.com/girderdev/x402-sdk/middleware"
	"github.com/girderdev/x402-sdk/types"
	"github.com/girderdev/x402-sdk/utils"
	"github.com/girderdev/x402-sdk/verification"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "x402serve:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.NewZapLogger(cfg.LogLevel)

	recipient, err := utils.ChecksumAddress(cfg.Server.Recipient)
	if err != nil {
		return fmt.Errorf("server.recipient: %w", err)
	}
	amount, err := utils.ParseAmount(cfg.Server.Amount)
	if err != nil {
		return fmt.Errorf("server.amount: %w", err)
	}
	network := types.Network(cfg.Server.Network)
	if !network.Valid() {
		return fmt.Errorf("server.network: unsupported network %q", cfg.Server.Network)
	}

	rec, err := metrics.NewPrometheusRecorder(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	verifier := verification.NewVerifier(
		verification.WithLogger(log),
		verification.WithMetrics(rec),
	)

	paid := middleware.RequirePayment(middleware.Config{
		Amount:       amount,
		Recipient:    recipient,
		Network:      network,
		Description:  cfg.Server.Description,
		ExpiryWindow: 5 * time.Minute,
	}, verifier)

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/premium", paid, func(c *gin.Context) {
		payer, _ := middleware.PayerFromContext(c)
		c.JSON(200, gin.H{
			"message": "access granted",
			"payer":   payer.Hex(),
		})
	})

	log.Info("listening", map[string]any{"port": cfg.Server.Port})
	return router.Run(fmt.Sprintf(":%d", cfg.Server.Port))
}
