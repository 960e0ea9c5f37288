// Package middleware provides a Gin handler that gates routes behind
// x402 payments: unpaid requests receive a 402 carrying encoded payment
// requirements, paid retries are verified before the route runs.
package middleware

import (
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/girderdev/x402-sdk/protocol"
	"github.com/girderdev/x402-sdk/types"
	"github.com/girderdev/x402-sdk/verification"
)

// payerKey is the context key the verified payer address is stored under.
const payerKey = "x402.payer"

// Config describes the payment a protected route demands.
type Config struct {
	// Amount required per request, in atomic units.
	Amount *big.Int

	// Recipient address payments must be sent to.
	Recipient common.Address

	// Network payments must settle on.
	Network types.Network

	// Token contract, nil for the native asset.
	Token *common.Address

	// Description shown to paying clients.
	Description string

	// ExpiryWindow bounds how long an issued requirement stays payable.
	// Zero means five minutes.
	ExpiryWindow time.Duration
}

// RequirePayment returns a handler that enforces payment for the routes
// it wraps. Requirements are constructed per request so each carries a
// fresh expiry and the exact resource URL.
func RequirePayment(cfg Config, verifier *verification.Verifier) gin.HandlerFunc {
	window := cfg.ExpiryWindow
	if window <= 0 {
		window = 5 * time.Minute
	}

	return func(c *gin.Context) {
		requirements := &types.PaymentRequirements{
			Amount:      cfg.Amount,
			Recipient:   cfg.Recipient,
			Network:     cfg.Network,
			Token:       cfg.Token,
			Description: cfg.Description,
			ExpiresAt:   uint64(time.Now().Add(window).Unix()),
			Resource:    c.Request.URL.String(),
		}

		paymentHeader := c.GetHeader(protocol.PaymentHeader)
		if paymentHeader == "" {
			demandPayment(c, requirements, "payment required")
			return
		}

		payer, err := verifier.Verify(paymentHeader, requirements)
		if err != nil {
			demandPayment(c, requirements, err.Error())
			return
		}

		c.Set(payerKey, payer)
		c.Next()
	}
}

// demandPayment answers 402 with freshly encoded requirements. If the
// requirements themselves fail to encode the route is misconfigured and
// the client gets a 500 instead.
func demandPayment(c *gin.Context, req *types.PaymentRequirements, reason string) {
	encoded, err := protocol.EncodeRequirements(req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "payment configuration error"})
		return
	}
	c.Header(protocol.RequirementsHeader, encoded)
	c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": reason})
}

// PayerFromContext returns the verified payer address set by
// RequirePayment.
func PayerFromContext(c *gin.Context) (common.Address, bool) {
	v, ok := c.Get(payerKey)
	if !ok {
		return common.Address{}, false
	}
	addr, ok := v.(common.Address)
	return addr, ok
}
