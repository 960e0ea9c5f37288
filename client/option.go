package client

import (
	"math/big"
	"time"

	"github.com/girderdev/x402-sdk/logger"
	"github.com/girderdev/x402-sdk/metrics"
	"github.com/girderdev/x402-sdk/utils"
)

type Option func(*Client)

// WithHTTPClient replaces the underlying transport. WithTimeout has no
// effect on a transport supplied here.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithTimeout sets the per-call timeout of the default transport. It
// applies independently to the original and the paid retry.
func WithTimeout(t time.Duration) Option {
	return func(c *Client) {
		c.timeout = t
	}
}

// WithMaxAmount caps auto-payment at the given atomic amount. Payments
// above the ceiling are rejected and the 402 returned unchanged.
func WithMaxAmount(amount *big.Int) Option {
	return func(c *Client) {
		c.maxAmount = amount
	}
}

// WithMaxAmountString caps auto-payment at a human-denominated amount,
// for example ("0.10", 6) for a tenth of a 6-decimal token. Returns an
// error when the amount is negative or needs more precision than the
// token carries.
func WithMaxAmountString(amount string, decimals int32) (Option, error) {
	ceiling, err := utils.ParseAtomicAmount(amount, decimals)
	if err != nil {
		return nil, err
	}
	return WithMaxAmount(ceiling), nil
}

// WithAutoPay toggles automatic payment of 402 responses.
func WithAutoPay(enabled bool) Option {
	return func(c *Client) {
		c.autoPay = enabled
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) {
		c.rec = r
	}
}
