// Package client provides an HTTP client that turns 402 responses into
// signed, paid retries.
package client

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/girderdev/x402-sdk/logger"
	"github.com/girderdev/x402-sdk/metrics"
	"github.com/girderdev/x402-sdk/protocol"
	"github.com/girderdev/x402-sdk/signer"
	"github.com/girderdev/x402-sdk/types"
)

// DefaultExpiryWindow is applied when the server's requirements carry no
// expiry of their own.
const DefaultExpiryWindow = 300 * time.Second

// Doer abstracts the underlying HTTP transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps an HTTP transport with automatic x402 payment handling.
// On a 402 with a decodable requirements header it builds a payment
// payload, signs it through the configured signer and reissues the
// request once with the payment header attached.
//
// A client is safe for concurrent use: logical requests run independently
// and share only the atomic nonce counter.
type Client struct {
	http      Doer
	signer    signer.Signer
	maxAmount *big.Int
	autoPay   bool
	timeout   time.Duration
	log       logger.Logger
	rec       metrics.Recorder

	nonce atomic.Uint64
}

// New creates a payment-aware client around the given signer.
func New(s signer.Signer, opts ...Option) *Client {
	c := &Client{
		signer:  s,
		autoPay: true,
		timeout: 30 * time.Second,
		log:     logger.NoopLogger{},
		rec:     metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	// Millisecond seed keeps nonces increasing across client restarts
	// within one session's lifetime; uniqueness within an instance comes
	// from the atomic increment.
	c.nonce.Store(uint64(time.Now().UnixMilli()))
	return c
}

// Do executes the request with automatic 402 handling. At most one
// payment attempt is made per logical request; every reject path returns
// the original response verbatim.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &types.TransportError{Op: "request", Err: err}
	}

	if resp.StatusCode != http.StatusPaymentRequired || !c.autoPay {
		return resp, nil
	}

	header := resp.Header.Get(protocol.RequirementsHeader)
	if header == "" {
		return resp, nil
	}

	requirements, err := protocol.DecodeRequirements(header)
	if err != nil {
		c.log.Warn("undecodable payment requirements, returning 402", map[string]any{
			"url":   req.URL.String(),
			"error": err.Error(),
		})
		return resp, nil
	}

	if c.maxAmount != nil && requirements.Amount.Cmp(c.maxAmount) > 0 {
		c.log.Info("payment exceeds configured ceiling, returning 402", map[string]any{
			"url":      req.URL.String(),
			"required": requirements.Amount.String(),
			"ceiling":  c.maxAmount.String(),
		})
		c.rec.IncCounter(metrics.EventPaymentRejected, map[string]string{
			"network": requirements.Network.String(),
			"code":    "over_ceiling",
		})
		return resp, nil
	}

	// A request whose body cannot be replayed cannot be retried.
	if req.Body != nil && req.GetBody == nil {
		c.log.Warn("request body is not replayable, returning 402", map[string]any{
			"url": req.URL.String(),
		})
		return resp, nil
	}

	paymentHeader, err := c.payFor(req.Context(), requirements)
	if err != nil {
		drainBody(resp)
		return nil, err
	}

	retry, err := cloneRequest(req)
	if err != nil {
		drainBody(resp)
		return nil, err
	}
	retry.Header.Set(protocol.PaymentHeader, paymentHeader)

	drainBody(resp)

	retried, err := c.http.Do(retry)
	if err != nil {
		return nil, &types.TransportError{Op: "paid retry", Err: err}
	}
	return retried, nil
}

// payFor builds, signs and encodes a payment satisfying the requirements.
func (c *Client) payFor(ctx context.Context, req *types.PaymentRequirements) (string, error) {
	payer, err := c.signer.GetAddress(ctx)
	if err != nil {
		return "", fmt.Errorf("signer address: %w", err)
	}

	chainID, ok := req.Network.ChainID()
	if !ok {
		return "", fmt.Errorf("unsupported network: %s", req.Network)
	}

	expiresAt := req.ExpiresAt
	if expiresAt == 0 {
		expiresAt = uint64(time.Now().Add(DefaultExpiryWindow).Unix())
	}

	payload := &types.PaymentPayload{
		Amount:    req.Amount,
		Recipient: req.Recipient,
		Payer:     payer,
		ChainID:   chainID,
		Token:     req.Token,
		Resource:  req.Resource,
		Nonce:     c.nextNonce(),
		ExpiresAt: expiresAt,
	}

	start := time.Now()
	sig, err := c.signer.SignPayment(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("sign payment: %w", err)
	}
	c.rec.ObserveLatency("sign", time.Since(start), map[string]string{
		"network": req.Network.String(),
	})
	c.rec.IncCounter(metrics.EventPaymentAttempt, map[string]string{
		"network": req.Network.String(),
	})
	c.log.Debug("payment signed", map[string]any{
		"network": req.Network.String(),
		"amount":  req.Amount.String(),
		"nonce":   payload.Nonce,
	})

	return protocol.EncodePayment(&types.SignedPayment{
		Payment:   *payload,
		Signature: sig,
	})
}

// nextNonce issues a strictly increasing nonce. Concurrent payment
// attempts never observe the same value.
func (c *Client) nextNonce() uint64 {
	return c.nonce.Add(1)
}

// cloneRequest deep-copies a request for the paid retry, rewinding the
// body through GetBody when present.
func cloneRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		clone.Body = body
	}
	return clone, nil
}

// drainBody discards and closes a response body so the underlying
// connection can be reused.
func drainBody(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}

// Get issues a GET request with automatic payment handling.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Post issues a POST request with automatic payment handling.
// The body must be replayable for the paid retry (readers passed to
// http.NewRequest from bytes or strings are).
func (c *Client) Post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(req)
}

// Put issues a PUT request with automatic payment handling.
func (c *Client) Put(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(req)
}

// Delete issues a DELETE request with automatic payment handling.
func (c *Client) Delete(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}
