// Package metrics defines the instrumentation surface for payment and
// verification events.
package metrics

import "time"

// Event names recorded by the SDK.
const (
	EventPaymentAttempt  = "payment_attempt"
	EventPaymentRejected = "payment_rejected"
	EventVerifyOK        = "verify_ok"
	EventVerifyFailed    = "verify_failed"
)

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

type NoopRecorder struct{}

func (NoopRecorder) IncCounter(string, map[string]string)                    {}
func (NoopRecorder) ObserveLatency(string, time.Duration, map[string]string) {}
