// file: internals/helpers/notifier/notifier.go
package notifier

import "log"

// Notifier is the guardian-messaging capability. Delivery lives in a separate
// service; from here it is fire-and-forget and must never block a payment or
// enrollment state change.
type Notifier interface {
	Send(to, subject, body string) error
}

// LogNotifier is the default wiring when no delivery backend is configured.
type LogNotifier struct{}

func (LogNotifier) Send(to, subject, body string) error {
	log.Printf("[NOTIFY] to=%s subject=%q body=%q", to, subject, body)
	return nil
}

var Default Notifier = LogNotifier{}

// SendAsync delivers in the background; failures are logged, never returned.
func SendAsync(n Notifier, to, subject, body string) {
	if n == nil {
		n = Default
	}
	if to == "" {
		return
	}
	go func() {
		if err := n.Send(to, subject, body); err != nil {
			log.Printf("[ERROR] notifier send failed to=%s: %v", to, err)
		}
	}()
}
