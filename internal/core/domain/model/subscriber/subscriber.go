// Package subscriber provides broadcast subscribers and the signed unsubscribe link.
package subscriber

import (
	"net/mail"
	"strings"

	"blogjobs/internal/pkg/errs"
)

// Status is the subscription state.
type Status int

const (
	Pending Status = iota
	Subscribed
	Unsubscribed
)

// Kind is what the subscriber signed up for.
type Kind int

const (
	KindBroadcast Kind = iota + 1
	KindComment
)

// Subscriber is read-only to broadcast jobs.
type Subscriber struct {
	email        string
	validateCode string
	status       Status
	kind         Kind
}

func RestoreSubscriber(email, validateCode string, status Status, kind Kind) (Subscriber, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Subscriber{}, errs.NewValueIsRequiredError("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Subscriber{}, errs.NewValueIsInvalidErrorWithCause("email", err)
	}
	return Subscriber{email: email, validateCode: validateCode, status: status, kind: kind}, nil
}

func (s Subscriber) Email() string { return s.email }

func (s Subscriber) ValidateCode() string { return s.validateCode }

func (s Subscriber) Status() Status { return s.status }

func (s Subscriber) Kind() Kind { return s.kind }

// ReceivesBroadcasts reports whether new-post broadcasts go to this address.
func (s Subscriber) ReceivesBroadcasts() bool {
	return s.status == Subscribed && s.kind == KindBroadcast
}
