// Package link provides the partner link aggregate checked by the link-health job.
package link

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"blogjobs/internal/pkg/errs"
)

// Status is the availability of a partner link.
type Status int

const (
	Pending Status = iota
	Available
	Unavailable
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Available:
		return "Available"
	case Unavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

func (s Status) Validate() error {
	if s < Pending || s > Unavailable {
		return errs.NewValueIsInvalidErrorWithCause("link status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

var ErrLinkIsNotConstructed = errors.New("Link must be created via NewLink or RestoreLink")

// Link is a partner site whose page is expected to link back to this platform.
// Excluded links are never probed.
type Link struct {
	id       int64
	name     string
	url      string
	excluded bool
	status   Status
	weight   int64

	isConstructed bool
}

// NewLink creates a link that has not been checked yet: status Pending,
// weight 0, not excluded.
//
// Example:
//
//	l, err := link.NewLink(7, "Friend", "https://friend.example.org/links")
//	if err != nil {
//		return err
//	}
//	l.ApplyProbe(true) // status Available
//
// Returns errs.ErrValueIsOutOfRange for a non-positive id and
// errs.ErrValueIsInvalid for a url without a host.
func NewLink(id int64, name, rawURL string) (*Link, error) {
	return RestoreLink(id, name, rawURL, false, Pending, 0)
}

// RestoreLink rebuilds a link from storage with the same checks as NewLink.
func RestoreLink(id int64, name, rawURL string, excluded bool, status Status, weight int64) (*Link, error) {
	if id <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("link id", id, 1, "max int64")
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("link url", fmt.Errorf("%q is not an absolute url", rawURL))
	}
	return &Link{
		id:            id,
		name:          name,
		url:           rawURL,
		excluded:      excluded,
		status:        status,
		weight:        weight,
		isConstructed: true,
	}, nil
}

func (l *Link) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLinkIsNotConstructed
	}
	return nil
}

func (l *Link) ID() int64 { return l.id }

func (l *Link) Name() string { return l.name }

func (l *Link) URL() string { return l.url }

func (l *Link) Excluded() bool { return l.excluded }

func (l *Link) Status() Status { return l.status }

func (l *Link) Weight() int64 { return l.weight }

// ApplyProbe overwrites the status with the outcome of the latest probe.
func (l *Link) ApplyProbe(available bool) {
	if available {
		l.status = Available
		return
	}
	l.status = Unavailable
}

// MatchesHost reports whether the link URL mentions host.
func (l *Link) MatchesHost(host string) bool {
	host = strings.TrimSpace(host)
	return host != "" && strings.Contains(strings.ToLower(l.url), strings.ToLower(host))
}

func (l *Link) IncrementWeight() {
	l.weight++
}
