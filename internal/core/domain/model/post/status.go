package post

import (
	"fmt"

	"blogjobs/internal/pkg/errs"
)

// Status is the lifecycle state of a post.
//
//	Draft ──> Published ──> Unavailable
//	            │  ▲
//	            └──┘ (republish refreshes timestamps)
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Draft
	Published
	Unavailable
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "Unknown",
		Draft:       "Draft",
		Published:   "Published",
		Unavailable: "Unavailable",
	}
}

// Validate rejects Unknown and out-of-range values read from storage.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Publish returns the status after a publish job runs.
func (s Status) Publish() (Status, error) {
	switch s {
	case Draft, Published:
		return Published, nil
	default:
		return s, errs.NewValueIsInvalidErrorWithCause(
			"status transition is invalid",
			fmt.Errorf("cannot publish from %s", s),
		)
	}
}
