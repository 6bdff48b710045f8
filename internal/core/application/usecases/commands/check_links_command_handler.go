package commands

import (
	"context"
	"errors"
	"fmt"

	"blogjobs/internal/core/domain/model/link"
	"blogjobs/internal/core/ports"
	"blogjobs/internal/pkg/errs"
	"blogjobs/internal/pkg/fanout"
)

var errLinkUnavailable = errors.New("link is unavailable")

// CheckLinksResult is the per-link outcome of one run, in repository order.
type CheckLinksResult struct {
	Report fanout.Report[*link.Link]
}

func (r CheckLinksResult) Available() int {
	return r.Report.Succeeded()
}

func (r CheckLinksResult) Unavailable() int {
	return r.Report.Failed()
}

// CheckLinksCommandHandler probes all checkable links in parallel and then
// writes every classification in one transaction. A probe failure only marks
// its own link; the batch itself never fails because of a probe.
//
// The write is status-only (LinkRepository.UpdateStatus), so weight
// increments committed by UpdateLinkWeight while the probes run are kept.
//
// Usage:
//
//	h, err := commands.NewCheckLinksCommandHandler(uowFactory, prober, 8)
//	if err != nil {
//		return err
//	}
//	result, err := h.Handle(ctx, commands.NewCheckLinksCommand())
//	// result.Available() + result.Unavailable() == number of checkable links
type CheckLinksCommandHandler struct {
	uowFactory     LinkUoWFactory
	prober         ports.Prober
	maxConcurrency int
}

// NewCheckLinksCommandHandler returns errs.ErrValueIsOutOfRange when
// maxConcurrency is below 1.
func NewCheckLinksCommandHandler(
	uowFactory LinkUoWFactory,
	prober ports.Prober,
	maxConcurrency int,
) (CheckLinksCommandHandler, error) {
	if maxConcurrency < 1 {
		return CheckLinksCommandHandler{}, errs.NewValueIsOutOfRangeError("max concurrency", maxConcurrency, 1, "max int")
	}
	return CheckLinksCommandHandler{
		uowFactory:     uowFactory,
		prober:         prober,
		maxConcurrency: maxConcurrency,
	}, nil
}

func (h *CheckLinksCommandHandler) Handle(ctx context.Context, cmd CheckLinksCommand) (CheckLinksResult, error) {
	if err := cmd.Validate(); err != nil {
		return CheckLinksResult{}, err
	}

	uow := h.uowFactory.Create()

	links, err := uow.LinkRepository().GetAllCheckable(ctx)
	if err != nil {
		return CheckLinksResult{}, fmt.Errorf("load links: %w", err)
	}
	if len(links) == 0 {
		return CheckLinksResult{}, nil
	}

	report := fanout.RunAll(ctx, links, h.probe, h.maxConcurrency)

	for _, outcome := range report.Outcomes {
		outcome.Target.ApplyProbe(outcome.Status == fanout.Succeeded)
	}

	if err = uow.Begin(ctx); err != nil {
		return CheckLinksResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.LinkRepository()
	for _, l := range links {
		if err = repo.UpdateStatus(ctx, l); err != nil {
			return CheckLinksResult{}, fmt.Errorf("update link %d: %w", l.ID(), err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return CheckLinksResult{}, err
	}
	return CheckLinksResult{Report: report}, nil
}

func (h *CheckLinksCommandHandler) probe(ctx context.Context, l *link.Link) error {
	result := h.prober.Probe(ctx, l.URL())
	if result.Available {
		return nil
	}
	if result.Err != nil {
		return result.Err
	}
	return errLinkUnavailable
}
