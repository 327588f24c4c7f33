package worker

import (
	"context"
	"log/slog"
	"time"

	"seatlock-coordinator/internal/infra/ledger"
	"seatlock-coordinator/internal/usecase/shared"
)

const dispatchBatchSize = 50

// Dispatcher drains the ledger outbox: conversion events are written to
// ledger_jobs in the same transaction as the booking conversion, then
// published here. A failed publish leaves the job queued so a later pass
// retries it; consumers must dedupe on bookingRef.
type Dispatcher struct {
	jobs      shared.LedgerJobs
	publisher ledger.Publisher
	interval  time.Duration
}

func NewDispatcher(jobs shared.LedgerJobs, publisher ledger.Publisher, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		jobs:      jobs,
		publisher: publisher,
		interval:  interval,
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	slog.Info("ledger dispatcher started", "interval", d.interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.Info("ledger dispatcher stopped")
			return
		case <-ticker.C:
			d.drain(ctx)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	jobs, err := d.jobs.Pending(ctx, dispatchBatchSize)
	if err != nil {
		slog.Error("failed to fetch pending ledger jobs", "error", err.Error())
		return
	}

	for _, job := range jobs {
		if err := d.publisher.Publish(ctx, job.Topic, job.Payload); err != nil {
			slog.Error("failed to publish ledger job", "job_id", job.ID, "error", err.Error())
			if markErr := d.jobs.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
				slog.Error("failed to mark ledger job as failed", "job_id", job.ID, "error", markErr.Error())
			}
			continue
		}
		if err := d.jobs.MarkDispatched(ctx, job.ID); err != nil {
			slog.Error("failed to mark ledger job as dispatched", "job_id", job.ID, "error", err.Error())
		}
	}
}
