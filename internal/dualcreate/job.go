package dualcreate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Revivalution/jn-dual-create/internal/monitoring"
	"github.com/Revivalution/jn-dual-create/internal/record"
	"github.com/Revivalution/jn-dual-create/internal/resilience"
	"github.com/Revivalution/jn-dual-create/pkg/jobnimbus"
)

// createJob posts the job, retrying once on a transient fault, and resolves
// its id and number. operation labels logs and metrics.
func (o *Orchestrator) createJob(ctx context.Context, crm jobnimbus.Client, operation, contactID, name string, in JobInput, actor Actor) (Ref, error) {
	body := o.jobPayload(contactID, name, in, actor)

	cfg := resilience.RetryOnce(o.opts.RetryDelay, o.opts.Classifier)
	retryLog := resilience.RetryLogger("jobnimbus", "create job")
	cfg.OnRetry = func(attempt int, fault resilience.Fault, err error) {
		monitoring.TransientRetries.WithLabelValues(operation).Inc()
		retryLog(attempt, fault, err)
	}

	created, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (jobnimbus.Record, error) {
		return crm.CreateJob(ctx, body)
	})
	if err != nil {
		monitoring.OrchestrationFailures.WithLabelValues("create_job", o.opts.Classifier.Classify(err).String()).Inc()
		return Ref{}, eris.Wrap(err, "dualcreate: create job")
	}

	id, ok := record.JobID.Lookup(created)
	if !ok {
		monitoring.OrchestrationFailures.WithLabelValues("create_job", "missing_id").Inc()
		return Ref{}, eris.Wrap(ErrMissingIdentifier, "dualcreate: create job")
	}
	monitoring.JobsCreated.WithLabelValues(operation).Inc()

	ref := Ref{ID: id, Name: name}
	if num, ok := record.Number.Lookup(created); ok {
		ref.Number = num
		return ref, nil
	}
	fetched, err := crm.GetJob(ctx, id)
	if err != nil {
		zap.L().Warn("dualcreate: job number re-fetch failed",
			zap.String("job_id", id),
			zap.Error(err),
		)
		return ref, nil
	}
	ref.Number = record.Number.Get(fetched)
	return ref, nil
}
