// Package dualcreate finds or creates a JobNimbus contact and attaches a new
// job to it.
//
// Contact dedup is narrow: a lookup counts as a match only when
// it returns exactly one record. Discriminators are tried in the order phone,
// email, name. Job creation is retried once after a short wait when the CRM
// reports a transient storage error; nothing else is retried.
package dualcreate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Revivalution/jn-dual-create/internal/monitoring"
	"github.com/Revivalution/jn-dual-create/internal/phone"
	"github.com/Revivalution/jn-dual-create/internal/record"
	"github.com/Revivalution/jn-dual-create/internal/resilience"
	"github.com/Revivalution/jn-dual-create/pkg/jobnimbus"
)

const (
	DefaultPropagationDelay = time.Second
	DefaultRetryDelay       = 2 * time.Second
)

// Options tune orchestration behaviour. Zero values are replaced by defaults
// in New.
type Options struct {
	Defaults        Defaults
	DisplayNameMode DisplayNameMode
	FieldStyle      FieldStyle
	ActorMode       ActorMode
	JobNamer        JobNamer
	AddJobNamer     JobNamer
	Phone           *phone.Normalizer
	Propagation     PropagationPolicy
	RetryDelay      time.Duration
	Classifier      resilience.Classifier
}

// DefaultDefaults mirror a stock JobNimbus workflow.
func DefaultDefaults() Defaults {
	return Defaults{
		ContactType:   "Residential",
		ContactStatus: "New Lead",
		JobType:       "General",
		JobStatus:     "New",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultDefaults()
	o.Defaults.ContactType = firstNonBlank(o.Defaults.ContactType, d.ContactType)
	o.Defaults.ContactStatus = firstNonBlank(o.Defaults.ContactStatus, d.ContactStatus)
	o.Defaults.JobType = firstNonBlank(o.Defaults.JobType, d.JobType)
	o.Defaults.JobStatus = firstNonBlank(o.Defaults.JobStatus, d.JobStatus)

	if o.DisplayNameMode == "" {
		o.DisplayNameMode = DisplayNameKey
	}
	if o.FieldStyle == "" {
		o.FieldStyle = StyleSnake
	}
	if o.ActorMode == "" {
		o.ActorMode = ActorQuery
	}
	if o.JobNamer.Mode == "" {
		o.JobNamer.Mode = JobNameDated
	}
	if o.AddJobNamer.Mode == "" {
		o.AddJobNamer.Mode = JobNameContact
	}
	if o.AddJobNamer.DateLayout == "" {
		o.AddJobNamer.DateLayout = o.JobNamer.DateLayout
	}
	if o.AddJobNamer.Now == nil {
		o.AddJobNamer.Now = o.JobNamer.Now
	}
	if o.Phone == nil {
		n := phone.Default()
		o.Phone = &n
	}
	if o.Propagation == nil {
		o.Propagation = FixedDelay(DefaultPropagationDelay)
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = 0
	}
	if o.Classifier == nil {
		o.Classifier = resilience.NewMarkerClassifier()
	}
	return o
}

// Orchestrator runs dual-create and add-job flows. It holds no per-request
// state and is safe for concurrent use.
type Orchestrator struct {
	factory jobnimbus.Factory
	opts    Options
}

// New creates an Orchestrator that builds CRM clients through factory.
func New(factory jobnimbus.Factory, opts Options) *Orchestrator {
	return &Orchestrator{factory: factory, opts: opts.withDefaults()}
}

func (o *Orchestrator) client(t Tenant) jobnimbus.Client {
	actor := ""
	if o.opts.ActorMode == ActorQuery {
		actor = strings.TrimSpace(t.Actor.Email)
	}
	return o.factory(t.APIKey, actor)
}

// DualCreate resolves the contact described by contact, creating it when no
// unambiguous match exists, and then creates a job linked to it.
func (o *Orchestrator) DualCreate(ctx context.Context, tenant Tenant, contact ContactInput, job JobInput) (*Result, error) {
	crm := o.client(tenant)
	log := zap.L().With(zap.String("op", "dual_create"), zap.String("actor", tenant.Actor.Email))

	draft := contactDraft{
		input:       contact,
		displayName: contact.DerivedName(),
		email:       strings.TrimSpace(contact.Email),
	}
	draft.phone, _ = o.opts.Phone.Normalize(contact.Phone)

	res := &Result{}
	found, err := o.findContact(ctx, crm, draft)
	if err != nil {
		monitoring.OrchestrationFailures.WithLabelValues("search", o.opts.Classifier.Classify(err).String()).Inc()
		return nil, err
	}

	contactName := draft.displayName
	if found != nil {
		res.Customer = found.ref
		res.MatchedBy = found.matchedBy
		if contactName == "" {
			contactName = record.DisplayName.Get(found.rec)
		}
		monitoring.ContactResolutions.WithLabelValues(found.matchedBy).Inc()
		log.Info("dualcreate: matched existing contact",
			zap.String("contact_id", res.Customer.ID),
			zap.String("matched_by", found.matchedBy),
		)
	} else {
		ref, err := o.createContact(ctx, crm, draft, tenant.Actor)
		if err != nil {
			if !IsValidation(err) {
				monitoring.OrchestrationFailures.WithLabelValues("create_contact", o.opts.Classifier.Classify(err).String()).Inc()
			}
			return nil, err
		}
		res.Customer = ref
		res.ContactCreated = true
		monitoring.ContactResolutions.WithLabelValues("created").Inc()
		log.Info("dualcreate: created contact", zap.String("contact_id", ref.ID), zap.String("number", ref.Number))

		if err := o.opts.Propagation.AwaitContact(ctx, ref.ID); err != nil {
			return nil, eris.Wrap(err, "dualcreate: await contact propagation")
		}
	}
	res.Customer.Name = contactName

	jobName := o.opts.JobNamer.Name(job.Name, contactName)
	res.Job, err = o.createJob(ctx, crm, "dual_create", res.Customer.ID, jobName, job, tenant.Actor)
	if err != nil {
		return nil, err
	}

	log.Info("dualcreate: created job",
		zap.String("contact_id", res.Customer.ID),
		zap.String("job_id", res.Job.ID),
		zap.Bool("contact_created", res.ContactCreated),
	)
	return res, nil
}

// AddJob creates a job for an existing contact. The contact is fetched first
// so that a missing contact fails with ErrContactNotFound before any write.
func (o *Orchestrator) AddJob(ctx context.Context, tenant Tenant, in AddJobInput) (*Result, error) {
	contactID := strings.TrimSpace(in.ContactID)
	if contactID == "" {
		return nil, ErrMissingContactID
	}

	crm := o.client(tenant)
	contact, err := crm.GetContact(ctx, contactID)
	if err != nil {
		fault := o.opts.Classifier.Classify(err)
		if fault == resilience.FaultNotFound || isClientError(err) {
			return nil, eris.Wrapf(ErrContactNotFound, "dualcreate: contact %s", contactID)
		}
		monitoring.OrchestrationFailures.WithLabelValues("get_contact", fault.String()).Inc()
		return nil, eris.Wrapf(err, "dualcreate: get contact %s", contactID)
	}
	if len(contact) == 0 {
		return nil, eris.Wrapf(ErrContactNotFound, "dualcreate: contact %s", contactID)
	}

	contactName := firstNonBlank(CleanName(in.ContactName), CleanName(record.DisplayName.Get(contact)))
	jobName := o.opts.AddJobNamer.Name(in.JobName, contactName)

	job, err := o.createJob(ctx, crm, "add_job", contactID, jobName, in.Job, tenant.Actor)
	if err != nil {
		return nil, err
	}

	zap.L().Info("dualcreate: added job",
		zap.String("contact_id", contactID),
		zap.String("job_id", job.ID),
	)
	return &Result{
		Customer: Ref{ID: contactID, Number: record.Number.Get(contact), Name: contactName},
		Job:      job,
	}, nil
}

type statusCoder interface {
	HTTPStatus() int
}

// isClientError reports a 4xx upstream answer, which for a lookup by id means
// the id does not name a readable contact.
func isClientError(err error) bool {
	var sc statusCoder
	if !errors.As(err, &sc) {
		return false
	}
	code := sc.HTTPStatus()
	return code >= 400 && code < 500 && code != 401 && code != 403 && code != 429
}
