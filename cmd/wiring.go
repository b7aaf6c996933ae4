package main

import (
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Revivalution/jn-dual-create/internal/config"
	"github.com/Revivalution/jn-dual-create/internal/dualcreate"
	"github.com/Revivalution/jn-dual-create/internal/monitoring"
	"github.com/Revivalution/jn-dual-create/internal/phone"
	"github.com/Revivalution/jn-dual-create/internal/resilience"
	"github.com/Revivalution/jn-dual-create/pkg/jobnimbus"
)

// buildOrchestrator translates config into a ready Orchestrator.
func buildOrchestrator(c *config.Config) (*dualcreate.Orchestrator, error) {
	style, err := dualcreate.ParseFieldStyle(c.JobNimbus.FieldStyle)
	if err != nil {
		return nil, err
	}
	actorMode, err := dualcreate.ParseActorMode(c.JobNimbus.ActorMode)
	if err != nil {
		return nil, err
	}
	nameMode, err := dualcreate.ParseDisplayNameMode(c.Contact.DisplayNameMode)
	if err != nil {
		return nil, err
	}
	jobMode, err := dualcreate.ParseJobNamingMode(c.JobNaming.Mode)
	if err != nil {
		return nil, err
	}
	var addJobMode dualcreate.JobNamingMode
	if c.JobNaming.AddJobMode != "" {
		if addJobMode, err = dualcreate.ParseJobNamingMode(c.JobNaming.AddJobMode); err != nil {
			return nil, err
		}
	}
	norm, err := phone.New(c.Phone.Region, phone.Format(c.Phone.Format), phone.FailurePolicy(c.Phone.OnFailure))
	if err != nil {
		return nil, eris.Wrap(err, "wiring: phone normalizer")
	}

	factory := jobnimbus.NewFactory(
		jobnimbus.WithBaseURL(c.JobNimbus.BaseURL),
		jobnimbus.WithHTTPClient(&http.Client{Transport: monitoring.InstrumentTransport(nil)}),
		jobnimbus.WithTimeout(time.Duration(c.JobNimbus.TimeoutSecs)*time.Second),
		jobnimbus.WithRateLimit(c.JobNimbus.RateLimit),
	)

	return dualcreate.New(factory, dualcreate.Options{
		Defaults: dualcreate.Defaults{
			ContactType:   c.Defaults.ContactType,
			ContactStatus: c.Defaults.ContactStatus,
			JobType:       c.Defaults.JobType,
			JobStatus:     c.Defaults.JobStatus,
		},
		DisplayNameMode: nameMode,
		FieldStyle:      style,
		ActorMode:       actorMode,
		JobNamer:        dualcreate.JobNamer{Mode: jobMode, DateLayout: c.JobNaming.DateLayout},
		AddJobNamer:     dualcreate.JobNamer{Mode: addJobMode, DateLayout: c.JobNaming.DateLayout},
		Phone:           &norm,
		Propagation:     dualcreate.FixedDelay(time.Duration(c.Orchestrator.PropagationDelayMs) * time.Millisecond),
		RetryDelay:      time.Duration(c.Orchestrator.TransientRetryDelayMs) * time.Millisecond,
		Classifier:      resilience.NewMarkerClassifier(c.Orchestrator.TransientMarkers...),
	}), nil
}
