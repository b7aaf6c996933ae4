package dualcreate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Revivalution/jn-dual-create/internal/record"
	"github.com/Revivalution/jn-dual-create/pkg/jobnimbus"
)

type match struct {
	rec       jobnimbus.Record
	ref       Ref
	matchedBy string
}

type lookup struct {
	by    string
	query jobnimbus.ContactQuery
}

func (d contactDraft) lookups() []lookup {
	var out []lookup
	if d.phone != "" {
		out = append(out, lookup{by: "phone", query: jobnimbus.ContactQuery{Phone: d.phone}})
	}
	if d.email != "" {
		out = append(out, lookup{by: "email", query: jobnimbus.ContactQuery{Email: d.email}})
	}
	if d.displayName != "" {
		out = append(out, lookup{by: "name", query: jobnimbus.ContactQuery{Name: d.displayName}})
	}
	return out
}

// findContact walks the discriminators in priority order and stops at the
// first lookup returning exactly one record with a usable id. Zero or several
// results fall through to the next discriminator.
func (o *Orchestrator) findContact(ctx context.Context, crm jobnimbus.Client, d contactDraft) (*match, error) {
	for _, l := range d.lookups() {
		recs, err := crm.SearchContacts(ctx, l.query)
		if err != nil {
			return nil, eris.Wrapf(err, "dualcreate: search contacts by %s", l.by)
		}
		if len(recs) != 1 {
			zap.L().Debug("dualcreate: no unique contact",
				zap.String("by", l.by),
				zap.Int("results", len(recs)),
			)
			continue
		}
		id, ok := record.ContactID.Lookup(recs[0])
		if !ok {
			zap.L().Warn("dualcreate: matched contact has no id", zap.String("by", l.by))
			continue
		}
		return &match{
			rec:       recs[0],
			ref:       Ref{ID: id, Number: record.Number.Get(recs[0])},
			matchedBy: l.by,
		}, nil
	}
	return nil, nil
}

func (o *Orchestrator) createContact(ctx context.Context, crm jobnimbus.Client, d contactDraft, actor Actor) (Ref, error) {
	if d.displayName == "" {
		return Ref{}, ErrMissingDisplayName
	}

	created, err := crm.CreateContact(ctx, o.contactPayload(d, actor))
	if err != nil {
		return Ref{}, eris.Wrap(err, "dualcreate: create contact")
	}

	id, ok := record.ContactID.Lookup(created)
	if !ok {
		return Ref{}, eris.Wrap(ErrMissingIdentifier, "dualcreate: create contact")
	}
	ref := Ref{ID: id}

	if num, ok := record.Number.Lookup(created); ok {
		ref.Number = num
		return ref, nil
	}
	fetched, err := crm.GetContact(ctx, id)
	if err != nil {
		zap.L().Warn("dualcreate: contact number re-fetch failed",
			zap.String("contact_id", id),
			zap.Error(err),
		)
		return ref, nil
	}
	ref.Number = record.Number.Get(fetched)
	return ref, nil
}
