package dualcreate

import (
	"strings"

	"github.com/rotisserie/eris"
)

// FieldStyle selects the key convention of outbound payloads.
type FieldStyle string

const (
	// StyleSnake emits display_name, address_line1, primary{id} and friends.
	StyleSnake FieldStyle = "snake"
	// StyleCamel emits displayName, contactId and a nested address object.
	StyleCamel FieldStyle = "camel"
)

// DisplayNameMode selects the key carrying a contact's display name.
type DisplayNameMode string

const (
	DisplayNameKey DisplayNameMode = "displayName"
	NameKey        DisplayNameMode = "name"
)

// ActorMode selects how the acting user is attributed.
type ActorMode string

const (
	// ActorQuery sends the actor email as a query parameter.
	ActorQuery ActorMode = "query"
	// ActorFields writes sales_rep and sales_rep_name into the body.
	ActorFields ActorMode = "fields"
	// ActorNone drops attribution.
	ActorNone ActorMode = "none"
)

// ParseFieldStyle validates a configured field style.
func ParseFieldStyle(s string) (FieldStyle, error) {
	switch v := FieldStyle(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return StyleSnake, nil
	case StyleSnake, StyleCamel:
		return v, nil
	default:
		return "", eris.Errorf("dualcreate: unknown field style %q", s)
	}
}

// ParseDisplayNameMode validates a configured display name mode.
func ParseDisplayNameMode(s string) (DisplayNameMode, error) {
	switch v := DisplayNameMode(strings.TrimSpace(s)); v {
	case "":
		return DisplayNameKey, nil
	case DisplayNameKey, NameKey:
		return v, nil
	default:
		return "", eris.Errorf("dualcreate: unknown display name mode %q", s)
	}
}

// ParseActorMode validates a configured actor mode.
func ParseActorMode(s string) (ActorMode, error) {
	switch v := ActorMode(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return ActorQuery, nil
	case ActorQuery, ActorFields, ActorNone:
		return v, nil
	default:
		return "", eris.Errorf("dualcreate: unknown actor mode %q", s)
	}
}

// Defaults fill type and status when the caller leaves them blank.
type Defaults struct {
	ContactType   string
	ContactStatus string
	JobType       string
	JobStatus     string
}

type payload map[string]any

func (p payload) set(key, val string) {
	if v := strings.TrimSpace(val); v != "" {
		p[key] = v
	}
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func (p payload) address(style FieldStyle, a *Address) {
	if a.IsZero() {
		return
	}
	if style == StyleCamel {
		nested := payload{}
		nested.set("street", a.Street)
		nested.set("city", a.City)
		nested.set("state", a.State)
		nested.set("postalCode", a.PostalCode)
		p["address"] = map[string]any(nested)
		return
	}
	p.set("address_line1", a.Street)
	p.set("city", a.City)
	p.set("state_text", a.State)
	p.set("zip", a.PostalCode)
}

func (p payload) actor(mode ActorMode, a Actor) {
	if mode != ActorFields {
		return
	}
	p.set("sales_rep", a.Email)
	p.set("sales_rep_name", a.Name)
}

// contactDraft is the normalized contact about to be created.
type contactDraft struct {
	input       ContactInput
	displayName string
	phone       string
	email       string
}

func (o *Orchestrator) contactPayload(d contactDraft, actor Actor) map[string]any {
	p := payload{}
	nameKey := string(o.opts.DisplayNameMode)

	if o.opts.FieldStyle == StyleCamel {
		p.set("firstName", d.input.FirstName)
		p.set("lastName", d.input.LastName)
		p.set(nameKey, d.displayName)
		p.set("type", firstNonBlank(d.input.Type, o.opts.Defaults.ContactType))
		p.set("status", firstNonBlank(d.input.Status, o.opts.Defaults.ContactStatus))
		p.set("phone", d.phone)
	} else {
		if nameKey == string(DisplayNameKey) {
			nameKey = "display_name"
		}
		p.set("first_name", d.input.FirstName)
		p.set("last_name", d.input.LastName)
		p.set(nameKey, d.displayName)
		p.set("record_type_name", firstNonBlank(d.input.Type, o.opts.Defaults.ContactType))
		p.set("status_name", firstNonBlank(d.input.Status, o.opts.Defaults.ContactStatus))
		p.set("mobile_phone", d.phone)
	}
	p.set("email", d.email)
	p.address(o.opts.FieldStyle, d.input.Address)
	p.actor(o.opts.ActorMode, actor)
	return p
}

func (o *Orchestrator) jobPayload(contactID, name string, in JobInput, actor Actor) map[string]any {
	p := payload{}

	if o.opts.FieldStyle == StyleCamel {
		p.set("contactId", contactID)
		p.set("name", name)
		p.set("displayName", name)
		p.set("type", firstNonBlank(in.Type, o.opts.Defaults.JobType))
		p.set("status", firstNonBlank(in.Status, o.opts.Defaults.JobStatus))
	} else {
		p["primary"] = map[string]any{"id": contactID}
		p.set("name", name)
		p.set("display_name", name)
		p.set("record_type_name", firstNonBlank(in.Type, o.opts.Defaults.JobType))
		p.set("status_name", firstNonBlank(in.Status, o.opts.Defaults.JobStatus))
	}
	p.set("description", in.Description)
	p.address(o.opts.FieldStyle, in.Address)
	p.actor(o.opts.ActorMode, actor)
	return p
}
