package dualcreate

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"
)

// UnnamedCustomer stands in when no contact name is known.
const UnnamedCustomer = "Unnamed Customer"

// CleanName NFC-normalizes s, trims it and collapses internal whitespace.
func CleanName(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// DerivedName returns the explicit display name, or first and last name
// joined by a single space.
func (c ContactInput) DerivedName() string {
	if name := CleanName(c.DisplayName); name != "" {
		return name
	}
	return CleanName(c.FirstName + " " + c.LastName)
}

// JobNamingMode selects how a job name is derived when the caller gives none.
type JobNamingMode string

const (
	// JobNameDated yields "Job for <contact> - <date>".
	JobNameDated JobNamingMode = "dated"
	// JobNameContact uses the contact name as is.
	JobNameContact JobNamingMode = "contact"
	// JobNameStatic always yields "New Job".
	JobNameStatic JobNamingMode = "static"
)

// ParseJobNamingMode validates a configured mode.
func ParseJobNamingMode(s string) (JobNamingMode, error) {
	switch m := JobNamingMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return JobNameDated, nil
	case JobNameDated, JobNameContact, JobNameStatic:
		return m, nil
	default:
		return "", eris.Errorf("dualcreate: unknown job naming mode %q", s)
	}
}

// JobNamer derives job names.
type JobNamer struct {
	Mode       JobNamingMode
	DateLayout string
	Now        func() time.Time
}

// Name returns explicit when set, otherwise a name built from contactName.
func (n JobNamer) Name(explicit, contactName string) string {
	if name := CleanName(explicit); name != "" {
		return name
	}

	base := CleanName(contactName)
	if base == "" {
		base = UnnamedCustomer
	}

	switch n.Mode {
	case JobNameStatic:
		return "New Job"
	case JobNameContact:
		return base
	default:
		layout := n.DateLayout
		if layout == "" {
			layout = time.DateOnly
		}
		now := time.Now
		if n.Now != nil {
			now = n.Now
		}
		return fmt.Sprintf("Job for %s - %s", base, now().Format(layout))
	}
}
