// Package phone normalizes raw phone input into a canonical representation.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/rotisserie/eris"
)

// Format selects the canonical output representation.
type Format string

const (
	// FormatNational renders "(334) 414-3569" with no country prefix.
	FormatNational Format = "national"
	// FormatE164 renders "+13344143569".
	FormatE164 Format = "e164"
)

// FailurePolicy decides what Normalize returns for unparseable input.
type FailurePolicy string

const (
	// Passthrough returns the trimmed raw input unchanged.
	Passthrough FailurePolicy = "passthrough"
	// Drop treats the input as unusable.
	Drop FailurePolicy = "drop"
)

// Normalizer parses numbers for a default region.
type Normalizer struct {
	Region    string
	Format    Format
	OnFailure FailurePolicy
}

// New validates the settings and returns a Normalizer.
func New(region string, format Format, onFailure FailurePolicy) (Normalizer, error) {
	if region == "" {
		region = "US"
	}
	region = strings.ToUpper(region)
	if phonenumbers.GetCountryCodeForRegion(region) == 0 {
		return Normalizer{}, eris.Errorf("phone: unknown region %q", region)
	}
	switch format {
	case "":
		format = FormatNational
	case FormatNational, FormatE164:
	default:
		return Normalizer{}, eris.Errorf("phone: unknown format %q", format)
	}
	switch onFailure {
	case "":
		onFailure = Passthrough
	case Passthrough, Drop:
	default:
		return Normalizer{}, eris.Errorf("phone: unknown failure policy %q", onFailure)
	}
	return Normalizer{Region: region, Format: format, OnFailure: onFailure}, nil
}

// Default is the US / national / passthrough normalizer.
func Default() Normalizer {
	return Normalizer{Region: "US", Format: FormatNational, OnFailure: Passthrough}
}

// Normalize returns the canonical form of raw. Blank input never yields a
// value; unparseable input follows the failure policy.
func (n Normalizer) Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	num, err := phonenumbers.Parse(raw, n.region())
	if err != nil {
		if n.OnFailure == Drop {
			return "", false
		}
		return raw, true
	}

	if n.Format == FormatE164 {
		return phonenumbers.Format(num, phonenumbers.E164), true
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL), true
}

func (n Normalizer) region() string {
	if n.Region == "" {
		return "US"
	}
	return n.Region
}
