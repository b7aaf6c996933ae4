package dualcreate

import (
	"errors"

	"github.com/rotisserie/eris"
)

var (
	// ErrMissingDisplayName is returned when a contact must be created but no
	// display name can be derived from the input.
	ErrMissingDisplayName = eris.New("dualcreate: contact display name is required")

	// ErrMissingContactID is returned when add-job is called without a contact id.
	ErrMissingContactID = eris.New("dualcreate: contact id is required")

	// ErrMissingIdentifier is returned when a creation response carries none
	// of the identifier keys.
	ErrMissingIdentifier = eris.New("dualcreate: creation response carried no identifier")

	// ErrContactNotFound is returned when a referenced contact does not exist.
	ErrContactNotFound = eris.New("dualcreate: contact not found")
)

// IsValidation reports whether err stems from caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingDisplayName) || errors.Is(err, ErrMissingContactID)
}
