package jobnimbus

import "fmt"

// Record is a contact or job as returned by JobNimbus. Key names vary across
// tenants and API versions, so records stay untyped and are read through the
// candidate-key tables in internal/record.
type Record map[string]any

// ContactQuery selects contacts by partial match. Callers set at most one field.
type ContactQuery struct {
	Phone string
	Email string
	Name  string
}

// Discriminator returns the query parameter name and value in use.
func (q ContactQuery) Discriminator() (string, string) {
	switch {
	case q.Phone != "":
		return "phone", q.Phone
	case q.Email != "":
		return "email", q.Email
	case q.Name != "":
		return "name", q.Name
	default:
		return "", ""
	}
}

// APIError is returned for any non-2xx response from JobNimbus.
type APIError struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jobnimbus: %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// ResponseBody returns the raw upstream response body.
func (e *APIError) ResponseBody() string {
	return e.Body
}

// HTTPStatus returns the upstream HTTP status code.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}
