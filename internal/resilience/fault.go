package resilience

import (
	"errors"
	"net/http"
	"strings"
)

// Fault is the closed set of categories an upstream failure maps to.
type Fault int

const (
	// FaultNone means no error.
	FaultNone Fault = iota
	// FaultPermanent is an upstream rejection that will not change on retry.
	FaultPermanent
	// FaultTransient is a known backend condition that clears after a short wait.
	FaultTransient
	// FaultNotFound is an upstream 404.
	FaultNotFound
	// FaultNetwork is a transport failure or timeout with no upstream answer.
	FaultNetwork
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultPermanent:
		return "permanent"
	case FaultTransient:
		return "transient"
	case FaultNotFound:
		return "not_found"
	case FaultNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Retryable reports whether the retry policy may re-issue the call.
func (f Fault) Retryable() bool {
	return f == FaultTransient
}

// Classifier maps an error to a Fault.
type Classifier interface {
	Classify(err error) Fault
}

// DefaultTransientMarkers are the upstream error class names known to clear
// on retry. JobNimbus reports a Couchbase failure when a job references a
// contact written moments earlier.
var DefaultTransientMarkers = []string{"CouchbaseError"}

type responseBodier interface {
	ResponseBody() string
}

type statusCoder interface {
	HTTPStatus() int
}

// MarkerClassifier treats an upstream response whose body contains any of
// Markers as transient. Everything else that carries an upstream answer is
// permanent, except 404.
type MarkerClassifier struct {
	Markers []string
}

// NewMarkerClassifier falls back to DefaultTransientMarkers when markers is empty.
func NewMarkerClassifier(markers ...string) MarkerClassifier {
	if len(markers) == 0 {
		markers = DefaultTransientMarkers
	}
	return MarkerClassifier{Markers: markers}
}

// Classify implements Classifier.
func (c MarkerClassifier) Classify(err error) Fault {
	if err == nil {
		return FaultNone
	}

	var rb responseBodier
	if errors.As(err, &rb) {
		body := rb.ResponseBody()
		for _, m := range c.Markers {
			if m != "" && strings.Contains(body, m) {
				return FaultTransient
			}
		}
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		if sc.HTTPStatus() == http.StatusNotFound {
			return FaultNotFound
		}
		return FaultPermanent
	}

	if IsNetworkFailure(err) {
		return FaultNetwork
	}
	return FaultPermanent
}
