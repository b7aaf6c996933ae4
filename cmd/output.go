package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/Revivalution/jn-dual-create/internal/dualcreate"
)

// readInput decodes a JSON or YAML document from path ("-" reads stdin).
func readInput(path string, stdin io.Reader, dst any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return eris.Wrapf(err, "read input %s", path)
	}
	// yaml.v3 also accepts JSON documents.
	if err := yaml.Unmarshal(data, dst); err != nil {
		return eris.Wrap(err, "decode input")
	}
	return nil
}

func writeOutput(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "encode json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return eris.Wrap(enc.Encode(v), "encode yaml")
	default:
		return eris.Errorf("unknown output format %q", format)
	}
}

// tenantFlags are shared by the commands that call the CRM directly.
type tenantFlags struct {
	apiKey     string
	actorEmail string
	actorName  string
	format     string
}

func (f *tenantFlags) tenant() (dualcreate.Tenant, error) {
	key := strings.TrimSpace(f.apiKey)
	if key == "" {
		key = cfg.JobNimbus.APIKey
	}
	cfg.JobNimbus.APIKey = key
	if err := cfg.Validate("cli"); err != nil {
		return dualcreate.Tenant{}, err
	}
	return dualcreate.Tenant{
		APIKey: key,
		Actor:  dualcreate.Actor{Email: f.actorEmail, Name: f.actorName},
	}, nil
}
