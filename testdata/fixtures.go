// Package testdata provides recorded sign fixtures for tests.
package testdata

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/ayusman/signmatch/internal/ingest"
)

//go:embed recordings/*.json
var recordingsFS embed.FS

// RecordingJSON returns the raw JSON of a recording fixture by name,
// without the .json extension.
func RecordingJSON(name string) ([]byte, error) {
	data, err := recordingsFS.ReadFile("recordings/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load recording %s: %w", name, err)
	}
	return data, nil
}

// LoadRecording decodes a recording fixture by name.
func LoadRecording(name string) (*ingest.Request, error) {
	data, err := RecordingJSON(name)
	if err != nil {
		return nil, err
	}
	req, err := ingest.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode recording %s: %w", name, err)
	}
	return req, nil
}

// References lists the fixtures meant to populate a sign library, in
// name order. Query fixtures end in _query.
func References() ([]string, error) {
	entries, err := recordingsFS.ReadDir("recordings")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		if entry.IsDir() || strings.HasSuffix(name, "_query") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
