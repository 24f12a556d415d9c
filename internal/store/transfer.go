package store

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zulandar/southwood/internal/project"
)

// WriteJSON writes projects as a JSON array in the persistence format: ISO
// dates, sparse done maps and null for absent dates.
func WriteJSON(w io.Writer, projects []project.Project) error {
	if projects == nil {
		projects = []project.Project{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(projects); err != nil {
		return fmt.Errorf("store: write json: %w", err)
	}
	return nil
}

// ReadJSON reads a JSON array written by WriteJSON. Malformed dates decode
// as absent; structurally invalid JSON is an error.
func ReadJSON(r io.Reader) ([]project.Project, error) {
	var projects []project.Project
	if err := json.NewDecoder(r).Decode(&projects); err != nil {
		return nil, fmt.Errorf("store: read json: %w", err)
	}
	for i, p := range projects {
		projects[i] = p.Clone()
	}
	return projects, nil
}
