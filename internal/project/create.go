package project

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/schedule"
)

// idFloor is the lowest number an issued id can follow.
const idFloor = 2400

// ValidationError is a user-facing rejection at the write boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("project: invalid %s: %s", e.Field, e.Message)
}

// NextID returns prefix-N where N is one more than the largest number found
// in ids, never lower than 2401.
func NextID(ids []string, prefix string) string {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	highest := idFloor
	for _, id := range ids {
		var digits strings.Builder
		for _, r := range id {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		if digits.Len() == 0 {
			continue
		}
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s-%d", prefix, highest+1)
}

// ParseValue parses a monetary amount typed by a user. Commas, dollar signs
// and spaces are ignored. Empty, non-numeric, non-finite and negative
// values are rejected.
func ParseValue(raw string) (float64, error) {
	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, &ValidationError{Field: "value", Message: "Value is required."}
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: "value", Message: "Value must be a number."}
	}
	if v < 0 {
		return 0, &ValidationError{Field: "value", Message: "Value cannot be negative."}
	}
	return v, nil
}

// CreateOpts holds the user input for a new project.
type CreateOpts struct {
	Name          string
	Client        string
	Location      string
	Value         string
	Phase         phase.Phase
	ContactPerson string
	ContactEmail  string
	CadenceDays   int
	IDPrefix      string
}

// New validates opts and builds a project in opts.Phase scheduled from
// today. existingIDs seeds the id sequence.
func New(opts CreateOpts, existingIDs []string, today civil.Date) (Project, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return Project{}, &ValidationError{Field: "name", Message: "Project name is required."}
	}
	client := strings.TrimSpace(opts.Client)
	if client == "" {
		return Project{}, &ValidationError{Field: "client", Message: "Client is required."}
	}
	value, err := ParseValue(opts.Value)
	if err != nil {
		return Project{}, err
	}
	ph := opts.Phase
	if ph == "" {
		ph = phase.Design
	}
	if !phase.Valid(ph) {
		return Project{}, &ValidationError{Field: "phase", Message: fmt.Sprintf("Unknown phase %q.", ph)}
	}
	cadence := opts.CadenceDays
	if cadence == 0 {
		cadence = DefaultCadenceDays
	}
	if cadence < 1 {
		return Project{}, &ValidationError{Field: "cadenceDays", Message: "Cadence must be at least 1 day."}
	}
	location := strings.TrimSpace(opts.Location)
	if location == "" {
		location = DefaultLocation
	}

	return Project{
		ID:            NextID(existingIDs, opts.IDPrefix),
		Name:          name,
		Client:        client,
		Location:      location,
		Value:         value,
		Phase:         ph,
		Milestones:    schedule.Seed(ph, today),
		PhaseSince:    today,
		Done:          schedule.Milestones{},
		CadenceDays:   cadence,
		ContactPerson: strings.TrimSpace(opts.ContactPerson),
		ContactEmail:  strings.TrimSpace(opts.ContactEmail),
	}, nil
}
