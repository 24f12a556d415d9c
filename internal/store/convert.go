package store

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/models"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/schedule"
)

// toModel converts a domain project into its row form.
func toModel(p project.Project) (models.Project, error) {
	milestones, err := marshalMilestones(p.Milestones)
	if err != nil {
		return models.Project{}, fmt.Errorf("store: encode milestones for %s: %w", p.ID, err)
	}
	done, err := marshalMilestones(p.Done)
	if err != nil {
		return models.Project{}, fmt.Errorf("store: encode done for %s: %w", p.ID, err)
	}
	return models.Project{
		ID:            p.ID,
		Name:          p.Name,
		Client:        p.Client,
		Location:      p.Location,
		Value:         p.Value,
		ContactPerson: p.ContactPerson,
		ContactEmail:  p.ContactEmail,
		Phase:         string(p.Phase),
		Milestones:    milestones,
		Done:          done,
		PhaseSince:    dateString(p.PhaseSince),
		CompletedAt:   dateString(p.CompletedAt),
		LastContact:   dateString(p.LastContact),
		CadenceDays:   p.CadenceDays,
	}, nil
}

// fromModel converts a row back into a domain project. Malformed stored
// dates decode as absent.
func fromModel(m models.Project) (project.Project, error) {
	milestones, err := unmarshalMilestones(m.Milestones)
	if err != nil {
		return project.Project{}, fmt.Errorf("store: decode milestones for %s: %w", m.ID, err)
	}
	done, err := unmarshalMilestones(m.Done)
	if err != nil {
		return project.Project{}, fmt.Errorf("store: decode done for %s: %w", m.ID, err)
	}
	return project.Project{
		ID:            m.ID,
		Name:          m.Name,
		Client:        m.Client,
		Location:      m.Location,
		Value:         m.Value,
		Phase:         phase.Phase(m.Phase),
		Milestones:    milestones,
		PhaseSince:    parseDate(m.PhaseSince),
		Done:          done,
		CompletedAt:   parseDate(m.CompletedAt),
		LastContact:   parseDate(m.LastContact),
		CadenceDays:   m.CadenceDays,
		ContactPerson: m.ContactPerson,
		ContactEmail:  m.ContactEmail,
	}, nil
}

func marshalMilestones(m schedule.Milestones) (datatypes.JSON, error) {
	data, err := json.Marshal(m.Clone())
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func unmarshalMilestones(data datatypes.JSON) (schedule.Milestones, error) {
	if len(data) == 0 {
		return schedule.Milestones{}, nil
	}
	var m schedule.Milestones
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

func dateString(d civil.Date) *string {
	if d.IsZero() {
		return nil
	}
	s := d.String()
	return &s
}

func parseDate(s *string) civil.Date {
	if s == nil {
		return civil.Date{}
	}
	d, _ := civil.Parse(*s)
	return d
}
