package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/risk"
	"github.com/zulandar/southwood/internal/schedule"
)

// Row is one project with its derived read model.
type Row struct {
	Project    project.Project `json:"project"`
	Assessment risk.Assessment `json:"assessment"`
	Ordered    bool            `json:"ordered"`
}

func buildRow(p project.Project, today civil.Date) Row {
	return Row{
		Project:    p,
		Assessment: risk.Assess(p, today),
		Ordered:    schedule.Ordered(p.Milestones),
	}
}

func buildRows(projects []project.Project, today civil.Date) []Row {
	rows := make([]Row, len(projects))
	for i, p := range projects {
		rows[i] = buildRow(p, today)
	}
	return rows
}

// sortKeys lists the accepted values of the sort parameter.
var sortKeys = []string{"priority", "value", "next", "age", "name", "client"}

// sortRows orders rows in place by key. Ties keep their incoming order.
func sortRows(rows []Row, key string) error {
	var less func(a, b Row) bool
	switch key {
	case "priority":
		less = func(a, b Row) bool { return a.Assessment.Score > b.Assessment.Score }
	case "value":
		less = func(a, b Row) bool { return a.Project.Value > b.Project.Value }
	case "next":
		less = func(a, b Row) bool {
			an, bn := a.Assessment.Next, b.Assessment.Next
			if an == nil || bn == nil {
				return an != nil && bn == nil
			}
			return an.Date.Before(bn.Date)
		}
	case "age":
		less = func(a, b Row) bool { return ageOf(a) > ageOf(b) }
	case "name":
		less = func(a, b Row) bool { return strings.ToLower(a.Project.Name) < strings.ToLower(b.Project.Name) }
	case "client":
		less = func(a, b Row) bool { return strings.ToLower(a.Project.Client) < strings.ToLower(b.Project.Client) }
	default:
		return fmt.Errorf("sort must be one of %s", strings.Join(sortKeys, ", "))
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	return nil
}

func ageOf(r Row) int {
	if r.Assessment.Age == nil {
		return -1
	}
	return *r.Assessment.Age
}
