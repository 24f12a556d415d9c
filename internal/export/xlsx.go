package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/query"
	"github.com/zulandar/southwood/internal/risk"
)

// SheetName is the worksheet written by WriteWorkbook.
const SheetName = "Projects"

var headers = []string{"ID", "Name", "Client", "Location", "Phase", "Value", "Next Due", "Risk", "Age", "Follow-up"}

// WriteWorkbook writes one row per project to an .xlsx workbook.
func WriteWorkbook(w io.Writer, projects []project.Project, today civil.Date) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	widths := map[string]float64{"A": 10, "B": 28, "C": 24, "D": 18, "E": 12, "F": 12, "G": 20, "H": 10, "I": 6, "J": 28}
	for col, width := range widths {
		f.SetColWidth(SheetName, col, col, width)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2F6B3F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(`"$"#,##0`)})
	if err != nil {
		return fmt.Errorf("export: currency style: %w", err)
	}

	for i, h := range headers {
		f.SetCellValue(SheetName, cell(i, 1), h)
	}
	f.SetCellStyle(SheetName, cell(0, 1), cell(len(headers)-1, 1), headerStyle)

	for r, p := range projects {
		row := r + 2
		next := ""
		if m, ok := risk.NextUpcoming(p, today); ok {
			next = fmt.Sprintf("%s %s", m.Phase, query.ShortDate(m.Date))
		}
		var age interface{} = ""
		if a, ok := risk.AgeInPhase(p, today); ok {
			age = a
		}
		values := []interface{}{
			p.ID, p.Name, p.Client, p.Location, string(p.Phase), p.Value,
			next, string(risk.TierOf(p, today)), age, risk.FollowUpStatus(p, today).Text,
		}
		for c, v := range values {
			f.SetCellValue(SheetName, cell(c, row), v)
		}
		f.SetCellStyle(SheetName, cell(5, row), cell(5, row), currency)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

func strPtr(s string) *string { return &s }
