package service

import (
	"strings"

	"github.com/bruintracks/bruintracks-go/internal/models"
	"github.com/bruintracks/bruintracks-go/pkg/export"
)

var scheduleHeaders = []string{
	"Term", "Course", "Section", "Activity",
	"Days", "Start", "End", "Building", "Room", "Instructors",
}

// ExportService flattens schedules into tabular form for CSV and PDF
// download.
type ExportService struct {
	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewExportService constructs the exporter pair.
func NewExportService() *ExportService {
	return &ExportService{csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

// ScheduleDataset renders one row per meeting of each chosen section. Terms
// without section detail produce one row per course.
func (s *ExportService) ScheduleDataset(schedule *models.Schedule) export.Dataset {
	data := export.Dataset{Headers: scheduleHeaders}
	if schedule == nil {
		return data
	}

	for _, label := range schedule.Terms {
		entry, ok := schedule.Entry(label)
		if !ok {
			continue
		}
		for _, course := range entry.Order {
			if !entry.Detailed {
				data.Rows = append(data.Rows, map[string]string{"Term": label, "Course": course})
				continue
			}
			placement := entry.Placements[course]
			rows := placementRows(label, course, placement)
			if len(rows) == 0 {
				rows = []map[string]string{{"Term": label, "Course": course}}
			}
			data.Rows = append(data.Rows, rows...)
		}
	}
	return data
}

func placementRows(term, course string, placement *models.CoursePlacement) []map[string]string {
	if placement == nil {
		return nil
	}
	var rows []map[string]string
	for _, summary := range []*models.SectionSummary{placement.Lecture, placement.Discussion} {
		if summary == nil {
			continue
		}
		if len(summary.Times) == 0 {
			rows = append(rows, map[string]string{
				"Term":        term,
				"Course":      course,
				"Section":     summary.Section,
				"Activity":    summary.Activity,
				"Instructors": strings.Join(summary.Instructors, "; "),
			})
			continue
		}
		for _, meeting := range summary.Times {
			rows = append(rows, map[string]string{
				"Term":        term,
				"Course":      course,
				"Section":     summary.Section,
				"Activity":    summary.Activity,
				"Days":        meeting.Days,
				"Start":       meeting.Start,
				"End":         meeting.End,
				"Building":    meeting.Building,
				"Room":        meeting.Room,
				"Instructors": strings.Join(summary.Instructors, "; "),
			})
		}
	}
	return rows
}

// RenderCSV exports the schedule as CSV bytes.
func (s *ExportService) RenderCSV(schedule *models.Schedule) ([]byte, error) {
	return s.csv.Render(s.ScheduleDataset(schedule))
}

// RenderPDF exports the schedule as a PDF document.
func (s *ExportService) RenderPDF(schedule *models.Schedule, title string) ([]byte, error) {
	return s.pdf.Render(s.ScheduleDataset(schedule), title)
}
