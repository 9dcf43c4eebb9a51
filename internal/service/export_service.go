package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrExportGenerateFail the workbook could not be written
var ErrExportGenerateFail = errors.New("Failed to generate export file")

const attendanceSheet = "Attendance"

// ExportService spreadsheet downloads
//
// The export reuses AttendanceService.List, so the role scoping of the
// listing applies unchanged. The buffer is returned to the handler, which
// sets the download headers.
type ExportService interface {
	ExportAttendance(ctx context.Context, requester Requester, studentID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	attendance AttendanceService
	logger     *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(attendance AttendanceService, logger *zap.Logger) ExportService {
	return &exportService{attendance: attendance, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAttendance
// ═══════════════════════════════════════════════════════════
//
// One sheet, one row per record in listing order:
//   Date | Student | Subject | Status | Teacher

func (s *exportService) ExportAttendance(ctx context.Context, requester Requester, studentID string) (*bytes.Buffer, string, error) {
	records, err := s.attendance.List(ctx, requester, studentID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(attendanceSheet)
	if err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(attendanceSheet, "A", "A", 12)
	f.SetColWidth(attendanceSheet, "B", "B", 18)
	f.SetColWidth(attendanceSheet, "C", "C", 20)
	f.SetColWidth(attendanceSheet, "D", "D", 10)
	f.SetColWidth(attendanceSheet, "E", "E", 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"Date", "Student", "Subject", "Status", "Teacher"}
	for i, h := range headers {
		f.SetCellValue(attendanceSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(attendanceSheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	for i, r := range records {
		row := i + 2
		f.SetCellValue(attendanceSheet, cell("A", row), r.Date)
		f.SetCellValue(attendanceSheet, cell("B", row), r.StudentID)
		f.SetCellValue(attendanceSheet, cell("C", row), r.Subject)
		f.SetCellValue(attendanceSheet, cell("D", row), r.Status)
		f.SetCellValue(attendanceSheet, cell("E", row), r.TeacherName)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := "attendance.xlsx"
	if studentID != "" && safeFilenamePart(studentID) {
		filename = fmt.Sprintf("attendance_%s.xlsx", studentID)
	}
	return buf, filename, nil
}

// ── helpers ──

// colName zero-based column index to letters
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

// safeFilenamePart ids go into Content-Disposition unquoted-safe only
func safeFilenamePart(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_')
	}) < 0
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
