package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"school-attendance/internal/model"
)

func TestExportService_ExportAttendance(t *testing.T) {
	store := newTestStore()
	store.users.items = []model.User{teacherUser("t1", "Ms. Rao", "Physics")}
	store.attendance.items = []model.AttendanceRecord{
		rec("2024-05-01", "s1", model.StatusPresent, "Physics", "t1"),
		rec("2024-05-02", "s2", model.StatusAbsent, "", "t1"),
	}
	svc := NewExportService(NewAttendanceService(store.repo, nil, zap.NewNop()), zap.NewNop())

	buf, filename, err := svc.ExportAttendance(context.Background(), Requester{ID: "a1", Role: model.RoleAdmin}, "")
	if err != nil {
		t.Fatalf("ExportAttendance: %v", err)
	}
	if filename != "attendance.xlsx" {
		t.Errorf("filename = %q", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(attendanceSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][4] != "Teacher" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	// newest first, enriched subject
	if rows[1][0] != "2024-05-02" || rows[1][2] != "Physics" || rows[1][3] != "ABSENT" || rows[1][4] != "Ms. Rao" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
}

func TestExportService_StudentFilename(t *testing.T) {
	store := newTestStore()
	svc := NewExportService(NewAttendanceService(store.repo, nil, zap.NewNop()), zap.NewNop())

	_, filename, err := svc.ExportAttendance(context.Background(), Requester{ID: "s1", Role: model.RoleStudent}, "s1")
	if err != nil {
		t.Fatalf("ExportAttendance: %v", err)
	}
	if filename != "attendance_s1.xlsx" {
		t.Errorf("filename = %q", filename)
	}
}

func TestExportService_PropagatesListError(t *testing.T) {
	store := newTestStore()
	boom := errors.New("down")
	store.attendance.readErr = boom
	svc := NewExportService(NewAttendanceService(store.repo, nil, zap.NewNop()), zap.NewNop())

	if _, _, err := svc.ExportAttendance(context.Background(), Requester{ID: "a1", Role: model.RoleAdmin}, ""); !errors.Is(err, boom) {
		t.Errorf("expected list error, got %v", err)
	}
}
