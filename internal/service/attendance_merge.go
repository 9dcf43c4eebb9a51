package service

import (
	"errors"
	"sort"
	"strings"

	"school-attendance/internal/model"
)

// ── attendance normalisation ──

// ErrNoValidRecords a submission had nothing left after normalisation
var ErrNoValidRecords = errors.New("No valid attendance records provided")

const defaultSubject = "General"

// NormalizeAttendance drops records with no date, no student or an unknown
// status, and keeps one record per identity key. A later record replaces
// an earlier one in place, so output follows first-seen key order.
func NormalizeAttendance(raw []model.AttendanceRecord) []model.AttendanceRecord {
	index := make(map[string]int, len(raw))
	out := make([]model.AttendanceRecord, 0, len(raw))

	for _, r := range raw {
		if r.Date == "" || r.StudentID == "" || !r.Status.Valid() {
			continue
		}
		rec := model.AttendanceRecord{
			Date:        r.Date,
			StudentID:   r.StudentID,
			Status:      r.Status,
			TeacherID:   r.TeacherID,
			Subject:     r.Subject,
			TeacherName: r.TeacherName,
		}
		key := rec.Key()
		if i, ok := index[key]; ok {
			out[i] = rec
			continue
		}
		index[key] = len(out)
		out = append(out, rec)
	}
	return out
}

// MergeAttendance folds a teacher's submission into the stored snapshot.
// Incoming records are attributed to teacherID; subject and teacher name
// fall back to the teacher profile (which may be nil). Returns the new
// snapshot and the number of records accepted from incoming.
func MergeAttendance(current, incoming []model.AttendanceRecord, teacherID string, teacher *model.User) ([]model.AttendanceRecord, int, error) {
	var profileSubject, profileName string
	if teacher != nil {
		profileSubject = teacher.Subject
		profileName = teacher.Name
	}

	tagged := make([]model.AttendanceRecord, 0, len(incoming))
	for _, r := range incoming {
		r.TeacherID = teacherID
		r.Subject = firstNonBlank(r.Subject, profileSubject, defaultSubject)
		r.TeacherName = firstNonBlank(r.TeacherName, profileName, teacherID)
		tagged = append(tagged, r)
	}

	accepted := NormalizeAttendance(tagged)
	if len(accepted) == 0 {
		return nil, 0, ErrNoValidRecords
	}

	replaced := make(map[string]struct{}, len(accepted))
	for i := range accepted {
		replaced[accepted[i].Key()] = struct{}{}
	}

	kept := make([]model.AttendanceRecord, 0, len(current))
	for i := range current {
		if _, ok := replaced[current[i].Key()]; ok {
			continue
		}
		kept = append(kept, current[i])
	}

	merged := NormalizeAttendance(append(NormalizeAttendance(kept), accepted...))
	return merged, len(accepted), nil
}

// EnrichAttendance fills blank teacher names and subjects from the teacher
// roster. Users that are not teachers are ignored.
func EnrichAttendance(records []model.AttendanceRecord, users []model.User) []model.AttendanceRecord {
	names := make(map[string]string)
	subjects := make(map[string]string)
	for i := range users {
		u := &users[i]
		if u.Role != model.RoleTeacher {
			continue
		}
		names[u.ID] = u.DisplayName()
		subjects[u.ID] = firstNonEmpty(u.Subject, defaultSubject)
	}

	out := make([]model.AttendanceRecord, len(records))
	for i, r := range records {
		r.TeacherName = firstNonEmpty(r.TeacherName, names[r.TeacherID], r.TeacherID)
		r.Subject = firstNonEmpty(r.Subject, subjects[r.TeacherID], defaultSubject)
		out[i] = r
	}
	return out
}

// SortAttendance newest date first. Unless studentScoped, equal dates are
// ordered by student id; a student's own history keeps stored order within a date.
func SortAttendance(records []model.AttendanceRecord, studentScoped bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if studentScoped {
			return false
		}
		return a.StudentID < b.StudentID
	})
}

// firstNonBlank first value that is non-empty after trimming, trimmed
func firstNonBlank(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
