package dto

// ── attendance ──

// AttendanceMark one student's mark inside a submission
type AttendanceMark struct {
	StudentID   string `json:"student_id"`
	Status      string `json:"status"`
	Subject     string `json:"subject"`
	TeacherName string `json:"teacher_name"`
}

// SubmitAttendanceRequest a teacher marks a date. Individual marks with
// a missing student or unknown status are dropped, not rejected.
type SubmitAttendanceRequest struct {
	Date    string           `json:"date"    binding:"required,isodate"`
	Records []AttendanceMark `json:"records" binding:"required"`
}

// SubmitAttendanceResponse how many marks were stored
type SubmitAttendanceResponse struct {
	Accepted int    `json:"accepted"`
	Message  string `json:"message"`
}

// AttendanceListRequest optional student filter
type AttendanceListRequest struct {
	StudentID string `form:"student_id"`
}

// AttendanceRecordResponse enriched record
type AttendanceRecordResponse struct {
	Date        string `json:"date"`
	StudentID   string `json:"student_id"`
	Status      string `json:"status"`
	TeacherID   string `json:"teacher_id,omitempty"`
	Subject     string `json:"subject"`
	TeacherName string `json:"teacher_name"`
}
