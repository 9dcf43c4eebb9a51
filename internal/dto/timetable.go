package dto

import "time"

// ── timetable ──

// CreateTimetableRequest schedule a weekly lecture. Time format and range
// are checked by the service so the caller sees the conflict rules' messages.
type CreateTimetableRequest struct {
	Subject   string `json:"subject"`
	Day       string `json:"day"        binding:"omitempty,weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// UpdateTimetableRequest nil fields keep their value
type UpdateTimetableRequest struct {
	Subject      *string `json:"subject"`
	Day          *string `json:"day"          binding:"omitempty,weekday"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	IsCancelled  *bool   `json:"is_cancelled"`
	CancelReason *string `json:"cancel_reason"`
}

// CancelTimetableRequest cancel or resume a lecture
type CancelTimetableRequest struct {
	IsCancelled *bool  `json:"is_cancelled" binding:"required"`
	Reason      string `json:"cancel_reason"`
}

// TimetableListRequest scope=all lists every teacher's lectures
type TimetableListRequest struct {
	Scope string `form:"scope" binding:"omitempty,oneof=all"`
}

// TimetableEntryResponse lecture; teacher_name only on scope=all
type TimetableEntryResponse struct {
	ID           string     `json:"id"`
	Subject      string     `json:"subject"`
	Day          string     `json:"day"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	TeacherID    string     `json:"teacher_id"`
	TeacherName  string     `json:"teacher_name,omitempty"`
	IsCancelled  bool       `json:"is_cancelled"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason *string    `json:"cancel_reason,omitempty"`
}
