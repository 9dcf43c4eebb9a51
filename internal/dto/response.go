package dto

import "time"

// ── users ──

// UserResponse user without credentials
type UserResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	IsApproved    bool      `json:"is_approved"`
	Subject       string    `json:"subject,omitempty"`
	Qualification string    `json:"qualification,omitempty"`
	Experience    string    `json:"experience,omitempty"`
	Department    string    `json:"department,omitempty"`
	CourseID      string    `json:"course_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ── courses ──

// CourseResponse course with subjects
type CourseResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Subjects []string `json:"subjects"`
}

// ── notices ──

// NoticeResponse notice
type NoticeResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ── stats ──

// StatsResponse admin dashboard counts
type StatsResponse struct {
	Students         int `json:"students"`
	TeachersApproved int `json:"teachers_approved"`
	TeachersPending  int `json:"teachers_pending"`
	Courses          int `json:"courses"`
	LecturesActive   int `json:"lectures_active"`
	LecturesCanceled int `json:"lectures_cancelled"`
	AttendanceTotal  int `json:"attendance_total"`
	PresentToday     int `json:"present_today"`
	AbsentToday      int `json:"absent_today"`
}
