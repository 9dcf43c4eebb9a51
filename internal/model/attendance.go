package model

import (
	"strings"

	"gorm.io/gorm"
)

// AttendanceStatus PRESENT or ABSENT
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
)

// Valid reports whether s is a recognised status
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// Key sentinels for blank subject / teacher
const (
	NoSubject = "__NO_SUBJECT__"
	NoTeacher = "__NO_TEACHER__"
)

// AttendanceRecord one student's status for one date, subject and teacher
type AttendanceRecord struct {
	RecordKey   string           `gorm:"type:varchar(512);primaryKey" json:"-"                     bson:"-"`
	Date        string           `gorm:"type:varchar(10);not null"    json:"date"                  bson:"date"`
	StudentID   string           `gorm:"type:varchar(64);not null"    json:"studentId"             bson:"studentId"`
	Status      AttendanceStatus `gorm:"type:varchar(8);not null"     json:"status"                bson:"status"`
	TeacherID   string           `gorm:"type:varchar(64)"             json:"teacherId,omitempty"   bson:"teacherId,omitempty"`
	Subject     string           `gorm:"type:varchar(255)"            json:"subject,omitempty"     bson:"subject,omitempty"`
	TeacherName string           `gorm:"type:varchar(255)"            json:"teacherName,omitempty" bson:"teacherName,omitempty"`
	Seq         int64            `gorm:"->;column:seq" json:"-" bson:"-"`
}

// TableName table name
func (AttendanceRecord) TableName() string { return "attendance_records" }

// Key identity of the record: date__student__subject__teacher, with
// sentinels for blank subject or teacher.
func (r *AttendanceRecord) Key() string {
	subject := strings.TrimSpace(r.Subject)
	if subject == "" {
		subject = NoSubject
	}
	teacher := strings.TrimSpace(r.TeacherID)
	if teacher == "" {
		teacher = NoTeacher
	}
	return strings.TrimSpace(r.Date) + "__" + strings.TrimSpace(r.StudentID) + "__" + subject + "__" + teacher
}

// BeforeCreate fills the primary key from the identity key
func (r *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	r.RecordKey = r.Key()
	return nil
}
