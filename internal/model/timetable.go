package model

import "time"

// Weekdays lecture days in week order
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// TimetableEntry a weekly recurring lecture slot owned by one teacher
type TimetableEntry struct {
	ID           string     `gorm:"type:varchar(64);primaryKey" json:"id"                     bson:"id"`
	Subject      string     `gorm:"type:varchar(255);not null"  json:"subject"                bson:"subject"`
	Day          string     `gorm:"type:varchar(16);not null"   json:"day"                    bson:"day"`
	StartTime    string     `gorm:"type:varchar(5);not null"    json:"startTime"              bson:"startTime"`
	EndTime      string     `gorm:"type:varchar(5);not null"    json:"endTime"                bson:"endTime"`
	TeacherID    string     `gorm:"type:varchar(64);not null"   json:"teacherId"              bson:"teacherId"`
	IsCancelled  bool       `gorm:"not null;default:false"      json:"isCancelled"            bson:"isCancelled"`
	CancelledAt  *time.Time `gorm:"type:timestamptz"            json:"cancelledAt,omitempty"  bson:"cancelledAt,omitempty"`
	CancelReason *string    `gorm:"type:text"                   json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
	Seq          int64      `gorm:"->;column:seq" json:"-" bson:"-"`
}

// TableName table name
func (TimetableEntry) TableName() string { return "timetable_entries" }
