package model

import "time"

// User a login account; teachers and students carry their profile inline
type User struct {
	ID            string    `gorm:"type:varchar(64);primaryKey" json:"id"                      bson:"id"`
	Username      string    `gorm:"type:varchar(255);not null"  json:"username"                bson:"username"`
	PasswordHash  string    `gorm:"type:varchar(255)"           json:"passwordHash"            bson:"passwordHash"`
	Role          Role      `gorm:"type:varchar(16);not null"   json:"role"                    bson:"role"`
	Name          string    `gorm:"type:varchar(255)"           json:"name,omitempty"          bson:"name,omitempty"`
	Email         string    `gorm:"type:varchar(255)"           json:"email,omitempty"         bson:"email,omitempty"`
	Phone         string    `gorm:"type:varchar(32)"            json:"phone,omitempty"         bson:"phone,omitempty"`
	IsApproved    bool      `gorm:"not null;default:false"      json:"isApproved"              bson:"isApproved"`
	Subject       string    `gorm:"type:varchar(255)"           json:"subject,omitempty"       bson:"subject,omitempty"`
	Qualification string    `gorm:"type:varchar(255)"           json:"qualification,omitempty" bson:"qualification,omitempty"`
	Experience    string    `gorm:"type:varchar(255)"           json:"experience,omitempty"    bson:"experience,omitempty"`
	Department    string    `gorm:"type:varchar(255)"           json:"department,omitempty"    bson:"department,omitempty"`
	CourseID      string    `gorm:"type:varchar(64)"            json:"courseId,omitempty"      bson:"courseId,omitempty"`
	CreatedAt     time.Time `gorm:"not null"                    json:"createdAt"               bson:"createdAt"`
	Seq           int64     `gorm:"->;column:seq" json:"-" bson:"-"`
}

// TableName table name
func (User) TableName() string { return "users" }

// DisplayName best human-readable label: name, then username, then id
func (u *User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	default:
		return u.ID
	}
}
