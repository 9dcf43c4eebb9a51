package model

import "time"

// Notice an announcement posted by an admin
type Notice struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"        bson:"id"`
	Title     string    `gorm:"type:varchar(255);not null"  json:"title"     bson:"title"`
	Message   string    `gorm:"type:text;not null"          json:"message"   bson:"message"`
	AuthorID  string    `gorm:"type:varchar(64);not null"   json:"authorId"  bson:"authorId"`
	CreatedAt time.Time `gorm:"not null"                    json:"createdAt" bson:"createdAt"`
	Seq       int64     `gorm:"->;column:seq" json:"-" bson:"-"`
}

// TableName table name
func (Notice) TableName() string { return "notices" }
