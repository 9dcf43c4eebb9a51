package model

// Course a programme with its subject list
type Course struct {
	ID       string     `gorm:"type:varchar(64);primaryKey" json:"id"       bson:"id"`
	Name     string     `gorm:"type:varchar(255);not null"  json:"name"     bson:"name"`
	Subjects StringList `gorm:"type:jsonb;not null"         json:"subjects" bson:"subjects"`
	Seq      int64      `gorm:"->;column:seq" json:"-" bson:"-"`
}

// TableName table name
func (Course) TableName() string { return "courses" }

// HasSubject reports whether the course already lists name
func (c *Course) HasSubject(name string) bool {
	for _, s := range c.Subjects {
		if s == name {
			return true
		}
	}
	return false
}
