package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-attendance/internal/model"
)

// Collection a whole-snapshot store: callers read everything, modify in
// memory and write the full set back under a Locker.
type Collection[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	Save(ctx context.Context, items []T) error
}

// Collection names; also the fallback file names under the data dir
const (
	CollectionUsers      = "users"
	CollectionCourses    = "courses"
	CollectionTimetable  = "timetable"
	CollectionAttendance = "attendance"
	CollectionNotices    = "notices"
)

// Repository aggregate of every collection plus the lock they share
type Repository struct {
	Users      Collection[model.User]
	Courses    Collection[model.Course]
	Timetable  Collection[model.TimetableEntry]
	Attendance Collection[model.AttendanceRecord]
	Notices    Collection[model.Notice]
	Locker     Locker
}

// Options selects the primary backend. Mongo wins over DB; with neither
// the JSON files are the only store.
type Options struct {
	Mongo   *mongo.Database
	DB      *gorm.DB
	DataDir string
	Locker  Locker
	Logger  *zap.Logger
}

// NewRepository builds every collection on the selected backend
func NewRepository(opts Options) *Repository {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Locker == nil {
		opts.Locker = NewLocalLocker(0)
	}

	return &Repository{
		Users:      build[model.User](opts, CollectionUsers),
		Courses:    build[model.Course](opts, CollectionCourses),
		Timetable:  build[model.TimetableEntry](opts, CollectionTimetable),
		Attendance: build[model.AttendanceRecord](opts, CollectionAttendance),
		Notices:    build[model.Notice](opts, CollectionNotices),
		Locker:     opts.Locker,
	}
}

func build[T any](opts Options, name string) Collection[T] {
	file := NewFileCollection[T](opts.DataDir, name)

	var primary Collection[T]
	switch {
	case opts.Mongo != nil:
		primary = NewMongoCollection[T](opts.Mongo.Collection(name))
	case opts.DB != nil:
		primary = NewGormCollection[T](opts.DB)
	default:
		return file
	}

	return NewFallbackCollection[T](name, primary, file, opts.Logger)
}
