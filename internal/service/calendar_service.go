package service

import (
	"context"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"school-attendance/internal/dto"
	"school-attendance/internal/model"
)

const calendarProductID = "-//school-attendance//timetable//EN"

// CalendarService iCalendar export of the weekly timetable
type CalendarService interface {
	// Timetable the entries the requester can list, as weekly VEVENTs
	// anchored on the current week
	Timetable(ctx context.Context, requester Requester) (string, error)
}

type calendarService struct {
	timetable TimetableService
	loc       *time.Location
	logger    *zap.Logger
}

// NewCalendarService creates a CalendarService. An unknown tz falls back
// to the local zone.
func NewCalendarService(timetable TimetableService, tz string, logger *zap.Logger) CalendarService {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.Warn("unknown calendar timezone, using Local", zap.String("tz", tz), zap.Error(err))
		loc = time.Local
	}
	return &calendarService{timetable: timetable, loc: loc, logger: logger}
}

func (s *calendarService) Timetable(ctx context.Context, requester Requester) (string, error) {
	entries, err := s.timetable.List(ctx, requester, scopeAll)
	if err != nil {
		return "", err
	}
	if requester.Role == model.RoleTeacher {
		own := entries[:0]
		for _, e := range entries {
			if e.TeacherID == requester.ID {
				own = append(own, e)
			}
		}
		entries = own
	}

	now := timeNow()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("Timetable")
	cal.SetXWRTimezone(s.loc.String())

	monday := weekStart(now.In(s.loc))
	for _, e := range entries {
		start, end, ok := s.occurrence(monday, e)
		if !ok {
			s.logger.Debug("skip unschedulable entry", zap.String("id", e.ID))
			continue
		}

		evt := cal.AddEvent(e.ID + "@school-attendance")
		evt.SetDtStampTime(now)
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetSummary(e.Subject)
		evt.AddRrule("FREQ=WEEKLY")
		if e.TeacherName != "" {
			evt.SetDescription("Teacher: " + e.TeacherName)
		}
		if e.IsCancelled {
			evt.SetStatus(ics.ObjectStatusCancelled)
		} else {
			evt.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	return cal.Serialize(), nil
}

// occurrence the entry's slot in the week starting at monday
func (s *calendarService) occurrence(monday time.Time, e dto.TimetableEntryResponse) (time.Time, time.Time, bool) {
	offset := -1
	for i, d := range model.Weekdays {
		if d == e.Day {
			offset = i
			break
		}
	}
	startMin, ok1 := ParseClock(e.StartTime)
	endMin, ok2 := ParseClock(e.EndTime)
	if offset < 0 || !ok1 || !ok2 || startMin >= endMin {
		return time.Time{}, time.Time{}, false
	}

	day := monday.AddDate(0, 0, offset)
	start := day.Add(time.Duration(startMin) * time.Minute)
	end := day.Add(time.Duration(endMin) * time.Minute)
	return start, end, true
}

// weekStart midnight of the Monday on or before t, in t's zone
func weekStart(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -back)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}
