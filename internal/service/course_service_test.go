package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"school-attendance/internal/dto"
	"school-attendance/internal/event"
	"school-attendance/internal/model"
)

func setupCourseService() (CourseService, *testStore) {
	store := newTestStore()
	store.courses.items = []model.Course{
		{ID: "c1", Name: "BSc", Subjects: model.StringList{"Physics", "Maths"}},
		{ID: "c2", Name: "BCom", Subjects: model.StringList{}},
	}
	return NewCourseService(store.repo, store.events, zap.NewNop()), store
}

func TestCourseService_Create(t *testing.T) {
	ctx := context.Background()
	svc, store := setupCourseService()

	got, err := svc.Create(ctx, "a1", &dto.CreateCourseRequest{Name: " BA ", Subjects: []string{"History", " History", "", "Art"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Name != "BA" || !reflect.DeepEqual(got.Subjects, []string{"History", "Art"}) {
		t.Errorf("unexpected course: %+v", got)
	}
	if len(store.courses.snapshot()) != 3 {
		t.Error("course not stored")
	}
	if types := store.events.types(); len(types) != 1 || types[0] != event.CoursesUpdated {
		t.Errorf("expected courses event, got %v", types)
	}

	if _, err := svc.Create(ctx, "a1", &dto.CreateCourseRequest{Name: "bsc"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("duplicate name should be rejected, got %v", err)
	}
}

func TestCourseService_RenameAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, store := setupCourseService()

	if _, err := svc.Rename(ctx, "a1", "c2", &dto.UpdateCourseRequest{Name: "BSc"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("rename onto existing name: %v", err)
	}
	got, err := svc.Rename(ctx, "a1", "c2", &dto.UpdateCourseRequest{Name: "B.Com"})
	if err != nil || got.Name != "B.Com" {
		t.Fatalf("Rename: %+v, %v", got, err)
	}
	if _, err := svc.Rename(ctx, "a1", "zz", &dto.UpdateCourseRequest{Name: "X"}); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}

	if err := svc.Delete(ctx, "a1", "c2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if courses := store.courses.snapshot(); len(courses) != 1 || courses[0].ID != "c1" {
		t.Errorf("unexpected courses: %+v", courses)
	}
	if err := svc.Delete(ctx, "a1", "c2"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseService_Subjects(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupCourseService()

	got, err := svc.AddSubject(ctx, "a1", "c1", " Chemistry ")
	if err != nil {
		t.Fatalf("AddSubject: %v", err)
	}
	if !reflect.DeepEqual(got.Subjects, []string{"Physics", "Maths", "Chemistry"}) {
		t.Errorf("subjects = %v", got.Subjects)
	}
	if _, err := svc.AddSubject(ctx, "a1", "c1", "Maths"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("duplicate subject: %v", err)
	}

	got, err = svc.RenameSubject(ctx, "a1", "c1", &dto.RenameSubjectRequest{OldName: "Maths", NewName: "Mathematics"})
	if err != nil {
		t.Fatalf("RenameSubject: %v", err)
	}
	if !reflect.DeepEqual(got.Subjects, []string{"Physics", "Mathematics", "Chemistry"}) {
		t.Errorf("subjects = %v", got.Subjects)
	}
	if _, err := svc.RenameSubject(ctx, "a1", "c1", &dto.RenameSubjectRequest{OldName: "Physics", NewName: "Chemistry"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("rename onto existing subject: %v", err)
	}
	if _, err := svc.RenameSubject(ctx, "a1", "c1", &dto.RenameSubjectRequest{OldName: "Biology", NewName: "Bio"}); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("expected ErrSubjectNotFound, got %v", err)
	}

	got, err = svc.RemoveSubject(ctx, "a1", "c1", "Physics")
	if err != nil {
		t.Fatalf("RemoveSubject: %v", err)
	}
	if !reflect.DeepEqual(got.Subjects, []string{"Mathematics", "Chemistry"}) {
		t.Errorf("subjects = %v", got.Subjects)
	}
	if _, err := svc.RemoveSubject(ctx, "a1", "zz", "Physics"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}
