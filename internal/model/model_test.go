package model

import "testing"

func TestAttendanceRecordKey(t *testing.T) {
	tests := []struct {
		name string
		rec  AttendanceRecord
		want string
	}{
		{
			"full",
			AttendanceRecord{Date: "2024-03-01", StudentID: "s1", Subject: "Math", TeacherID: "t1"},
			"2024-03-01__s1__Math__t1",
		},
		{
			"trimmed parts",
			AttendanceRecord{Date: " 2024-03-01 ", StudentID: " s1", Subject: " Math ", TeacherID: "t1 "},
			"2024-03-01__s1__Math__t1",
		},
		{
			"blank subject and teacher",
			AttendanceRecord{Date: "2024-03-01", StudentID: "s1", Subject: "   "},
			"2024-03-01__s1__" + NoSubject + "__" + NoTeacher,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStringList_ScanValue(t *testing.T) {
	var l StringList
	if err := l.Scan([]byte(`["Math","Physics"]`)); err != nil {
		t.Fatalf("Scan should succeed: %v", err)
	}
	if len(l) != 2 || l[1] != "Physics" {
		t.Errorf("unexpected scan result %v", l)
	}

	v, err := StringList(nil).Value()
	if err != nil {
		t.Fatalf("Value should succeed: %v", err)
	}
	if v != "[]" {
		t.Errorf("nil list should encode as [], got %v", v)
	}

	if err := l.Scan(42); err == nil {
		t.Error("Scan of int should fail")
	}
}

func TestUserDisplayName(t *testing.T) {
	if got := (&User{ID: "u1", Username: "a@b.c", Name: "Alice"}).DisplayName(); got != "Alice" {
		t.Errorf("expected name, got %s", got)
	}
	if got := (&User{ID: "u1", Username: "a@b.c"}).DisplayName(); got != "a@b.c" {
		t.Errorf("expected username, got %s", got)
	}
	if got := (&User{ID: "u1"}).DisplayName(); got != "u1" {
		t.Errorf("expected id, got %s", got)
	}
}
