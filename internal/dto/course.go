package dto

// ── courses ──

// CreateCourseRequest new course
type CreateCourseRequest struct {
	Name     string   `json:"name"     binding:"required,notblank,max=255"`
	Subjects []string `json:"subjects" binding:"omitempty,dive,notblank"`
}

// UpdateCourseRequest rename a course
type UpdateCourseRequest struct {
	Name string `json:"name" binding:"required,notblank,max=255"`
}

// SubjectRequest add or remove a subject
type SubjectRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

// RenameSubjectRequest rename a subject within a course
type RenameSubjectRequest struct {
	OldName string `json:"old_name" binding:"required,notblank"`
	NewName string `json:"new_name" binding:"required,notblank"`
}
