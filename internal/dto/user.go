package dto

// ── settings ──

// UpdateSettingsRequest change password and/or username of the caller
type UpdateSettingsRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"omitempty,min=6,max=72"`
	NewUsername     string `json:"new_username" binding:"omitempty,notblank,max=255"`
}

// ── teacher administration ──

// TeacherListRequest roster filter
type TeacherListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved"`
}

// UpdateTeacherRequest admin edit; nil fields keep their value
type UpdateTeacherRequest struct {
	Name          *string `json:"name"          binding:"omitempty,notblank"`
	Email         *string `json:"email"         binding:"omitempty,email"`
	Subject       *string `json:"subject"`
	Experience    *string `json:"experience"`
	Qualification *string `json:"qualification"`
	Phone         *string `json:"phone"         binding:"omitempty,phone10"`
}

// ── students ──

// CreateStudentRequest add a student to a course
type CreateStudentRequest struct {
	Name       string `json:"name"       binding:"required,notblank"`
	Email      string `json:"email"      binding:"omitempty,email"`
	Department string `json:"department" binding:"required,notblank"`
}

// UpdateStudentRequest nil fields keep their value
type UpdateStudentRequest struct {
	Name       *string `json:"name"       binding:"omitempty,notblank"`
	Email      *string `json:"email"      binding:"omitempty,email"`
	Department *string `json:"department" binding:"omitempty,notblank"`
}

// CreateStudentResponse the temporary password is shown only once
type CreateStudentResponse struct {
	Student      UserResponse `json:"student"`
	TempPassword string       `json:"temp_password"`
}

// StudentListRequest optional course filter
type StudentListRequest struct {
	Department string `form:"department"`
}
