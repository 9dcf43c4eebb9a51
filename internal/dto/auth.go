package dto

// ── registration ──

// RegisterTeacherRequest public teacher sign-up; the account waits for approval
type RegisterTeacherRequest struct {
	Name          string `json:"name"          binding:"required,notblank"`
	Email         string `json:"email"         binding:"required,email"`
	Phone         string `json:"phone"         binding:"required,phone10"`
	Qualification string `json:"qualification" binding:"required,notblank"`
	Experience    string `json:"experience"    binding:"required,notblank"`
	Subject       string `json:"subject"       binding:"required,notblank"`
	CourseID      string `json:"course_id"     binding:"required"`
	Password      string `json:"password"      binding:"required,min=6,max=72"`
}

// RegisterResponse registration result
type RegisterResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
