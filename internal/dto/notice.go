package dto

// ── notices ──

// NoticeRequest create or edit a notice
type NoticeRequest struct {
	Title   string `json:"title"   binding:"required,notblank,max=255"`
	Message string `json:"message" binding:"required,notblank"`
}
