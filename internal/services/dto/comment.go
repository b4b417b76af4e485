package dto

type CreateCommentRequest struct {
	UserID *ID    `json:"user_id" validate:"required"`
	Text   string `json:"text" validate:"required,notblank"`
}
