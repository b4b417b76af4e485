package dto

type NotificationFilter struct {
	UserID *uint `form:"user_id"`
	Unread bool  `form:"unread"`
}

type MarkReadRequest struct {
	ID     *ID   `json:"id"`
	IsRead *Flag `json:"is_read"`
}

// Value defaults to true when is_read was not sent.
func (r *MarkReadRequest) Value() bool {
	if r.IsRead == nil {
		return true
	}
	return bool(*r.IsRead)
}

type MarkAllReadRequest struct {
	UserID *ID `json:"user_id"`
}

type MarkAllReadResponse struct {
	Success bool  `json:"success"`
	Updated int64 `json:"updated"`
}
