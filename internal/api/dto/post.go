package dto

// CreatePostReq 发帖请求
type CreatePostReq struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"max=10000"`
}

// PostDTO 帖子返回对象
type PostDTO struct {
	ID        uint64 `json:"id"`
	GroupID   uint64 `json:"group_id"`
	UserID    uint64 `json:"user_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}
