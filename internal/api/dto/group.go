package dto

// CreateGroupReq 创建小组请求
type CreateGroupReq struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// GroupDTO 小组返回对象
type GroupDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatorID   uint64 `json:"creator_id"`
	CreatedAt   string `json:"created_at"`
}
