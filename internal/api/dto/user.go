package dto

// RegisterReq 注册请求
type RegisterReq struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Nickname string `json:"nickname" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

// LoginReq 登录请求
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginDTO 登录返回
type LoginDTO struct {
	UserID uint64 `json:"user_id"`
	Token  string `json:"token"`
}

// UserDTO 用户信息返回对象
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
}
