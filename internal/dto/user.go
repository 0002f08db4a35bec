package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	PPS   string `json:"pps,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// UpdateUserRequest 更新用户信息请求（管理员或本人）
type UpdateUserRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=2,max=100"`
	Phone *string `json:"phone" binding:"omitempty,max=30"`
	PPS   *string `json:"pps"   binding:"omitempty,max=20"`
	// Role 仅管理员可改
	Role *string `json:"role" binding:"omitempty,oneof=ADMIN EMPLOYEE"`
}
