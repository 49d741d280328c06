package dto

// ── 认证模块 DTO ──

// AdminLoginRequest 管理员口令登录请求
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// IdentifyRequest 员工选择身份请求（对应前端“选择用户”）
type IdentifyRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// MockDingTalkLoginRequest 模拟钉钉登录请求
type MockDingTalkLoginRequest struct {
	Role string `json:"role" binding:"omitempty,oneof=admin leadership middle employee"`
}

// DingTalkLoginRequest 钉钉免登请求：携带身份源返回的用户信息
type DingTalkLoginRequest struct {
	UserID     string `json:"user_id"    binding:"required"`
	Name       string `json:"name"       binding:"required"`
	Company    string `json:"company"`
	Department string `json:"department"`
	Position   string `json:"position"`
	JobLevel   string `json:"job_level"`
}

// SetCurrentUserRequest 设置当前报餐用户（user_id 为空表示清除）
type SetCurrentUserRequest struct {
	UserID string `json:"user_id"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresIn   int              `json:"expires_in"` // Access Token 有效期（秒）
	Identity    IdentityResponse `json:"identity"`
}

// IdentityResponse 当前身份
type IdentityResponse struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	RoleLabel  string `json:"role_label"`
	Department string `json:"department,omitempty"`
	Company    string `json:"company,omitempty"`
	Position   string `json:"position,omitempty"`
	JobLevel   string `json:"job_level,omitempty"`
}

// AdminStatusResponse 管理员登录状态
type AdminStatusResponse struct {
	IsAdmin bool `json:"is_admin"`
}
