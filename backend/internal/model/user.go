package model

// 用户在职状态
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User 报餐用户（员工），持久化于逻辑键 users
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Dept   string `json:"dept,omitempty"`
	Status string `json:"status"` // active | inactive
	Timestamps
}

// IsActive 在职用户才计入统计
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
