package dto

// ── 仪表盘权限 DTO ──

// MenuItem 侧边栏菜单项
type MenuItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// PermissionsResponse 当前角色的权限视图
type PermissionsResponse struct {
	Role      string                     `json:"role"`
	RoleLabel string                     `json:"role_label"`
	Modules   map[string]map[string]bool `json:"modules"`
	Menus     []MenuItem                 `json:"menus"`
}

// PermissionCheckResponse 单项权限判定结果
type PermissionCheckResponse struct {
	Module  string `json:"module"`
	Action  string `json:"action"`
	Allowed bool   `json:"allowed"`
}
