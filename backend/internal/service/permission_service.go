package service

import (
	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/internal/dto"
)

// 系统角色
const (
	RoleAdmin      = "admin"
	RoleLeadership = "leadership"
	RoleMiddle     = "middle"
	RoleEmployee   = "employee"
)

var roleLabels = map[string]string{
	RoleAdmin:      "管理员",
	RoleLeadership: "领导班子",
	RoleMiddle:     "中层干部",
	RoleEmployee:   "普通员工",
}

// RoleLabel 角色中文名，未知角色原样返回
func RoleLabel(role string) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return role
}

// IsValidRole 是否为四种系统角色之一
func IsValidRole(role string) bool {
	_, ok := roleLabels[role]
	return ok
}

// PermissionTable 模块 → 操作 → 允许的角色
type PermissionTable map[string]map[string][]string

var (
	allRoles        = []string{RoleAdmin, RoleLeadership, RoleMiddle, RoleEmployee}
	managers        = []string{RoleAdmin, RoleLeadership, RoleMiddle}
	adminLeadership = []string{RoleAdmin, RoleLeadership}
	adminOnly       = []string{RoleAdmin}
)

// DefaultPermissionTable 仪表盘内置权限表
func DefaultPermissionTable() PermissionTable {
	return PermissionTable{
		"dashboard": {
			"full_stats":    adminLeadership,
			"basic_stats":   allRoles,
			"system_status": adminOnly,
			"user_activity": managers,
		},
		"documents": {
			"view_all":        adminLeadership,
			"view_department": managers,
			"view_personal":   allRoles,
			"upload":          allRoles,
			"delete":          adminLeadership,
			"ai_analysis":     allRoles,
		},
		"intelligence": {
			"view_all":          allRoles,
			"view_confidential": adminLeadership,
			"view_competitor":   managers,
			"push_config":       adminLeadership,
			"source_manage":     adminOnly,
		},
		"ai_tools": {
			"view_models":       allRoles,
			"prompt_optimizer":  allRoles,
			"view_stats":        managers,
			"detailed_analysis": adminLeadership,
		},
		"settings": {
			"user_manage":         adminOnly,
			"role_manage":         adminOnly,
			"system_config":       adminOnly,
			"department_settings": adminLeadership,
		},
	}
}

// 侧边栏菜单，settings 仅对拥有 settings.user_manage 的角色可见
var baseMenus = []dto.MenuItem{
	{ID: "dashboard", Label: "智能仪表盘"},
	{ID: "documents", Label: "文档处理中心"},
	{ID: "intelligence", Label: "情报日报"},
	{ID: "ai-tools", Label: "AI助手推荐"},
}

var settingsMenu = dto.MenuItem{ID: "settings", Label: "系统设置"}

// PermissionService 角色权限业务接口
type PermissionService interface {
	// HasPermission role 是否在 allowed 中
	HasPermission(role string, allowed []string) bool
	// Check 查表判定；未知模块或操作一律拒绝
	Check(role, module, action string) bool
	VisibleMenus(role string) []dto.MenuItem
	Permissions(role string) *dto.PermissionsResponse
}

type permissionService struct {
	table  PermissionTable
	logger *zap.Logger
}

// NewPermissionService 创建 PermissionService，overrides 中的条目覆盖内置表
func NewPermissionService(overrides map[string]map[string][]string, logger *zap.Logger) PermissionService {
	table := DefaultPermissionTable()
	for module, actions := range overrides {
		if table[module] == nil {
			table[module] = make(map[string][]string)
		}
		for action, roles := range actions {
			valid := make([]string, 0, len(roles))
			for _, r := range roles {
				if !IsValidRole(r) {
					logger.Warn("权限配置包含未知角色，已忽略",
						zap.String("module", module),
						zap.String("action", action),
						zap.String("role", r),
					)
					continue
				}
				valid = append(valid, r)
			}
			table[module][action] = valid
		}
	}
	return &permissionService{table: table, logger: logger}
}

func (s *permissionService) HasPermission(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func (s *permissionService) Check(role, module, action string) bool {
	actions, ok := s.table[module]
	if !ok {
		return false
	}
	return s.HasPermission(role, actions[action])
}

func (s *permissionService) VisibleMenus(role string) []dto.MenuItem {
	menus := make([]dto.MenuItem, 0, len(baseMenus)+1)
	menus = append(menus, baseMenus...)
	if s.Check(role, "settings", "user_manage") {
		menus = append(menus, settingsMenu)
	}
	return menus
}

func (s *permissionService) Permissions(role string) *dto.PermissionsResponse {
	modules := make(map[string]map[string]bool, len(s.table))
	for module, actions := range s.table {
		granted := make(map[string]bool, len(actions))
		for action, roles := range actions {
			granted[action] = s.HasPermission(role, roles)
		}
		modules[module] = granted
	}
	return &dto.PermissionsResponse{
		Role:      role,
		RoleLabel: RoleLabel(role),
		Modules:   modules,
		Menus:     s.VisibleMenus(role),
	}
}
