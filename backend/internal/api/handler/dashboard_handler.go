package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/service"
	"github.com/johamwon/mealOrd/backend/pkg/response"
)

// DashboardHandler 仪表盘权限 HTTP 处理器
type DashboardHandler struct {
	permSvc service.PermissionService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(permSvc service.PermissionService) *DashboardHandler {
	return &DashboardHandler{permSvc: permSvc}
}

// GetPermissions 当前角色的权限表与可见菜单
// GET /api/v1/dashboard/permissions
func (h *DashboardHandler) GetPermissions(c *gin.Context) {
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	response.OK(c, h.permSvc.Permissions(role))
}

// CheckPermission 判定当前角色能否执行 module.action
// GET /api/v1/dashboard/modules/:module/:action
func (h *DashboardHandler) CheckPermission(c *gin.Context) {
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	module, action := c.Param("module"), c.Param("action")
	response.OK(c, dto.PermissionCheckResponse{
		Module:  module,
		Action:  action,
		Allowed: h.permSvc.Check(role, module, action),
	})
}
