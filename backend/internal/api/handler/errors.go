package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johamwon/mealOrd/backend/internal/service"
	"github.com/johamwon/mealOrd/backend/pkg/response"
)

// handleLedgerError 统一处理报餐模块业务错误
func handleLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActingUser):
		response.BadRequest(c, 20001, "请先选择用户")
	case errors.Is(err, service.ErrCutoffPassed):
		response.Conflict(c, 20002, "已过截止时间，无法修改")
	case errors.Is(err, service.ErrMealTypeNotFound):
		response.NotFound(c, 20003, "餐别不存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20004, "用户不存在")
	case errors.Is(err, service.ErrNameEmpty):
		response.BadRequest(c, 20005, "名称不能为空")
	case errors.Is(err, service.ErrInvalidCutoffTime):
		response.BadRequest(c, 20006, "截止时间格式错误，应为 HH:mm")
	case errors.Is(err, service.ErrInvalidDaysOfWeek):
		response.BadRequest(c, 20007, "星期取值必须在 1-7 之间")
	case errors.Is(err, service.ErrInvalidUserStatus):
		response.BadRequest(c, 10001, "用户状态只能是 active 或 inactive")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 20008, "日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrAdminAuthFailed):
		response.Error(c, http.StatusUnauthorized, 20009, "密码错误")
	case errors.Is(err, service.ErrExportRangeInvalid):
		response.BadRequest(c, 20010, "导出日期区间无效")
	case errors.Is(err, service.ErrUserInactive):
		response.Forbidden(c, 20011, "用户已停用")
	default:
		response.InternalError(c)
	}
}
