package handler

import "github.com/johamwon/mealOrd/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	MealUser  *MealUserHandler
	MealType  *MealTypeHandler
	Selection *SelectionHandler
	Report    *ReportHandler
	Export    *ExportHandler
	Dashboard *DashboardHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth, svc.Ledger),
		MealUser:  NewMealUserHandler(svc.Ledger),
		MealType:  NewMealTypeHandler(svc.Ledger),
		Selection: NewSelectionHandler(svc.Ledger, svc.Export),
		Report:    NewReportHandler(svc.Ledger),
		Export:    NewExportHandler(svc.Export),
		Dashboard: NewDashboardHandler(svc.Permission),
	}
}
