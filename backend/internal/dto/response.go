package dto

// ── 通用响应 ──

// ListResponse 非分页列表响应
type ListResponse struct {
	List  interface{} `json:"list"`
	Total int         `json:"total"`
}

// ExportMeta 导出元数据（供前端显示导出内容说明）
type ExportMeta struct {
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Days      int      `json:"days"`
	MealTypes []string `json:"meal_types"`
	Filename  string   `json:"filename"`
}
