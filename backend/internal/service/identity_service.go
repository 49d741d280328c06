package service

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/internal/dto"
)

// DingTalkUser 钉钉身份源返回的用户信息
type DingTalkUser struct {
	UserID     string
	Name       string
	Company    string
	Department string
	Position   string // 职务
	JobLevel   string // 职级
}

// roleRule 职务/职级关键字 → 角色
// 中文关键字按包含匹配；英文关键字按整词匹配（忽略大小写），避免 Contractor 命中 CTO
type roleRule struct {
	role    string
	cjk     []string
	latinRe *regexp.Regexp
}

// 按顺序匹配，先命中者生效
var roleRules = []roleRule{
	{RoleLeadership, []string{"总裁", "董事长", "总经理", "副总", "总监"}, regexp.MustCompile(`(?i)\b(CEO|CTO|CFO|COO|VP|Director)\b`)},
	{RoleMiddle, []string{"经理", "主管", "组长"}, regexp.MustCompile(`(?i)\b(Manager|Supervisor|Team\s+Lead)\b`)},
	{RoleAdmin, []string{"系统管理员", "IT管理员"}, regexp.MustCompile(`(?i)\bAdmin\b`)},
}

// ResolveRole 将 "职务 职级" 映射为系统角色，均未命中为 employee
func ResolveRole(position, jobLevel string) string {
	combined := strings.TrimSpace(position + " " + jobLevel)
	if combined == "" {
		return RoleEmployee
	}
	upper := strings.ToUpper(combined)
	for _, rule := range roleRules {
		for _, kw := range rule.cjk {
			if strings.Contains(upper, strings.ToUpper(kw)) {
				return rule.role
			}
		}
		if rule.latinRe.MatchString(combined) {
			return rule.role
		}
	}
	return RoleEmployee
}

const mockCompany = "某科技集团有限公司"

// 开发环境模拟的钉钉用户，每种角色一个
var mockDingTalkUsers = map[string]DingTalkUser{
	RoleLeadership: {UserID: "dd_001", Name: "李明", Company: mockCompany, Department: "总经理办公室", Position: "总经理", JobLevel: "M5"},
	RoleMiddle:     {UserID: "dd_002", Name: "王芳", Company: mockCompany, Department: "市场部", Position: "市场经理", JobLevel: "M3"},
	RoleEmployee:   {UserID: "dd_003", Name: "张伟", Company: mockCompany, Department: "研发部", Position: "高级工程师", JobLevel: "P6"},
	RoleAdmin:      {UserID: "dd_004", Name: "陈静", Company: mockCompany, Department: "信息技术部", Position: "系统管理员", JobLevel: "P5"},
}

// IdentityService 钉钉身份接入接口
type IdentityService interface {
	// MockUser 按角色取模拟用户，未知或空角色返回普通员工
	MockUser(role string) DingTalkUser
	// Convert 钉钉用户 → 系统身份（角色由职务/职级推导）
	Convert(u DingTalkUser) dto.IdentityResponse
}

type identityService struct {
	logger *zap.Logger
}

// NewIdentityService 创建 IdentityService 实例
func NewIdentityService(logger *zap.Logger) IdentityService {
	return &identityService{logger: logger}
}

func (s *identityService) MockUser(role string) DingTalkUser {
	if u, ok := mockDingTalkUsers[role]; ok {
		return u
	}
	return mockDingTalkUsers[RoleEmployee]
}

func (s *identityService) Convert(u DingTalkUser) dto.IdentityResponse {
	role := ResolveRole(u.Position, u.JobLevel)
	s.logger.Debug("钉钉身份角色解析",
		zap.String("user_id", u.UserID),
		zap.String("position", u.Position),
		zap.String("job_level", u.JobLevel),
		zap.String("role", role),
	)
	return dto.IdentityResponse{
		UserID:     u.UserID,
		Name:       u.Name,
		Role:       role,
		RoleLabel:  RoleLabel(role),
		Department: u.Department,
		Company:    u.Company,
		Position:   u.Position,
		JobLevel:   u.JobLevel,
	}
}
