package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/johamwon/mealOrd/backend/config"
	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/model"
	"github.com/johamwon/mealOrd/backend/internal/repository"
)

// ── 测试辅助 ──

var errStoreDown = errors.New("store down")

// flakyStore 可按需让写入失败的内存 Store
type flakyStore struct {
	repository.Store
	failSet bool
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failSet {
		return errStoreDown
	}
	return s.Store.Set(ctx, key, value)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// monday 2026-03-02 为周一
func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func testMealConfig() *config.MealConfig {
	return &config.MealConfig{
		Timezone:      "UTC",
		AdminPassword: "admin123",
		ExportMaxDays: 31,
	}
}

func setupTestLedger(t *testing.T, now time.Time) (MealLedger, *fakeClock, *flakyStore) {
	t.Helper()
	clock := &fakeClock{now: now}
	store := &flakyStore{Store: repository.NewMemoryStore()}
	ledger := NewMealLedger(repository.NewRepository(store), testMealConfig(), zap.NewNop(), WithClock(clock.Now))
	if err := ledger.Load(context.Background()); err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	return ledger, clock, store
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func intsPtr(v ...int) *[]int { return &v }

// ── Load 测试 ──

func TestMealLedger_Load_Defaults(t *testing.T) {
	ledger, _, store := setupTestLedger(t, at(9, 0))

	if got := len(ledger.ListUsers()); got != 5 {
		t.Errorf("期望 5 个默认用户，实际=%d", got)
	}
	types := ledger.ListMealTypes()
	if len(types) != 2 || types[0].ID != MealTypeBreakfast || types[1].ID != MealTypeLunch {
		t.Fatalf("期望默认餐别 [breakfast lunch]，实际=%+v", types)
	}
	if types[1].CutoffTime != "10:30" || !types[1].DefaultChoice {
		t.Errorf("午餐默认配置错误: %+v", types[1])
	}

	for _, key := range []string{repository.KeyUsers, repository.KeyMealTypes, repository.KeySelections, repository.KeyCurrentUser, repository.KeyIsAdmin} {
		if _, err := store.Get(context.Background(), key); err != nil {
			t.Errorf("默认数据应写回键 %s: %v", key, err)
		}
	}
	if ledger.CurrentUser() != nil {
		t.Error("默认无当前用户")
	}
	if ledger.IsAdmin() {
		t.Error("默认非管理员")
	}
}

func TestMealLedger_Load_ExistingData(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	repo := repository.NewRepository(store)

	users := []model.User{{ID: "u1", Name: "钱八", Status: model.UserStatusActive}}
	if err := repo.Meal.SaveUsers(ctx, users); err != nil {
		t.Fatalf("预置用户失败: %v", err)
	}
	if err := repo.Meal.SaveCurrentUser(ctx, &users[0]); err != nil {
		t.Fatalf("预置当前用户失败: %v", err)
	}
	if err := repo.Meal.SaveIsAdmin(ctx, true); err != nil {
		t.Fatalf("预置管理员状态失败: %v", err)
	}

	ledger := NewMealLedger(repo, testMealConfig(), zap.NewNop())
	if err := ledger.Load(ctx); err != nil {
		t.Fatalf("Load 失败: %v", err)
	}

	if got := ledger.ListUsers(); len(got) != 1 || got[0].Name != "钱八" {
		t.Errorf("已有用户不应被默认数据覆盖，实际=%+v", got)
	}
	if cu := ledger.CurrentUser(); cu == nil || cu.ID != "u1" {
		t.Errorf("期望恢复当前用户 u1，实际=%+v", cu)
	}
	if !ledger.IsAdmin() {
		t.Error("期望恢复管理员状态")
	}
}

// ── UpdateSelection 测试 ──

func TestMealLedger_UpdateSelection_NoActingUser(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(9, 0))

	_, err := ledger.UpdateSelection(context.Background(), "2026-03-02", MealTypeLunch, false)
	if !errors.Is(err, ErrNoActingUser) {
		t.Errorf("期望 ErrNoActingUser，实际: %v", err)
	}
}

func TestMealLedger_UpdateSelection_Upsert(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(9, 0))
	ctx := context.Background()

	if _, err := ledger.SetCurrentUser(ctx, "1"); err != nil {
		t.Fatalf("SetCurrentUser 失败: %v", err)
	}

	first, err := ledger.UpdateSelection(ctx, "2026-03-03", MealTypeLunch, false)
	if err != nil {
		t.Fatalf("首次报餐失败: %v", err)
	}
	second, err := ledger.UpdateSelection(ctx, "2026-03-03", MealTypeLunch, true)
	if err != nil {
		t.Fatalf("再次报餐失败: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("同一三元组应原地更新，ID 变化 %s → %s", first.ID, second.ID)
	}
	list, _ := ledger.GetSelectionsByDate("2026-03-03")
	if len(list) != 1 {
		t.Fatalf("期望 1 条记录，实际=%d", len(list))
	}
	if !list[0].Choice {
		t.Error("期望最后一次写入生效 choice=true")
	}
}

func TestMealLedger_UpdateSelection_Cutoff(t *testing.T) {
	ledger, clock, _ := setupTestLedger(t, at(9, 0))
	ctx := context.Background()
	ledger.SetCurrentUser(ctx, "1")

	if _, err := ledger.UpdateSelection(ctx, "2026-03-02", MealTypeLunch, false); err != nil {
		t.Fatalf("截止前报餐应成功: %v", err)
	}

	clock.now = at(10, 31)
	_, err := ledger.UpdateSelection(ctx, "2026-03-02", MealTypeLunch, true)
	if !errors.Is(err, ErrCutoffPassed) {
		t.Fatalf("期望 ErrCutoffPassed，实际: %v", err)
	}
	mine, _ := ledger.GetMySelections("2026-03-02")
	if len(mine) != 1 || mine[0].Choice {
		t.Errorf("截止后被拒绝的写入不应改变状态，实际=%+v", mine)
	}

	if _, err := ledger.UpdateSelection(ctx, "2026-03-03", MealTypeLunch, true); err != nil {
		t.Errorf("未来日期不受截止限制: %v", err)
	}
}

func TestMealLedger_UpdateSelection_CutoffBoundary(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(10, 30))
	ctx := context.Background()
	ledger.SetCurrentUser(ctx, "1")

	if _, err := ledger.UpdateSelection(ctx, "2026-03-02", MealTypeLunch, true); !errors.Is(err, ErrCutoffPassed) {
		t.Errorf("到达截止时刻即视为已截止，实际: %v", err)
	}
}

func TestMealLedger_UpdateSelection_References(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(9, 0))
	ctx := context.Background()
	ledger.SetCurrentUser(ctx, "1")

	if _, err := ledger.UpdateSelection(ctx, "2026-03-03", "dinner", true); !errors.Is(err, ErrMealTypeNotFound) {
		t.Errorf("期望 ErrMealTypeNotFound，实际: %v", err)
	}
	if _, err := ledger.UpdateSelectionAs(ctx, "404", "2026-03-03", MealTypeLunch, true); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
	if _, err := ledger.UpdateSelection(ctx, "03/03/2026", MealTypeLunch, true); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
	if _, err := ledger.UpdateSelectionAs(ctx, "", "2026-03-03", MealTypeLunch, true); !errors.Is(err, ErrNoActingUser) {
		t.Errorf("期望 ErrNoActingUser，实际: %v", err)
	}
}

func TestMealLedger_UpdateSelection_StoreFailure(t *testing.T) {
	ledger, _, store := setupTestLedger(t, at(9, 0))
	ctx := context.Background()

	store.failSet = true
	if _, err := ledger.UpdateSelectionAs(ctx, "1", "2026-03-03", MealTypeLunch, false); !errors.Is(err, errStoreDown) {
		t.Fatalf("期望透传存储错误，实际: %v", err)
	}
	list, _ := ledger.GetSelectionsByDate("2026-03-03")
	if len(list) != 0 {
		t.Errorf("存储失败时内存状态不应改变，实际=%d 条", len(list))
	}
}

// ── 汇总与明细 ──

func TestMealLedger_Scenario_MondayLunch(t *testing.T) {
	clock := &fakeClock{now: at(9, 0)}
	ctx := context.Background()
	ledger := NewMealLedger(repository.NewRepository(repository.NewMemoryStore()), testMealConfig(), zap.NewNop(), WithClock(clock.Now))
	if err := ledger.Load(ctx); err != nil {
		t.Fatalf("Load 失败: %v", err)
	}

	// 仅保留一个在职用户和一个午餐餐别
	for _, u := range ledger.ListUsers() {
		if u.ID != "1" {
			ledger.DeleteUser(ctx, u.ID)
		}
	}
	ledger.DeleteMealType(ctx, MealTypeBreakfast)
	ledger.DeleteMealType(ctx, MealTypeLunch)
	lunch, err := ledger.AddMealType(ctx, &dto.CreateMealTypeRequest{
		Name: "午餐", CutoffTime: "10:30", DefaultChoice: true, DaysOfWeek: []int{1, 2, 3, 4, 5},
	})
	if err != nil {
		t.Fatalf("AddMealType 失败: %v", err)
	}
	ledger.SetCurrentUser(ctx, "1")

	if _, err := ledger.UpdateSelection(ctx, "2026-03-02", lunch.ID, false); err != nil {
		t.Fatalf("09:00 报餐应成功: %v", err)
	}
	summary, _ := ledger.GetSummary("2026-03-02")
	if len(summary) != 1 || summary[0].NotEating != 1 || summary[0].Eating != 0 {
		t.Fatalf("期望 notEating=1 eating=0，实际=%+v", summary)
	}

	clock.now = at(11, 0)
	if _, err := ledger.UpdateSelection(ctx, "2026-03-02", lunch.ID, true); !errors.Is(err, ErrCutoffPassed) {
		t.Fatalf("11:00 应被拒绝，实际: %v", err)
	}
	summary, _ = ledger.GetSummary("2026-03-02")
	if summary[0].NotEating != 1 {
		t.Errorf("被拒绝后汇总不应变化，实际=%+v", summary[0])
	}
}

func TestMealLedger_GetSummary_TotalIsActiveUsers(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(7, 0))
	ctx := context.Background()

	ledger.UpdateSelectionAs(ctx, "1", "2026-03-02", MealTypeLunch, true)
	ledger.UpdateSelectionAs(ctx, "2", "2026-03-02", MealTypeLunch, false)
	ledger.UpdateSelectionAs(ctx, "3", "2026-03-02", MealTypeLunch, true)
	if _, err := ledger.UpdateUser(ctx, "3", &dto.UpdateMealUserRequest{Status: strPtr(model.UserStatusInactive)}); err != nil {
		t.Fatalf("UpdateUser 失败: %v", err)
	}

	summary, err := ledger.GetSummary("2026-03-02")
	if err != nil {
		t.Fatalf("GetSummary 失败: %v", err)
	}
	var lunch dto.MealSummary
	for _, s := range summary {
		if s.MealTypeID == MealTypeLunch {
			lunch = s
		}
	}
	if lunch.Total != 4 {
		t.Errorf("期望 total=4（在职人数），实际=%d", lunch.Total)
	}
	if lunch.Eating != 2 || lunch.NotEating != 1 {
		t.Errorf("停用用户的历史记录仍计入，期望 eating=2 notEating=1，实际=%+v", lunch)
	}
	if lunch.Unconfirmed() != 1 {
		t.Errorf("期望未确认 1 人，实际=%d", lunch.Unconfirmed())
	}
}

func TestMealLedger_GetSummary_CountsDeletedUsersSelections(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(7, 0))
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3", "4", "5"} {
		if _, err := ledger.UpdateSelectionAs(ctx, id, "2026-03-02", MealTypeLunch, true); err != nil {
			t.Fatalf("UpdateSelectionAs(%s) 失败: %v", id, err)
		}
	}
	if err := ledger.DeleteUser(ctx, "5"); err != nil {
		t.Fatalf("DeleteUser 失败: %v", err)
	}

	summary, _ := ledger.GetSummary("2026-03-02")
	for _, s := range summary {
		if s.MealTypeID != MealTypeLunch {
			continue
		}
		if s.Total != 4 || s.Eating != 5 {
			t.Errorf("期望 total=4 eating=5，实际=%+v", s)
		}
		if s.Unconfirmed() != 0 {
			t.Errorf("未确认人数不应为负，实际=%d", s.Unconfirmed())
		}
	}
}

func TestMealLedger_GetSummary_ExcludesDisabled(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(7, 0))
	ctx := context.Background()

	if _, err := ledger.UpdateMealType(ctx, MealTypeBreakfast, &dto.UpdateMealTypeRequest{Enabled: boolPtr(false)}); err != nil {
		t.Fatalf("UpdateMealType 失败: %v", err)
	}
	summary, _ := ledger.GetSummary("2026-03-02")
	if len(summary) != 1 || summary[0].MealTypeID != MealTypeLunch {
		t.Errorf("停用餐别不应出现在汇总中，实际=%+v", summary)
	}
}

func TestMealLedger_GetDetails_DefaultFallback(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(7, 0))
	ctx := context.Background()

	ledger.UpdateSelectionAs(ctx, "1", "2026-03-02", MealTypeLunch, false)

	details, err := ledger.GetDetails("2026-03-02")
	if err != nil {
		t.Fatalf("GetDetails 失败: %v", err)
	}
	if len(details) != 5 {
		t.Fatalf("期望 5 个在职用户，实际=%d", len(details))
	}

	for _, d := range details {
		for _, sel := range d.Selections {
			switch {
			case d.UserID == "1" && sel.MealTypeID == MealTypeLunch:
				if sel.Choice || !sel.Explicit || sel.UpdatedAt != "2026-03-02 07:00:00" {
					t.Errorf("显式记录解析错误: %+v", sel)
				}
			default:
				if !sel.Choice || sel.Explicit || sel.UpdatedAt != "" {
					t.Errorf("无记录时应回退默认值且更新时间为空: user=%s %+v", d.UserID, sel)
				}
			}
		}
	}
}

func TestMealLedger_DeleteKeepsSelections(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(7, 0))
	ctx := context.Background()

	ledger.UpdateSelectionAs(ctx, "1", "2026-03-02", MealTypeLunch, true)
	if err := ledger.DeleteUser(ctx, "1"); err != nil {
		t.Fatalf("DeleteUser 失败: %v", err)
	}

	list, _ := ledger.GetSelectionsByDate("2026-03-02")
	if len(list) != 1 {
		t.Errorf("删除用户不级联删除历史记录，实际=%d 条", len(list))
	}
	summary, _ := ledger.GetSummary("2026-03-02")
	for _, s := range summary {
		want := 0
		if s.MealTypeID == MealTypeLunch {
			want = 1
		}
		if s.Eating != want || s.Total != 4 {
			t.Errorf("已删除用户的历史记录仍计入汇总，期望 eating=%d total=4，实际=%+v", want, s)
		}
	}
	if err := ledger.DeleteUser(ctx, "1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("重复删除期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── 餐别 CRUD ──

func TestMealLedger_AddMealType_Validation(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(7, 0))
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.CreateMealTypeRequest
		want error
	}{
		{"空名称", dto.CreateMealTypeRequest{Name: "  ", CutoffTime: "17:00"}, ErrNameEmpty},
		{"截止时间非法", dto.CreateMealTypeRequest{Name: "晚餐", CutoffTime: "25:00"}, ErrInvalidCutoffTime},
		{"星期越界", dto.CreateMealTypeRequest{Name: "晚餐", CutoffTime: "17:00", DaysOfWeek: []int{0}}, ErrInvalidDaysOfWeek},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := ledger.AddMealType(ctx, &req); !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
	if got := len(ledger.ListMealTypes()); got != 2 {
		t.Errorf("校验失败不应新增餐别，实际=%d", got)
	}
}

func TestMealLedger_AddMealType_EmptyDaysAllowed(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(7, 0))

	mt, err := ledger.AddMealType(context.Background(), &dto.CreateMealTypeRequest{Name: "夜宵", CutoffTime: "20:00"})
	if err != nil {
		t.Fatalf("空星期集合应允许创建: %v", err)
	}
	if !mt.Enabled {
		t.Error("Enabled 缺省应为 true")
	}
	for d := 0; d < 7; d++ {
		if ledger.IsMealTypeActiveOnDate(mt, at(12, 0).AddDate(0, 0, d)) {
			t.Errorf("空星期集合的餐别不应在任何一天生效 (day+%d)", d)
		}
	}
}

func TestMealLedger_MealTypes_StableSort(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(7, 0))
	ctx := context.Background()

	a, _ := ledger.AddMealType(ctx, &dto.CreateMealTypeRequest{Name: "下午茶A", CutoffTime: "14:00", SortOrder: 2, DaysOfWeek: []int{1}})
	b, _ := ledger.AddMealType(ctx, &dto.CreateMealTypeRequest{Name: "下午茶B", CutoffTime: "14:00", SortOrder: 2, DaysOfWeek: []int{1}})
	if _, err := ledger.UpdateMealType(ctx, MealTypeBreakfast, &dto.UpdateMealTypeRequest{SortOrder: intPtr(9)}); err != nil {
		t.Fatalf("UpdateMealType 失败: %v", err)
	}

	var ids []string
	for _, mt := range ledger.ListMealTypes() {
		ids = append(ids, mt.ID)
	}
	want := []string{MealTypeLunch, a.ID, b.ID, MealTypeBreakfast}
	if len(ids) != len(want) {
		t.Fatalf("期望 %d 个餐别，实际=%v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("位置 %d 期望 %s，实际=%s", i, want[i], ids[i])
		}
	}
}

func TestMealLedger_UpdateMealType_Patch(t *testing.T) {
	ledger, clock, _ := setupTestLedger(t, at(7, 0))
	ctx := context.Background()

	clock.now = at(8, 0)
	mt, err := ledger.UpdateMealType(ctx, MealTypeLunch, &dto.UpdateMealTypeRequest{
		CutoffTime: strPtr("9:45"),
		DaysOfWeek: intsPtr(5, 1, 1),
	})
	if err != nil {
		t.Fatalf("UpdateMealType 失败: %v", err)
	}
	if mt.CutoffTime != "09:45" {
		t.Errorf("期望截止时间规范化为 09:45，实际=%s", mt.CutoffTime)
	}
	if len(mt.DaysOfWeek) != 2 || mt.DaysOfWeek[0] != 1 || mt.DaysOfWeek[1] != 5 {
		t.Errorf("期望星期去重排序为 [1 5]，实际=%v", mt.DaysOfWeek)
	}
	if mt.Name != "午餐" || !mt.DefaultChoice {
		t.Error("未提供的字段不应被修改")
	}
	if !mt.UpdatedAt.Equal(at(8, 0)) {
		t.Errorf("UpdatedAt 应取当前时钟，实际=%v", mt.UpdatedAt)
	}

	if _, err := ledger.UpdateMealType(ctx, "nope", &dto.UpdateMealTypeRequest{}); !errors.Is(err, ErrMealTypeNotFound) {
		t.Errorf("期望 ErrMealTypeNotFound，实际: %v", err)
	}
}

func TestMealLedger_GetActiveMealTypes(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(7, 0))

	if got := ledger.GetActiveMealTypes(at(12, 0)); len(got) != 2 {
		t.Errorf("周一应有 2 个生效餐别，实际=%d", len(got))
	}
	if got := ledger.GetActiveMealTypes(at(12, 0).AddDate(0, 0, 6)); len(got) != 0 {
		t.Errorf("周日不应有生效餐别，实际=%d", len(got))
	}
}

// ── 用户 CRUD ──

func TestMealLedger_Users(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(7, 0))
	ctx := context.Background()

	if _, err := ledger.AddUser(ctx, &dto.CreateMealUserRequest{Name: " "}); !errors.Is(err, ErrNameEmpty) {
		t.Errorf("期望 ErrNameEmpty，实际: %v", err)
	}

	u, err := ledger.AddUser(ctx, &dto.CreateMealUserRequest{Name: " 周九 ", Dept: "财务部"})
	if err != nil {
		t.Fatalf("AddUser 失败: %v", err)
	}
	if u.Name != "周九" || u.Status != model.UserStatusActive || u.ID == "" {
		t.Errorf("新增用户字段错误: %+v", u)
	}

	if _, err := ledger.UpdateUser(ctx, u.ID, &dto.UpdateMealUserRequest{Name: strPtr("")}); !errors.Is(err, ErrNameEmpty) {
		t.Errorf("期望 ErrNameEmpty，实际: %v", err)
	}
	if _, err := ledger.UpdateUser(ctx, u.ID, &dto.UpdateMealUserRequest{Status: strPtr("gone")}); !errors.Is(err, ErrInvalidUserStatus) {
		t.Errorf("期望 ErrInvalidUserStatus，实际: %v", err)
	}
	if _, err := ledger.UpdateUser(ctx, "404", &dto.UpdateMealUserRequest{}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}

	if got := len(ledger.ListActiveUsers()); got != 6 {
		t.Errorf("期望 6 个在职用户，实际=%d", got)
	}
}

func TestMealLedger_CurrentUser(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(7, 0))
	ctx := context.Background()

	if _, err := ledger.SetCurrentUser(ctx, "404"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
	if _, err := ledger.SetCurrentUser(ctx, "2"); err != nil {
		t.Fatalf("SetCurrentUser 失败: %v", err)
	}
	ledger.UpdateUser(ctx, "2", &dto.UpdateMealUserRequest{Dept: strPtr("市场部")})
	if cu := ledger.CurrentUser(); cu == nil || cu.Dept != "市场部" {
		t.Errorf("当前用户应反映最新资料，实际=%+v", cu)
	}

	mine, _ := ledger.GetMySelections("2026-03-02")
	if len(mine) != 0 {
		t.Errorf("期望无记录，实际=%d", len(mine))
	}

	if _, err := ledger.SetCurrentUser(ctx, ""); err != nil {
		t.Fatalf("清除当前用户失败: %v", err)
	}
	if ledger.CurrentUser() != nil {
		t.Error("清除后当前用户应为空")
	}
}

// ── 员工视图 ──

func TestMealLedger_GetMealDay(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(9, 0))
	ctx := context.Background()

	ledger.UpdateSelectionAs(ctx, "1", "2026-03-02", MealTypeLunch, false)

	day, err := ledger.GetMealDay("1", "2026-03-02")
	if err != nil {
		t.Fatalf("GetMealDay 失败: %v", err)
	}
	if !day.IsToday || day.Weekday != 1 || len(day.Cards) != 2 {
		t.Fatalf("视图字段错误: %+v", day)
	}
	breakfast, lunch := day.Cards[0], day.Cards[1]
	if !breakfast.CutoffPassed || breakfast.Editable {
		t.Errorf("09:00 早餐应已截止且不可改: %+v", breakfast)
	}
	if !breakfast.Choice || breakfast.Explicit {
		t.Errorf("早餐无记录应回退默认值: %+v", breakfast)
	}
	if lunch.CutoffPassed || !lunch.Editable || lunch.Choice || !lunch.Explicit {
		t.Errorf("午餐状态错误: %+v", lunch)
	}

	tomorrow, _ := ledger.GetMealDay("1", "2026-03-03")
	for _, c := range tomorrow.Cards {
		if c.CutoffPassed || !c.Editable {
			t.Errorf("明日餐别不受截止影响: %+v", c)
		}
	}

	if _, err := ledger.GetMealDay("404", "2026-03-02"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── 管理员 ──

func TestMealLedger_AdminLogin(t *testing.T) {
	ledger, _, store := setupTestLedger(t, at(9, 0))
	ctx := context.Background()

	if err := ledger.Login(ctx, "wrong"); !errors.Is(err, ErrAdminAuthFailed) {
		t.Errorf("期望 ErrAdminAuthFailed，实际: %v", err)
	}
	if err := ledger.Login(ctx, "admin123"); err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	raw, _ := store.Get(ctx, repository.KeyIsAdmin)
	if string(raw) != "true" || !ledger.IsAdmin() {
		t.Errorf("登录后 is_admin 应为 true，实际=%s", raw)
	}
	if err := ledger.Logout(ctx); err != nil {
		t.Fatalf("Logout 失败: %v", err)
	}
	if ledger.IsAdmin() {
		t.Error("退出后不应为管理员")
	}
}

func TestMealLedger_AdminLogin_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成哈希失败: %v", err)
	}
	cfg := testMealConfig()
	cfg.AdminPasswordHash = string(hash)

	ledger := NewMealLedger(repository.NewRepository(repository.NewMemoryStore()), cfg, zap.NewNop())
	ctx := context.Background()
	if err := ledger.Load(ctx); err != nil {
		t.Fatalf("Load 失败: %v", err)
	}

	if err := ledger.Login(ctx, "admin123"); !errors.Is(err, ErrAdminAuthFailed) {
		t.Errorf("配置哈希后明文口令不再生效，实际: %v", err)
	}
	if err := ledger.Login(ctx, "s3cret-pass"); err != nil {
		t.Errorf("哈希口令登录失败: %v", err)
	}
}
