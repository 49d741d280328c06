package repository

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Meal MealRepository
}

// NewRepository 基于给定 Store 创建 Repository 聚合
func NewRepository(store Store) *Repository {
	return &Repository{
		Meal: NewMealRepo(store),
	}
}
