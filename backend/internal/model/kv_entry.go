package model

import "time"

// KVEntry 键值存储表，对应 kv_entries，Name 为逻辑键名
type KVEntry struct {
	Name      string    `gorm:"type:varchar(128);primaryKey"       json:"name"`
	Value     string    `gorm:"type:text;not null"                 json:"value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (KVEntry) TableName() string { return "kv_entries" }
