package models

import "time"

// KVEntry is one document of the key-value store when it is backed by SQL.
type KVEntry struct {
	Key       string    `gorm:"column:doc_key;primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for KVEntry
func (KVEntry) TableName() string {
	return "kv_entries"
}
