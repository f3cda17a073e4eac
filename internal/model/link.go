package model

import "time"

// Link 短链模型，link_id 由 (original_url, user_id) 推导，同时作为主键和访问路径
type Link struct {
	LinkID         string    `gorm:"size:16;primaryKey" json:"linkId"`
	OriginalURL    string    `gorm:"size:2048;not null" json:"originalUrl"`
	NumHits        int64     `gorm:"default:0" json:"numHits"`
	LastAccessedOn time.Time `json:"lastAccessedOn"`
	UserID         string    `gorm:"type:char(36);index;not null" json:"-"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Link) TableName() string {
	return "links"
}
