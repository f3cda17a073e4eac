package model

// User 用户账户模型
type User struct {
	UserID       string `gorm:"type:char(36);primaryKey" json:"userId"`
	Username     string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	IsAdmin      bool   `gorm:"default:false" json:"isAdmin"`
	IsPro        bool   `gorm:"default:false" json:"isPro"`
	Links        []Link `gorm:"foreignKey:UserID" json:"links,omitempty"`
}

func (User) TableName() string {
	return "users"
}
