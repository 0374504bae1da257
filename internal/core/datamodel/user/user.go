package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null;index"`
	FullName     *string   `gorm:"column:full_name"`
	Email        *string   `gorm:"column:email"`
	Phone        *string   `gorm:"column:phone"`
	Position     *string   `gorm:"column:position"`
	Bio          *string   `gorm:"column:bio"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
