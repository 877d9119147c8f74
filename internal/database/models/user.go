package models

// User is a technician or an acting user of the API
type User struct {
	BaseModel
	Name         string `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	Email        string `json:"email" gorm:"size:255;not null;uniqueIndex" validate:"required,email,max=255"`
	PasswordHash string `json:"-" gorm:"size:100;not null"`
	Active       bool   `json:"active" gorm:"not null;default:true"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
