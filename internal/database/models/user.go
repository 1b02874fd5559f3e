package models

// User represents a registered account. Referenced by ID everywhere else,
// never embedded.
type User struct {
	BaseModel
	Username     string `json:"username" gorm:"not null;size:100" validate:"required,max=100"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	PasswordHash string `json:"-" gorm:"not null;size:100"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// UserSummary is the populated form of a user reference in API responses.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Summary returns the reference summary for this user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
	}
}
