package models

// User maps the usuarios table. Username is the natural key every other table
// references; the record never changes after signup except for the password hash.
type User struct {
	Username     string `gorm:"column:username;primaryKey" json:"username"`
	Name         string `gorm:"column:nome;not null" json:"nome"`
	PasswordHash string `gorm:"column:senha_hash;not null" json:"-"`
}

func (User) TableName() string {
	return "usuarios"
}
