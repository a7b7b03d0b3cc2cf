package entity

import "time"

// User representa a un técnico de TI con acceso al sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

// FullName nombre y apellido, o el username si falta alguno.
func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}
