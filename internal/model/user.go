package model

import "time"

// Role values stored in users.role and carried in the JWT "role" claim.
const (
	RoleStaff   = "STAFF"
	RoleStudent = "STUDENT"
)

// User is an API account record from the `users` table. Staff accounts may
// regenerate schedules; student accounts may enroll. Only the bcrypt hash of
// the password is stored.
type User struct {
	ID           int64     // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role (STAFF or STUDENT)
	CreatedAt    time.Time // users.created_at
}
