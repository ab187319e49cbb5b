package domain

import "time"

type User struct {
	ID           string
	Email        string // always stored lowercase and trimmed
	PasswordHash string // PHC argon2id, or legacy hex sha256 for old rows
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
