package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	OpenID       string    `db:"open_id" json:"openId"`
	Name         *string   `db:"name" json:"name"`
	Email        *string   `db:"email" json:"email"`
	LoginMethod  *string   `db:"login_method" json:"loginMethod"`
	Role         string    `db:"role" json:"role"`
	LastSignedIn time.Time `db:"last_signed_in" json:"lastSignedIn"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

type WhitelistEntry struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	AddedBy   int64     `db:"added_by" json:"addedBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
