package models

import "time"

// User represents a customer account
type User struct {
	Base      `bson:",inline"`
	Username  string    `bson:"username" json:"username" validate:"required"`
	Password  string    `bson:"password" json:"password,omitempty" validate:"required"`
	City      string    `bson:"city" json:"city" validate:"required"`
	Birthdate time.Time `bson:"birthdate" json:"birthdate" validate:"required"`
}

// CredentialHolder is implemented by documents carrying a secret that must be
// hashed before it is stored and never echoed back.
type CredentialHolder interface {
	Credential() string
	SetCredential(secret string)
}

func (u *User) Credential() string { return u.Password }

func (u *User) SetCredential(secret string) { u.Password = secret }
