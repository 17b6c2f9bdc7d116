package domain

import "time"

// Account identifies a participant that can hold funds. Accounts are
// provisioned once at registration and never change afterwards.
type Account struct {
	ID             string
	AccountNumber  string
	OwnerName      string
	DocumentType   string
	DocumentNumber string
	CreatedAt      time.Time
}
