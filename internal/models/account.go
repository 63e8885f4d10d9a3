package models

import "time"

// Account is a registered user as seen by callers. The secret itself is
// never kept; see AccountRecord.
type Account struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountRecord is the persisted form of an Account.
type AccountRecord struct {
	Username  string    `json:"username"`
	Salt      []byte    `json:"salt"`
	Verifier  []byte    `json:"verifier"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r AccountRecord) Account() Account {
	return Account{Username: r.Username, CreatedAt: r.CreatedAt}
}
