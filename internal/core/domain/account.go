package domain

// Account represents a registered user identity in the domain.
type Account struct {
	Identifier  string    `json:"email"` // Unique, e.g. an email address
	DisplayName string    `json:"name"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// Credential is the stored record behind an Account. SecretHash is a bcrypt hash,
// which carries its own salt.
type Credential struct {
	Account
	SecretHash string `json:"passwordHash,omitempty"`
	// LegacySecret holds a plaintext secret from records written before hashing.
	// It is replaced by SecretHash on the next successful authentication.
	LegacySecret string `json:"password,omitempty"`
}

// AccountSummary is the part of an Account carried inside a backup.
type AccountSummary struct {
	Identifier  string `json:"email"`
	DisplayName string `json:"name"`
}

// Summary returns the backup-facing view of the account.
func (a Account) Summary() AccountSummary {
	return AccountSummary{Identifier: a.Identifier, DisplayName: a.DisplayName}
}
