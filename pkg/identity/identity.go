// Package identity derives stable identity tokens from credential files.
//
// A credential may carry an account id or a user id inside its tokens block;
// the account id wins when both exist. Credentials without either (for
// example API-key-only logins) have no identity, which is a documented
// capability gap rather than an error: drift detection simply cannot be
// performed for them.
package identity

import (
	"encoding/json"
	"os"
)

type credentialTokens struct {
	Tokens struct {
		AccountID string `json:"account_id"`
		UserID    string `json:"user_id"`
	} `json:"tokens"`
}

// FromJSON extracts an identity token from raw credential JSON.
// Returns "" when the credential carries no identity or cannot be parsed.
func FromJSON(data []byte) string {
	var cred credentialTokens
	if err := json.Unmarshal(data, &cred); err != nil {
		return ""
	}
	if cred.Tokens.AccountID != "" {
		return "account_id:" + cred.Tokens.AccountID
	}
	if cred.Tokens.UserID != "" {
		return "user_id:" + cred.Tokens.UserID
	}
	return ""
}

// FromFile extracts an identity token from a credential file.
// Read failures (missing file, malformed content) yield "".
func FromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return FromJSON(data)
}
