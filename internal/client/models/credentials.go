package models

// Pair is the access/refresh credential pair issued by the backend.
// An empty AccessToken means the session has no credentials to attach.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty reports whether neither token is set.
func (p Pair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}
