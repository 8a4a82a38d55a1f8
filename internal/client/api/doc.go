// Package api is the request pipeline every backend call goes through.
//
// # Overview
//
// Pipeline.Do sends one logical call. Outbound, it attaches the stored
// access token as a bearer credential (nothing is attached when no token is
// stored). Inbound, a 401 on the first attempt triggers a token refresh and
// exactly one resubmission; a 401 on the resubmission is returned as
// ErrUnauthorized.
//
// Refreshes are single-flight: concurrent calls that fail with the same
// stale token share one POST /auth/refresh-token. A call whose token was
// already replaced by the time it looks retries with the new token and
// never refreshes on its own.
//
// # Error Handling
//
// Conditions are sentinel errors matched with errors.Is: ErrUnavailable,
// ErrUnauthorized, ErrForbidden, ErrNotFound, ErrMalformedResponse and the
// terminal ErrSessionExpired. The latter means the refresh token was
// rejected; both tokens have been cleared and TopicSessionExpired has been
// published, so the presentation layer should send the user to login.
package api
