// Package session holds the client's authentication state machine: login
// through the OAuth callback, status checks, the guild list, the persisted
// guild selection and logout. It reacts to the request pipeline's
// session-expired event by falling back to the anonymous state.
package session
