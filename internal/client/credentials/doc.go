// Package credentials is the durable key/value store behind the client
// session. It holds exactly three well-known entries: the access token, the
// refresh token and the JSON-serialized selected guild.
//
// Backends implement Repository (SQLite, Redis, in-memory). Store wraps a
// Repository with a read/write lock and typed helpers so that token pairs
// are always written and cleared as a unit.
package credentials
