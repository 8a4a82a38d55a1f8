// Package discord wraps the guild-scoped /discord-bot endpoints of the
// backend. Every call goes through the api.Pipeline, so credentials and
// token refresh are handled there.
package discord
