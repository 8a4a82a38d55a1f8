// Package models defines client-side data models used by the GuildAdmin CLI.
package models

import "fmt"

// Guild is a Discord server the session can administer.
type Guild struct {
	// ID is the Discord snowflake of the guild.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Icon is the icon hash, empty when the guild has no icon.
	Icon string `json:"icon,omitempty"`

	// Owner reports whether the current user owns the guild.
	Owner bool `json:"owner,omitempty"`

	// Permissions is the permission bitset of the current user, as a decimal string.
	Permissions string `json:"permissions,omitempty"`
}

// String renders the guild for listings.
func (g Guild) String() string {
	return fmt.Sprintf("%s  %s", g.ID, g.Name)
}

// FindGuild returns the guild with the given id from list.
func FindGuild(list []Guild, id string) (Guild, bool) {
	for _, g := range list {
		if g.ID == id {
			return g, true
		}
	}
	return Guild{}, false
}
