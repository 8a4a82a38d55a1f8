package models

import "fmt"

// Role is a guild role.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Hoist       bool   `json:"hoist"`
	Position    int    `json:"position"`
	Permissions string `json:"permissions"`
	Mentionable bool   `json:"mentionable"`
	Managed     bool   `json:"managed"`
}

func (r Role) String() string {
	return fmt.Sprintf("%s  @%s #%06x", r.ID, r.Name, r.Color)
}

// RoleInput carries the fields of a role create or partial update.
type RoleInput struct {
	Name        *string `json:"name,omitempty"`
	Color       *int    `json:"color,omitempty"`
	Hoist       *bool   `json:"hoist,omitempty"`
	Permissions *string `json:"permissions,omitempty"`
	Mentionable *bool   `json:"mentionable,omitempty"`
}

// BotStatus reports whether the bot is connected to the guild.
type BotStatus struct {
	Online  bool   `json:"online"`
	Status  string `json:"status,omitempty"`
	Latency int    `json:"latency,omitempty"`
}
