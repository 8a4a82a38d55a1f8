package models

import "fmt"

// ChannelType mirrors the numeric Discord channel type.
type ChannelType int

const (
	ChannelText     ChannelType = 0
	ChannelVoice    ChannelType = 2
	ChannelCategory ChannelType = 4
	ChannelNews     ChannelType = 5
	ChannelStage    ChannelType = 13
	ChannelForum    ChannelType = 15
)

var channelTypeNames = map[ChannelType]string{
	ChannelText:     "text",
	ChannelVoice:    "voice",
	ChannelCategory: "category",
	ChannelNews:     "news",
	ChannelStage:    "stage",
	ChannelForum:    "forum",
}

func (t ChannelType) String() string {
	if s, ok := channelTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseChannelType accepts the names produced by ChannelType.String.
func ParseChannelType(s string) (ChannelType, error) {
	for t, name := range channelTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown channel type %q", s)
}

// Channel is a guild channel as returned by the bot API.
type Channel struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     ChannelType `json:"type"`
	ParentID string      `json:"parentId,omitempty"`
	Position int         `json:"position"`
	Topic    string      `json:"topic,omitempty"`
	NSFW     bool        `json:"nsfw,omitempty"`
}

func (c Channel) String() string {
	return fmt.Sprintf("%s  #%s (%s)", c.ID, c.Name, c.Type)
}

// ChannelInput carries the fields of a create or partial update.
// Nil fields are omitted from the request body.
type ChannelInput struct {
	Name     *string      `json:"name,omitempty"`
	Type     *ChannelType `json:"type,omitempty"`
	ParentID *string      `json:"parentId,omitempty"`
	Position *int         `json:"position,omitempty"`
	Topic    *string      `json:"topic,omitempty"`
	NSFW     *bool        `json:"nsfw,omitempty"`
}

// Category groups channels under a collapsible header.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

func (c Category) String() string {
	return fmt.Sprintf("%s  %s", c.ID, c.Name)
}

// CategoryInput carries the fields of a category create or update.
type CategoryInput struct {
	Name     *string `json:"name,omitempty"`
	Position *int    `json:"position,omitempty"`
}
