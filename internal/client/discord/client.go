package discord

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/guildadmin/internal/client/api"
)

// ErrNoGuild is returned when a call is made without a guild ID.
var ErrNoGuild = errors.New("no guild selected")

// Requester is the part of api.Pipeline the resource clients use.
type Requester interface {
	JSON(ctx context.Context, call *api.Call, out any) error
}

// Client groups the resource clients of one backend.
type Client struct {
	Channels   *Channels
	Categories *Categories
	Roles      *Roles
	Bot        *Bot
}

func New(r Requester) *Client {
	return &Client{
		Channels:   &Channels{r: r},
		Categories: &Categories{r: r},
		Roles:      &Roles{r: r},
		Bot:        &Bot{r: r},
	}
}

// guildPath builds /discord-bot/{guildID}/{elem...} with every element escaped.
func guildPath(guildID string, elem ...string) (string, error) {
	if guildID == "" {
		return "", ErrNoGuild
	}
	var b strings.Builder
	b.WriteString("/discord-bot")
	for _, e := range append([]string{guildID}, elem...) {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(e))
	}
	return b.String(), nil
}

func do(ctx context.Context, r Requester, method, guildID string, body, out any, elem ...string) error {
	path, err := guildPath(guildID, elem...)
	if err != nil {
		return err
	}
	return r.JSON(ctx, &api.Call{Method: method, Path: path, Body: body}, out)
}
