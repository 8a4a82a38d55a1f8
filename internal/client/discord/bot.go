package discord

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/guildadmin/internal/client/models"
)

type Bot struct {
	r Requester
}

// Status reports whether the bot is connected to the guild.
func (b *Bot) Status(ctx context.Context, guildID string) (*models.BotStatus, error) {
	var out models.BotStatus
	if err := do(ctx, b.r, http.MethodGet, guildID, nil, &out, "bot-status"); err != nil {
		return nil, fmt.Errorf("bot status: %w", err)
	}
	return &out, nil
}
