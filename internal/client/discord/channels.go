package discord

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/guildadmin/internal/client/models"
)

type Channels struct {
	r Requester
}

func (c *Channels) List(ctx context.Context, guildID string) ([]models.Channel, error) {
	var out []models.Channel
	if err := do(ctx, c.r, http.MethodGet, guildID, nil, &out, "channels"); err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return out, nil
}

func (c *Channels) Get(ctx context.Context, guildID, id string) (*models.Channel, error) {
	var out models.Channel
	if err := do(ctx, c.r, http.MethodGet, guildID, nil, &out, "channels", id); err != nil {
		return nil, fmt.Errorf("get channel[%s]: %w", id, err)
	}
	return &out, nil
}

func (c *Channels) Create(ctx context.Context, guildID string, in models.ChannelInput) (*models.Channel, error) {
	var out models.Channel
	if err := do(ctx, c.r, http.MethodPost, guildID, in, &out, "channels"); err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}
	return &out, nil
}

func (c *Channels) Update(ctx context.Context, guildID, id string, in models.ChannelInput) (*models.Channel, error) {
	var out models.Channel
	if err := do(ctx, c.r, http.MethodPut, guildID, in, &out, "channels", id); err != nil {
		return nil, fmt.Errorf("update channel[%s]: %w", id, err)
	}
	return &out, nil
}

func (c *Channels) Delete(ctx context.Context, guildID, id string) error {
	if err := do(ctx, c.r, http.MethodDelete, guildID, nil, nil, "channels", id); err != nil {
		return fmt.Errorf("delete channel[%s]: %w", id, err)
	}
	return nil
}

type deleteChannelsRequest struct {
	ChannelIDs []string `json:"channelIds"`
}

// DeleteMany removes several channels in one request.
func (c *Channels) DeleteMany(ctx context.Context, guildID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	body := deleteChannelsRequest{ChannelIDs: ids}
	if err := do(ctx, c.r, http.MethodDelete, guildID, body, nil, "delete-channels"); err != nil {
		return fmt.Errorf("delete channels: %w", err)
	}
	return nil
}

// ListByCategory returns the channels whose parent is categoryID.
func (c *Channels) ListByCategory(ctx context.Context, guildID, categoryID string) ([]models.Channel, error) {
	var out []models.Channel
	if err := do(ctx, c.r, http.MethodGet, guildID, nil, &out, "categories", categoryID, "channels"); err != nil {
		return nil, fmt.Errorf("list channels of category[%s]: %w", categoryID, err)
	}
	return out, nil
}
