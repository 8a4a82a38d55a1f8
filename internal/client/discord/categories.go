package discord

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/guildadmin/internal/client/models"
)

type Categories struct {
	r Requester
}

func (c *Categories) List(ctx context.Context, guildID string) ([]models.Category, error) {
	var out []models.Category
	if err := do(ctx, c.r, http.MethodGet, guildID, nil, &out, "categories"); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (c *Categories) Get(ctx context.Context, guildID, id string) (*models.Category, error) {
	var out models.Category
	if err := do(ctx, c.r, http.MethodGet, guildID, nil, &out, "categories", id); err != nil {
		return nil, fmt.Errorf("get category[%s]: %w", id, err)
	}
	return &out, nil
}

func (c *Categories) Create(ctx context.Context, guildID string, in models.CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := do(ctx, c.r, http.MethodPost, guildID, in, &out, "categories"); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &out, nil
}

func (c *Categories) Update(ctx context.Context, guildID, id string, in models.CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := do(ctx, c.r, http.MethodPut, guildID, in, &out, "categories", id); err != nil {
		return nil, fmt.Errorf("update category[%s]: %w", id, err)
	}
	return &out, nil
}

func (c *Categories) Delete(ctx context.Context, guildID, id string) error {
	if err := do(ctx, c.r, http.MethodDelete, guildID, nil, nil, "categories", id); err != nil {
		return fmt.Errorf("delete category[%s]: %w", id, err)
	}
	return nil
}
