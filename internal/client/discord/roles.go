package discord

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/guildadmin/internal/client/models"
)

type Roles struct {
	r Requester
}

func (c *Roles) List(ctx context.Context, guildID string) ([]models.Role, error) {
	var out []models.Role
	if err := do(ctx, c.r, http.MethodGet, guildID, nil, &out, "roles"); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return out, nil
}

func (c *Roles) Create(ctx context.Context, guildID string, in models.RoleInput) (*models.Role, error) {
	var out models.Role
	if err := do(ctx, c.r, http.MethodPost, guildID, in, &out, "roles"); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return &out, nil
}

func (c *Roles) Update(ctx context.Context, guildID, id string, in models.RoleInput) (*models.Role, error) {
	var out models.Role
	if err := do(ctx, c.r, http.MethodPut, guildID, in, &out, "roles", id); err != nil {
		return nil, fmt.Errorf("update role[%s]: %w", id, err)
	}
	return &out, nil
}

func (c *Roles) Delete(ctx context.Context, guildID, id string) error {
	if err := do(ctx, c.r, http.MethodDelete, guildID, nil, nil, "roles", id); err != nil {
		return fmt.Errorf("delete role[%s]: %w", id, err)
	}
	return nil
}
