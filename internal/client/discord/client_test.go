package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/dmitrijs2005/guildadmin/internal/client/api"
	"github.com/dmitrijs2005/guildadmin/internal/client/credentials"
	"github.com/dmitrijs2005/guildadmin/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guildID = "g1"

// fakeGuild is an in-memory /discord-bot backend for a single guild.
type fakeGuild struct {
	mu         sync.Mutex
	channels   map[string]models.Channel
	categories map[string]models.Category
	roles      map[string]models.Role
	nextID     int
	bulkIDs    []string
}

func newFakeGuild(t *testing.T) (*fakeGuild, *Client) {
	t.Helper()
	f := &fakeGuild{
		channels: map[string]models.Channel{
			"c1": {ID: "c1", Name: "general", Type: models.ChannelText, ParentID: "k1"},
			"c2": {ID: "c2", Name: "voice", Type: models.ChannelVoice},
		},
		categories: map[string]models.Category{"k1": {ID: "k1", Name: "Text Channels"}},
		roles:      map[string]models.Role{"r1": {ID: "r1", Name: "admin", Color: 0xff0000}},
		nextID:     100,
	}

	r := chi.NewRouter()
	r.Route("/discord-bot/{guild}", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if chi.URLParam(r, "guild") != guildID {
					writeJSON(w, http.StatusNotFound, map[string]string{"message": "Unknown Guild"})
					return
				}
				f.mu.Lock()
				defer f.mu.Unlock()
				next.ServeHTTP(w, r)
			})
		})

		r.Get("/channels", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, values(f.channels))
		})
		r.Get("/channels/{id}", func(w http.ResponseWriter, r *http.Request) {
			c, ok := f.channels[chi.URLParam(r, "id")]
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "Unknown Channel"})
				return
			}
			writeJSON(w, http.StatusOK, c)
		})
		r.Post("/channels", func(w http.ResponseWriter, r *http.Request) {
			var in models.ChannelInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Name == nil || *in.Name == "" {
				writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"name should not be empty"}})
				return
			}
			c := models.Channel{ID: f.id(), Name: *in.Name}
			if in.Type != nil {
				c.Type = *in.Type
			}
			f.channels[c.ID] = c
			writeJSON(w, http.StatusCreated, c)
		})
		r.Put("/channels/{id}", func(w http.ResponseWriter, r *http.Request) {
			c := f.channels[chi.URLParam(r, "id")]
			var in models.ChannelInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Name != nil {
				c.Name = *in.Name
			}
			if in.Topic != nil {
				c.Topic = *in.Topic
			}
			f.channels[c.ID] = c
			writeJSON(w, http.StatusOK, c)
		})
		r.Delete("/channels/{id}", func(w http.ResponseWriter, r *http.Request) {
			delete(f.channels, chi.URLParam(r, "id"))
			w.WriteHeader(http.StatusNoContent)
		})
		r.Delete("/delete-channels", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				ChannelIDs []string `json:"channelIds"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.bulkIDs = req.ChannelIDs
			for _, id := range req.ChannelIDs {
				delete(f.channels, id)
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, values(f.categories))
		})
		r.Get("/categories/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, f.categories[chi.URLParam(r, "id")])
		})
		r.Get("/categories/{id}/channels", func(w http.ResponseWriter, r *http.Request) {
			out := []models.Channel{}
			for _, c := range f.channels {
				if c.ParentID == chi.URLParam(r, "id") {
					out = append(out, c)
				}
			}
			writeJSON(w, http.StatusOK, out)
		})
		r.Post("/categories", func(w http.ResponseWriter, r *http.Request) {
			var in models.CategoryInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			c := models.Category{ID: f.id(), Name: *in.Name}
			f.categories[c.ID] = c
			writeJSON(w, http.StatusCreated, c)
		})
		r.Put("/categories/{id}", func(w http.ResponseWriter, r *http.Request) {
			c := f.categories[chi.URLParam(r, "id")]
			var in models.CategoryInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Position != nil {
				c.Position = *in.Position
			}
			f.categories[c.ID] = c
			writeJSON(w, http.StatusOK, c)
		})
		r.Delete("/categories/{id}", func(w http.ResponseWriter, r *http.Request) {
			delete(f.categories, chi.URLParam(r, "id"))
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/roles", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, values(f.roles))
		})
		r.Post("/roles", func(w http.ResponseWriter, r *http.Request) {
			var in models.RoleInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			role := models.Role{ID: f.id(), Name: *in.Name}
			if in.Color != nil {
				role.Color = *in.Color
			}
			f.roles[role.ID] = role
			writeJSON(w, http.StatusCreated, role)
		})
		r.Put("/roles/{id}", func(w http.ResponseWriter, r *http.Request) {
			role := f.roles[chi.URLParam(r, "id")]
			var in models.RoleInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Hoist != nil {
				role.Hoist = *in.Hoist
			}
			f.roles[role.ID] = role
			writeJSON(w, http.StatusOK, role)
		})
		r.Delete("/roles/{id}", func(w http.ResponseWriter, r *http.Request) {
			delete(f.roles, chi.URLParam(r, "id"))
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/bot-status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, models.BotStatus{Online: true, Status: "online", Latency: 42})
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	store := credentials.NewStore(credentials.NewMemoryRepository())
	return f, New(api.New(srv.URL, store))
}

func (f *fakeGuild) id() string {
	f.nextID++
	return "n" + strconv.Itoa(f.nextID)
}

func values[T any](m map[string]T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ptr[T any](v T) *T { return &v }

func TestChannels_CRUD(t *testing.T) {
	f, c := newFakeGuild(t)
	ctx := context.Background()

	list, err := c.Channels.List(ctx, guildID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	ch, err := c.Channels.Get(ctx, guildID, "c1")
	require.NoError(t, err)
	assert.Equal(t, "general", ch.Name)

	created, err := c.Channels.Create(ctx, guildID, models.ChannelInput{
		Name: ptr("stage-talks"),
		Type: ptr(models.ChannelStage),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ChannelStage, created.Type)

	updated, err := c.Channels.Update(ctx, guildID, created.ID, models.ChannelInput{Topic: ptr("weekly")})
	require.NoError(t, err)
	assert.Equal(t, "stage-talks", updated.Name)
	assert.Equal(t, "weekly", updated.Topic)

	require.NoError(t, c.Channels.Delete(ctx, guildID, created.ID))
	f.mu.Lock()
	assert.NotContains(t, f.channels, created.ID)
	f.mu.Unlock()
}

func TestChannels_CreateValidationError(t *testing.T) {
	_, c := newFakeGuild(t)

	_, err := c.Channels.Create(context.Background(), guildID, models.ChannelInput{})
	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "name should not be empty", httpErr.Message)
}

func TestChannels_GetUnknown(t *testing.T) {
	_, c := newFakeGuild(t)

	_, err := c.Channels.Get(context.Background(), guildID, "missing")
	require.ErrorIs(t, err, api.ErrNotFound)
	assert.Contains(t, err.Error(), "get channel[missing]")
}

func TestChannels_DeleteManyAndByCategory(t *testing.T) {
	f, c := newFakeGuild(t)
	ctx := context.Background()

	inCategory, err := c.Channels.ListByCategory(ctx, guildID, "k1")
	require.NoError(t, err)
	require.Len(t, inCategory, 1)
	assert.Equal(t, "c1", inCategory[0].ID)

	require.NoError(t, c.Channels.DeleteMany(ctx, guildID, nil), "nothing to delete")
	require.NoError(t, c.Channels.DeleteMany(ctx, guildID, []string{"c1", "c2"}))

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, []string{"c1", "c2"}, f.bulkIDs)
	assert.Empty(t, f.channels)
}

func TestCategories_CRUD(t *testing.T) {
	f, c := newFakeGuild(t)
	ctx := context.Background()

	list, err := c.Categories.List(ctx, guildID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	created, err := c.Categories.Create(ctx, guildID, models.CategoryInput{Name: ptr("Voice")})
	require.NoError(t, err)
	assert.Equal(t, "Voice", created.Name)

	got, err := c.Categories.Get(ctx, guildID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := c.Categories.Update(ctx, guildID, created.ID, models.CategoryInput{Position: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Position)

	require.NoError(t, c.Categories.Delete(ctx, guildID, created.ID))
	f.mu.Lock()
	assert.Len(t, f.categories, 1)
	f.mu.Unlock()
}

func TestRoles_CRUD(t *testing.T) {
	f, c := newFakeGuild(t)
	ctx := context.Background()

	created, err := c.Roles.Create(ctx, guildID, models.RoleInput{Name: ptr("mods"), Color: ptr(0x00ff00)})
	require.NoError(t, err)
	assert.Equal(t, 0x00ff00, created.Color)

	updated, err := c.Roles.Update(ctx, guildID, created.ID, models.RoleInput{Hoist: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Hoist)

	list, err := c.Roles.List(ctx, guildID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, c.Roles.Delete(ctx, guildID, created.ID))
	f.mu.Lock()
	assert.NotContains(t, f.roles, created.ID)
	f.mu.Unlock()
}

func TestBot_Status(t *testing.T) {
	_, c := newFakeGuild(t)

	st, err := c.Bot.Status(context.Background(), guildID)
	require.NoError(t, err)
	assert.Equal(t, &models.BotStatus{Online: true, Status: "online", Latency: 42}, st)
}

func TestClient_RequiresGuild(t *testing.T) {
	_, c := newFakeGuild(t)
	ctx := context.Background()

	_, err := c.Channels.List(ctx, "")
	assert.ErrorIs(t, err, ErrNoGuild)
	assert.ErrorIs(t, c.Roles.Delete(ctx, "", "r1"), ErrNoGuild)
	_, err = c.Bot.Status(ctx, "")
	assert.ErrorIs(t, err, ErrNoGuild)
}

func TestClient_UnknownGuild(t *testing.T) {
	_, c := newFakeGuild(t)

	_, err := c.Roles.List(context.Background(), "other")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestGuildPath(t *testing.T) {
	p, err := guildPath("g1", "channels", "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/discord-bot/g1/channels/a%2Fb", p)
}
