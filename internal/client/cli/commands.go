package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/guildadmin/internal/client/models"
	"github.com/dmitrijs2005/guildadmin/internal/client/session"
)

// Login prints the authorization URL and, when configured, opens it.
func (a *App) Login(ctx context.Context) error {
	url := a.session.Login()
	fmt.Fprintln(a.out, "Open this URL in a browser to sign in with Discord:")
	fmt.Fprintln(a.out, "  "+url)
	fmt.Fprintln(a.out, "Then run 'callback <code>' with the code from the redirect.")

	if a.config.BrowserCommand != "" {
		if err := openBrowser(ctx, a.config.BrowserCommand, url); err != nil {
			a.logger.Warn(ctx, "failed to launch browser", "command", a.config.BrowserCommand, "error", err)
		}
	}
	return nil
}

// Callback completes the OAuth flow. Without a code the user is prompted.
func (a *App) Callback(ctx context.Context, code string) error {
	if code == "" {
		var err error
		code, err = GetSecret(a.in, a.stdinFd, "Authorization code", a.out)
		if err != nil {
			return err
		}
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	if err := a.session.HandleAuthCallback(ctx, code); err != nil {
		return err
	}

	st := a.session.State()
	fmt.Fprintf(a.out, "Logged in. %d guild(s) available.\n", len(st.Guilds))
	if st.Error != "" {
		fmt.Fprintln(a.out, "Warning:", st.Error)
	}
	return nil
}

// Status re-checks the session with the backend and prints the state.
func (a *App) Status(ctx context.Context) error {
	if a.isLoggedIn() {
		a.checkStatus(ctx)
		a.session.Wait()
	}

	st := a.session.State()
	fmt.Fprintf(a.out, "Phase:         %s\n", st.Phase)
	fmt.Fprintf(a.out, "Authenticated: %t\n", st.IsAuthenticated)
	if st.SelectedGuild != nil {
		fmt.Fprintf(a.out, "Guild:         %s\n", st.SelectedGuild)
	} else {
		fmt.Fprintln(a.out, "Guild:         (none)")
	}
	fmt.Fprintf(a.out, "Guilds:        %d\n", len(st.Guilds))
	if m := a.Mode(); m != "" {
		fmt.Fprintf(a.out, "Backend:       %s\n", m)
	}
	if st.Error != "" {
		fmt.Fprintf(a.out, "Last error:    %s\n", st.Error)
	}
	return nil
}

// Whoami shows the claims of the stored access token.
func (a *App) Whoami(ctx context.Context) error {
	info, err := a.session.TokenInfo(ctx)
	switch {
	case errors.Is(err, session.ErrNoToken):
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	case errors.Is(err, session.ErrOpaqueToken):
		fmt.Fprintln(a.out, "Logged in with an opaque access token.")
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(a.out, "Subject: %s\n", info.Subject)
	if info.Issuer != "" {
		fmt.Fprintf(a.out, "Issuer:  %s\n", info.Issuer)
	}
	if !info.ExpiresAt.IsZero() {
		state := "valid"
		if info.Expired(time.Now()) {
			state = "expired, will refresh on next call"
		}
		fmt.Fprintf(a.out, "Expires: %s (%s)\n", info.ExpiresAt.Format(time.RFC3339), state)
	}
	return nil
}

// Guilds reloads and prints the guild list, marking the selected one.
func (a *App) Guilds(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	if err := a.session.FetchGuilds(ctx); err != nil {
		return err
	}

	st := a.session.State()
	if len(st.Guilds) == 0 {
		fmt.Fprintln(a.out, "No guilds available.")
		return nil
	}
	for _, g := range st.Guilds {
		mark := " "
		if st.SelectedGuild != nil && st.SelectedGuild.ID == g.ID {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %s\n", mark, g)
	}
	return nil
}

// Select makes the guild with the given ID the active one. The guild list is
// loaded first if it is empty.
func (a *App) Select(ctx context.Context, id string) error {
	guilds := a.session.State().Guilds
	if len(guilds) == 0 {
		rctx, cancel := a.requestContext(ctx)
		err := a.session.FetchGuilds(rctx)
		cancel()
		if err != nil {
			return err
		}
		guilds = a.session.State().Guilds
	}

	g, ok := models.FindGuild(guilds, id)
	if !ok {
		return fmt.Errorf("guild %s is not in your guild list", id)
	}
	if err := a.session.SelectGuild(ctx, g); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Selected %s\n", g.Name)
	return nil
}

func (a *App) Channels(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	list, err := a.bot.Channels.List(ctx, a.guildID())
	if err != nil {
		return err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Position != list[j].Position {
			return list[i].Position < list[j].Position
		}
		return list[i].Name < list[j].Name
	})
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No channels.")
	}
	for _, c := range list {
		fmt.Fprintln(a.out, c)
	}
	return nil
}

func (a *App) Channel(ctx context.Context, id string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	c, err := a.bot.Channels.Get(ctx, a.guildID(), id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ID:       %s\n", c.ID)
	fmt.Fprintf(a.out, "Name:     %s\n", c.Name)
	fmt.Fprintf(a.out, "Type:     %s\n", c.Type)
	fmt.Fprintf(a.out, "Position: %d\n", c.Position)
	if c.ParentID != "" {
		fmt.Fprintf(a.out, "Category: %s\n", c.ParentID)
	}
	if c.Topic != "" {
		fmt.Fprintf(a.out, "Topic:    %s\n", c.Topic)
	}
	if c.NSFW {
		fmt.Fprintln(a.out, "NSFW:     yes")
	}
	return nil
}

// MkChannel creates a channel; kind defaults to a text channel.
func (a *App) MkChannel(ctx context.Context, name, kind string) error {
	t := models.ChannelText
	if kind != "" {
		var err error
		if t, err = models.ParseChannelType(strings.ToLower(kind)); err != nil {
			return err
		}
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	c, err := a.bot.Channels.Create(ctx, a.guildID(), models.ChannelInput{Name: &name, Type: &t})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Created", c)
	return nil
}

// RmChannel deletes one channel, or several in a single bulk request.
func (a *App) RmChannel(ctx context.Context, ids []string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	var err error
	if len(ids) == 1 {
		err = a.bot.Channels.Delete(ctx, a.guildID(), ids[0])
	} else {
		err = a.bot.Channels.DeleteMany(ctx, a.guildID(), ids)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %d channel(s)\n", len(ids))
	return nil
}

// Categories lists the categories together with the channels under them.
func (a *App) Categories(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	guildID := a.guildID()

	list, err := a.bot.Categories.List(ctx, guildID)
	if err != nil {
		return err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No categories.")
	}
	for _, c := range list {
		fmt.Fprintln(a.out, c)
		children, err := a.bot.Channels.ListByCategory(ctx, guildID, c.ID)
		if err != nil {
			return err
		}
		for _, ch := range children {
			fmt.Fprintln(a.out, "    "+ch.String())
		}
	}
	return nil
}

func (a *App) MkCategory(ctx context.Context, name string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	c, err := a.bot.Categories.Create(ctx, a.guildID(), models.CategoryInput{Name: &name})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Created", c)
	return nil
}

func (a *App) RmCategory(ctx context.Context, id string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	if err := a.bot.Categories.Delete(ctx, a.guildID(), id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted category", id)
	return nil
}

func (a *App) Roles(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	list, err := a.bot.Roles.List(ctx, a.guildID())
	if err != nil {
		return err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Position > list[j].Position })
	for _, r := range list {
		suffix := ""
		if r.Managed {
			suffix = " (managed)"
		}
		fmt.Fprintln(a.out, r.String()+suffix)
	}
	return nil
}

func (a *App) MkRole(ctx context.Context, name string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	r, err := a.bot.Roles.Create(ctx, a.guildID(), models.RoleInput{Name: &name})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Created", r)
	return nil
}

func (a *App) RmRole(ctx context.Context, id string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	if err := a.bot.Roles.Delete(ctx, a.guildID(), id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted role", id)
	return nil
}

func (a *App) Bot(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	st, err := a.bot.Bot.Status(ctx, a.guildID())
	if err != nil {
		return err
	}
	if !st.Online {
		fmt.Fprintln(a.out, "Bot is offline")
		return nil
	}
	fmt.Fprint(a.out, "Bot is online")
	if st.Status != "" {
		fmt.Fprintf(a.out, " (%s)", st.Status)
	}
	if st.Latency > 0 {
		fmt.Fprintf(a.out, ", latency %dms", st.Latency)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Metrics prints the request counters collected during this run.
func (a *App) Metrics(_ context.Context) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			fmt.Fprintf(a.out, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}

// Logout always ends in the anonymous state; only a local storage failure
// is reported.
func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
