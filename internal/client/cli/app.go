package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	evbus "github.com/asaskevich/EventBus"
	"github.com/dmitrijs2005/guildadmin/internal/client/api"
	"github.com/dmitrijs2005/guildadmin/internal/client/config"
	"github.com/dmitrijs2005/guildadmin/internal/client/credentials"
	"github.com/dmitrijs2005/guildadmin/internal/client/discord"
	"github.com/dmitrijs2005/guildadmin/internal/client/session"
	"github.com/dmitrijs2005/guildadmin/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	store    *credentials.Store
	session  *session.Session
	bot      *discord.Client
	registry *prometheus.Registry

	modeMu  sync.Mutex
	mode    Mode
	in      *bufio.Reader
	out     io.Writer
	stdinFd int
}

// NewApp opens the configured credential store and builds the client stack
// on top of it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}

	bus := evbus.New()
	registry := prometheus.NewRegistry()

	pipeline := api.New(c.APIBaseURL, store,
		api.WithLogger(logger),
		api.WithEventBus(bus),
		api.WithTimeout(c.RequestTimeout),
		api.WithRateLimit(c.RequestsPerSecond, 1),
		api.WithRegisterer(registry),
	)

	sess, err := session.New(ctx, store, api.NewAuthClient(pipeline), bus, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		config:   c,
		logger:   logger,
		store:    store,
		session:  sess,
		bot:      discord.New(pipeline),
		registry: registry,
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		stdinFd:  int(os.Stdin.Fd()),
	}, nil
}

func openStore(ctx context.Context, c *config.Config) (*credentials.Store, error) {
	var (
		repo credentials.Repository
		err  error
	)
	switch c.StoreBackend {
	case config.StoreRedis:
		repo, err = credentials.NewRedisRepository(ctx, credentials.RedisOptions{Addr: c.RedisAddr})
	default:
		repo, err = credentials.OpenSQLite(ctx, c.StorePath)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s credential store: %w", c.StoreBackend, err)
	}
	return credentials.NewStore(repo), nil
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(context.Background(), "switched mode", "mode", mode)
	}
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

// Run verifies a restored session, starts the status watcher and blocks in
// the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "GuildAdmin CLI (type 'help' for commands)")

	if a.isLoggedIn() {
		a.checkStatus(ctx)
	}

	if a.config.StatusCheckInterval > 0 {
		go a.StartStatusWatcher(ctx, a.config.StatusCheckInterval)
	}

	runREPL(ctx, a, a.prompt, bufio.NewScanner(&lineReader{r: a.in}))
}

// Close waits for background work and releases the credential store.
func (a *App) Close() error {
	if err := a.session.Close(); err != nil {
		a.logger.Warn(context.Background(), "session close", "error", err)
	}
	return a.store.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated
}

func (a *App) prompt() string {
	st := a.session.State()
	s := st.Phase.String()
	if st.SelectedGuild != nil {
		s = st.SelectedGuild.Name + " " + s
	}
	if m := a.Mode(); m != "" {
		s = s + " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	// Leave room for a refresh plus the resubmission.
	return context.WithTimeout(ctx, 3*a.config.RequestTimeout)
}

func (a *App) guildID() string {
	if g := a.session.State().SelectedGuild; g != nil {
		return g.ID
	}
	return ""
}
