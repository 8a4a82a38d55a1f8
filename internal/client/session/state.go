package session

import "github.com/dmitrijs2005/guildadmin/internal/client/models"

// Phase is the coarse position of the session in its lifecycle.
type Phase int

const (
	PhaseAnonymous Phase = iota
	PhaseAuthenticating
	PhaseAuthenticated
	// PhaseError is transient: the next operation moves the session back to
	// PhaseAuthenticated or PhaseAnonymous.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// State is the read model consumers render from. IsAuthenticated is a cached
// flag and may be stale until the next status check.
type State struct {
	Phase           Phase
	IsAuthenticated bool
	SelectedGuild   *models.Guild
	Guilds          []models.Guild
	IsLoading       bool
	Error           string
}

func (s State) clone() State {
	out := s
	if s.SelectedGuild != nil {
		g := *s.SelectedGuild
		out.SelectedGuild = &g
	}
	out.Guilds = append([]models.Guild{}, s.Guilds...)
	return out
}

// anonymous is the shape left behind by logout or an expired session.
func anonymous(errMsg string) State {
	return State{Phase: PhaseAnonymous, Guilds: []models.Guild{}, Error: errMsg}
}
