package session

import (
	"github.com/rs/zerolog"

	"cyberholdem/common/safemap"
)

// Manager is the registry of live sessions. Sessions are fully independent;
// there is no cross-session locking.
type Manager struct {
	cfg      Config
	log      zerolog.Logger
	sessions safemap.Safemap[string, *Session]
}

func NewManager(cfg Config, log zerolog.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		log:      log,
		sessions: safemap.New[string, *Session](),
	}
}

// Create opens a new session bound to the given broadcaster.
func (h *Manager) Create(out Broadcaster) *Session {
	s := New(h.cfg, out, h.log)
	h.sessions.Set(s.ID.String(), s)
	h.log.Info().Str("session", s.ID.String()).Int("total", h.sessions.Count()).Msg("session created")
	return s
}

func (h *Manager) Get(id string) (*Session, bool) {
	return h.sessions.Get(id)
}

func (h *Manager) Remove(id string) {
	h.sessions.Delete(id)
	h.log.Info().Str("session", id).Int("total", h.sessions.Count()).Msg("session removed")
}

func (h *Manager) Count() int {
	return h.sessions.Count()
}
