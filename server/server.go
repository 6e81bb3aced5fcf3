package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"cyberholdem/session"
)

// Server is the transport boundary: one websocket per table plus a couple
// of plain HTTP endpoints.
type Server struct {
	manager  *session.Manager
	cfg      session.Config
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewServer(manager *session.Manager, cfg session.Config, log zerolog.Logger) *Server {
	h := &Server{
		manager: manager,
		cfg:     cfg,
		log:     log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	return h
}

func (h *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/ws", h.handleWS)
	return mux
}

func (h *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Cyber Hold'em backend running",
	})
}

// handleHealth reports the AI engine status. With a session id it reports
// that table's live engine, otherwise the configured defaults.
func (h *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	engine := h.cfg.DefaultEngine
	model := ""
	var llmConnected *bool

	if id := r.URL.Query().Get("session"); id != "" {
		sess, ok := h.manager.Get(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"status": "unknown session"})
			return
		}
		engine, model, llmConnected = sess.HealthInfo(r.Context())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"engine":        engine,
		"model":         model,
		"llm_connected": llmConnected,
		"sessions":      h.manager.Count(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// eventFrame is the outbound wire format.
type eventFrame struct {
	Event   session.EventType `json:"event"`
	Payload any               `json:"payload"`
}

// commandFrame is the inbound wire format. Fields beyond Type are filled
// per command kind.
type commandFrame struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Amount int    `json:"amount"`
	Engine string `json:"engine"`
	Model  string `json:"model"`
	Locale string `json:"locale"`
}

// wsHub pushes session events onto a single websocket connection. The write
// mutex keeps the bot loop and command error replies from interleaving frames.
type wsHub struct {
	conn *websocket.Conn
	mu   sync.Mutex
	log  zerolog.Logger
}

func (h *wsHub) Emit(event session.EventType, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.conn.WriteJSON(eventFrame{Event: event, Payload: payload}); err != nil {
		h.log.Warn().Err(err).Str("event", string(event)).Msg("websocket write failed")
	}
}

// handleWS opens a fresh table per connection and pumps inbound commands.
// Commands run off the read loop so a slow bot decision cannot stall the
// socket, but through a single dispatcher goroutine so they apply in
// submission order; duplicate submissions bounce off the session's
// in-flight guard.
func (h *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	hub := &wsHub{conn: conn, log: h.log}
	sess := h.manager.Create(hub)
	log := h.log.With().Str("session", sess.ID.String()).Logger()
	log.Info().Str("remote", r.RemoteAddr).Msg("client connected")

	defer func() {
		h.manager.Remove(sess.ID.String())
		conn.Close()
		log.Info().Msg("client disconnected")
	}()

	cmds := make(chan commandFrame, 16)
	defer close(cmds)
	go func() {
		for cmd := range cmds {
			if err := h.dispatch(sess, cmd); err != nil {
				log.Warn().Err(err).Str("command", cmd.Type).Msg("command failed")
				hub.Emit(session.EVENT_ERROR, session.ErrorEvent{Message: err.Error()})
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		var cmd commandFrame
		if err := json.Unmarshal(raw, &cmd); err != nil {
			hub.Emit(session.EVENT_ERROR, session.ErrorEvent{Message: "malformed command"})
			continue
		}
		cmds <- cmd
	}
}

func (h *Server) dispatch(sess *session.Session, cmd commandFrame) error {
	switch cmd.Type {
	case "start_game":
		return sess.StartGame()
	case "player_action":
		return sess.ApplyHumanAction(cmd.Action, cmd.Amount)
	case "start_next_hand":
		return sess.StartNextHand()
	case "reset_game":
		return sess.ResetGame()
	case "request_advice":
		return sess.RequestAdvice(cmd.Engine, cmd.Model)
	case "set_llm_config":
		return sess.SetEngine(cmd.Engine, cmd.Model)
	case "set_locale":
		sess.SetLocale(cmd.Locale)
		return nil
	default:
		h.log.Warn().Str("command", cmd.Type).Msg("unknown command")
		return nil
	}
}
