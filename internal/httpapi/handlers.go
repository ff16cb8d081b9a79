package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/partyrounds/backend/internal/engine"
	"github.com/partyrounds/backend/internal/hub"
	"github.com/partyrounds/backend/internal/session"
)

type createRequest struct {
	TeamName string `json:"team_name"`
	UserName string `json:"user_name"`
}

type joinRequest struct {
	GameID   string `json:"game_id"`
	TeamName string `json:"team_name"`
	UserName string `json:"user_name"`
}

type gameResponse struct {
	GameID string `json:"game_id"`
	Team   string `json:"team"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// rosterAdd asks the session actor to roster (team, name). A session
// that stops while we wait reads as not found; without the Done select,
// a join racing the last disconnect would block forever.
func rosterAdd(sess *session.Session, team, name string, role engine.Role) error {
	reply := make(chan error, 1)
	select {
	case sess.Inbox() <- session.AddPlayer{TeamName: team, Identity: name, Role: role, Reply: reply}:
	case <-sess.Done():
		return engine.ErrNotFound
	}
	select {
	case err := <-reply:
		return err
	case <-sess.Done():
		// The actor may have replied in the same instant it stopped.
		select {
		case err := <-reply:
			return err
		default:
			return engine.ErrNotFound
		}
	}
}

// CreateGame registers a fresh session with one team whose creator is
// the leader, the only identity allowed to start the game.
func CreateGame(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}
		team := strings.TrimSpace(req.TeamName)
		name := strings.TrimSpace(req.UserName)
		if !engine.ValidName(team) || !engine.ValidName(name) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "team and user names must be 2-20 characters"})
			return
		}

		reply := make(chan hub.Created, 1)
		h.Inbox() <- hub.CreateSession{Reply: reply}
		created := <-reply
		if created.Session == nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to create game"})
			return
		}

		if err := rosterAdd(created.Session, team, name, engine.RoleLeader); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		log.Info("game created",
			zap.String("code", created.Code), zap.String("team", team), zap.String("leader", name))
		writeJSON(w, http.StatusCreated, gameResponse{GameID: created.Code, Team: team})
	}
}

// JoinGame appends a player to a team of an existing lobby-phase session.
func JoinGame(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req joinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}
		code := strings.ToUpper(strings.TrimSpace(req.GameID))
		team := strings.TrimSpace(req.TeamName)
		name := strings.TrimSpace(req.UserName)
		if !engine.ValidName(team) || !engine.ValidName(name) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "team and user names must be 2-20 characters"})
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		sess := <-reply
		if sess == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "game not found"})
			return
		}

		if err := rosterAdd(sess, team, name, engine.RolePlayer); err != nil {
			switch {
			case errors.Is(err, engine.ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "game not found"})
			case errors.Is(err, engine.ErrInvalidPhase):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "game has already started"})
			default:
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			}
			return
		}

		log.Info("player joined game",
			zap.String("code", code), zap.String("team", team), zap.String("player", name))
		writeJSON(w, http.StatusOK, gameResponse{GameID: code, Team: team})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
