package hub

import (
	"context"
	"crypto/rand"
	"math/big"

	"go.uber.org/zap"

	"github.com/partyrounds/backend/internal/content"
	"github.com/partyrounds/backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

// CreateSession registers a new session under a freshly generated code.
type CreateSession struct {
	Reply chan Created
}

type Created struct {
	Code    string
	Session *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type RemoveSession struct {
	Code string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Hub owns the set of live sessions keyed by code. All access goes
// through the inbox; raw map access is never exposed.
type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	provider content.Provider
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, provider content.Provider, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		provider: provider,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode returns a 6-character uppercase alphanumeric session code.
func GenerateCode() (string, error) {
	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code), nil
}

// newCode re-rolls until the code is unique among live sessions.
func (h *Hub) newCode() (string, error) {
	for {
		code, err := GenerateCode()
		if err != nil {
			return "", err
		}
		if _, taken := h.sessions[code]; !taken {
			return code, nil
		}
		h.log.Debug("session code collision, regenerating")
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				code, err := h.newCode()
				if err != nil {
					h.log.Error("session code generation failed", zap.Error(err))
					msg.Reply <- Created{}
					break
				}
				sess := session.New(h.ctx, code, h.provider, h.log, func() {
					h.inbox <- RemoveSession{Code: code}
				})
				h.sessions[code] = sess
				h.log.Info("session created", zap.String("code", code))
				msg.Reply <- Created{Code: code, Session: sess}

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // may be nil

			case RemoveSession:
				if _, ok := h.sessions[msg.Code]; ok {
					delete(h.sessions, msg.Code)
					h.log.Info("session removed", zap.String("code", msg.Code))
				}

			case ShutdownHub:
				for _, sess := range h.sessions {
					sess.Inbox() <- session.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
			}
		}
	}
}
