// Package session runs one actor goroutine per live session. Every
// mutation — roster changes, phase actions, disconnects — funnels through
// the actor's inbox, so first-writer-wins gates and submission barriers
// are decided by exactly one goroutine.
package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/partyrounds/backend/internal/content"
	"github.com/partyrounds/backend/internal/engine"
	"github.com/partyrounds/backend/internal/types"
)

type Msg interface{ isSessionMsg() }

// AddPlayer appends an identity to a team's roster (lobby only).
type AddPlayer struct {
	TeamName string
	Identity string
	Role     engine.Role
	Reply    chan error
}

// Join binds a live connection to (team, identity). The team must exist.
type Join struct {
	ConnID   string
	TeamName string
	Identity string
	Outbox   chan types.ServerMessage
	Reply    chan error
}

type Leave struct{ ConnID string }

type FromClient struct {
	ConnID string
	Msg    types.ClientMessage
}

// GetState reflects internal state without data races; test-only.
type GetState struct {
	Reply chan View
}

type Shutdown struct{}

func (AddPlayer) isSessionMsg()  {}
func (Join) isSessionMsg()       {}
func (Leave) isSessionMsg()      {}
func (FromClient) isSessionMsg() {}
func (GetState) isSessionMsg()   {}
func (Shutdown) isSessionMsg()   {}

type View struct {
	Code     string
	NumConns int
	State    engine.State
}

type binding struct {
	team     string
	identity string
	out      chan types.ServerMessage
}

type Session struct {
	inbox    chan Msg
	code     string
	state    engine.State
	conns    map[string]binding
	dropped  []binding // cut mid-broadcast, roster removal still pending
	reaping  bool
	stopped  bool
	done     chan struct{}
	provider content.Provider
	static   *content.Static
	log      *zap.Logger
	onEmpty  func()
	ctx      context.Context
	cancel   context.CancelFunc
}

// New starts the session actor. onEmpty fires once, after the last team
// disappears, so the registry can forget the code.
func New(parent context.Context, code string, provider content.Provider, log *zap.Logger, onEmpty func()) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:    make(chan Msg, 64),
		code:     code,
		state:    engine.NewLobbyState(),
		conns:    make(map[string]binding),
		done:     make(chan struct{}),
		provider: provider,
		static:   content.NewStatic(),
		log:      log.With(zap.String("session", code)),
		onEmpty:  onEmpty,
		ctx:      ctx,
		cancel:   cancel,
	}
	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done closes once the actor stops servicing its inbox. Any caller that
// enqueues a message and waits on a Reply must select against it, or a
// request racing the last disconnect blocks forever.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			s.handle(m)
			if s.stopped {
				return
			}
		}
	}
}

func (s *Session) handle(m Msg) {
	switch msg := m.(type) {
	case AddPlayer:
		events, ns, err := engine.AddPlayer(s.state, msg.TeamName, msg.Identity, msg.Role)
		if err == nil {
			s.state = ns
			s.log.Info("player joined roster",
				zap.String("team", msg.TeamName), zap.String("identity", msg.Identity))
			s.dispatch(events)
		}
		msg.Reply <- err

	case Join:
		if !engine.HasTeam(s.state, msg.TeamName) {
			msg.Reply <- engine.ErrNotFound
			return
		}
		s.conns[msg.ConnID] = binding{team: msg.TeamName, identity: msg.Identity, out: msg.Outbox}
		msg.Reply <- nil
		s.dispatch([]engine.Event{engine.RosterChanged(s.state)})

	case Leave:
		b, ok := s.conns[msg.ConnID]
		if !ok {
			// Already cut as a slow consumer and reaped.
			return
		}
		delete(s.conns, msg.ConnID)
		close(b.out)
		s.unbind(b)

	case FromClient:
		s.handleClient(msg)

	case GetState:
		msg.Reply <- View{Code: s.code, NumConns: len(s.conns), State: s.state}

	case Shutdown:
		s.shutdown()
	}
	// Error replies outside dispatch can cut a slow connection too.
	s.reap()
}

// unbind removes the roster entry behind a dead connection and settles
// whatever the shrink left behind: a crossed submission barrier, a
// stranded buzz holder, or a judging round that lost its judge.
func (s *Session) unbind(b binding) {
	events, ns, empty := engine.RemovePlayer(s.state, b.team, b.identity)
	s.state = ns
	if empty {
		s.log.Info("session emptied, shutting down")
		s.shutdown()
		s.onEmpty()
		return
	}
	events = append(events, engine.RosterShrunk(s.state)...)
	s.dispatch(events)
}

// reap runs the roster removal for connections cut mid-broadcast. The
// removal broadcasts roster updates, which can cut further connections;
// the queue drains until stable.
func (s *Session) reap() {
	if s.reaping {
		return
	}
	s.reaping = true
	defer func() { s.reaping = false }()
	for len(s.dropped) > 0 && !s.stopped {
		b := s.dropped[0]
		s.dropped = s.dropped[1:]
		s.unbind(b)
	}
}

func (s *Session) handleClient(msg FromClient) {
	b, ok := s.conns[msg.ConnID]
	if !ok {
		return
	}
	cmd, ok := toCommand(msg.Msg, b.identity)
	if !ok {
		s.sendTo(msg.ConnID, b, types.ServerMessage{Type: "error", Error: "unknown type"})
		return
	}
	if cmd.Type == engine.CmdStartDrawing {
		// Fetch the word up front; the engine stays pure and the actor
		// already knows whether the assignment can possibly succeed.
		if dd, isDrawing := s.state.Data.(*engine.DrawingData); isDrawing && dd.Drawer == "" {
			w := s.drawingWord()
			cmd.Word, cmd.Hint = w.Word, w.Hint
		}
	}
	events, ns, err := engine.Apply(s.state, cmd)
	if err != nil {
		s.log.Debug("action rejected",
			zap.String("action", string(cmd.Type)), zap.String("identity", b.identity), zap.Error(err))
		s.sendTo(msg.ConnID, b, types.ErrorMessage(err))
		return
	}
	s.state = ns
	s.dispatch(events)
}

// dispatch broadcasts outward events and expands actor-internal ones:
// PhaseAdvanced pulls content and arms the new phase, ListingClosed runs
// scoring resolution. Expansion appends to the queue so follow-up events
// retain their causal order.
func (s *Session) dispatch(events []engine.Event) {
	for i := 0; i < len(events); i++ {
		ev := events[i]
		switch ev.Type {
		case engine.EvtPhaseAdvanced:
			events = append(events, s.armPhase(ev.Phase)...)
		case engine.EvtListingClosed:
			more, ns := engine.ResolveListing(s.state, s.wordChecker())
			s.state = ns
			events = append(events, more...)
		default:
			s.broadcast(ev)
		}
	}
	s.reap()
}

func (s *Session) armPhase(p engine.Phase) []engine.Event {
	var events []engine.Event
	var ns engine.State
	switch p {
	case engine.PhaseTrivia:
		q, err := s.provider.TriviaQuestion(s.ctx)
		if err != nil {
			s.log.Warn("trivia content unavailable", zap.Error(err))
			q, _ = s.static.TriviaQuestion(s.ctx)
		}
		events, ns = engine.ArmTrivia(s.state, engine.TriviaContent{
			Question: q.Question, Answer: q.Answer, Category: q.Category,
		})
	case engine.PhaseListing:
		cats, err := s.provider.ListingCategories(s.ctx)
		if err != nil {
			s.log.Warn("listing content unavailable", zap.Error(err))
			cats, _ = s.static.ListingCategories(s.ctx)
		}
		ec := make([]engine.Category, 0, len(cats))
		for _, c := range cats {
			ec = append(ec, engine.Category{Name: c.Name, Hint: c.Hint})
		}
		events, ns = engine.ArmListing(s.state, engine.ListingContent{Categories: ec})
	case engine.PhaseJudging:
		deal, err := s.provider.JudgingDeal(s.ctx)
		if err != nil {
			s.log.Warn("judging content unavailable", zap.Error(err))
			deal, _ = s.static.JudgingDeal(s.ctx)
		}
		events, ns = engine.ArmJudging(s.state, engine.JudgingContent{Prompt: deal.Prompt, Cards: deal.Cards})
	default:
		return nil
	}
	s.state = ns
	s.log.Info("phase started", zap.String("phase", string(p)), zap.Int("round", ns.Round))
	return events
}

func (s *Session) drawingWord() content.Word {
	w, err := s.provider.DrawingWord(s.ctx)
	if err != nil {
		s.log.Warn("drawing content unavailable", zap.Error(err))
		w, _ = s.static.DrawingWord(s.ctx)
	}
	return w
}

func (s *Session) wordChecker() engine.WordChecker {
	letter := ""
	if ld, ok := s.state.Data.(*engine.ListingData); ok {
		letter = ld.Letter
	}
	return func(category, word string) bool {
		ok, err := s.provider.CheckWord(s.ctx, category, letter, word)
		if err != nil {
			ok, _ = s.static.CheckWord(s.ctx, category, letter, word)
		}
		return ok
	}
}

func toCommand(m types.ClientMessage, identity string) (engine.Command, bool) {
	switch m.Type {
	case "start":
		return engine.Command{Type: engine.CmdStartGame, Identity: identity}, true
	case "buzz":
		return engine.Command{Type: engine.CmdBuzz, Identity: identity}, true
	case "answer":
		return engine.Command{Type: engine.CmdAnswer, Identity: identity, Text: m.Text}, true
	case "startDrawing":
		return engine.Command{Type: engine.CmdStartDrawing, Identity: identity}, true
	case "strokeUpdate":
		return engine.Command{Type: engine.CmdStroke, Identity: identity, Stroke: m.Points}, true
	case "guess":
		return engine.Command{Type: engine.CmdGuess, Identity: identity, Text: m.Text}, true
	case "listSubmit":
		return engine.Command{Type: engine.CmdSubmitList, Identity: identity, Words: m.Words}, true
	case "cardSubmit":
		return engine.Command{Type: engine.CmdSubmitCard, Identity: identity, Text: m.Card}, true
	case "vote":
		return engine.Command{Type: engine.CmdVote, Identity: identity, Winner: m.Winner}, true
	default:
		return engine.Command{}, false
	}
}

func (s *Session) broadcast(ev engine.Event) {
	m := types.FromEvent(ev)
	for id, b := range s.conns {
		if ev.To != "" && b.identity != ev.To {
			continue
		}
		if ev.Except != "" && b.identity == ev.Except {
			continue
		}
		s.sendTo(id, b, m)
	}
}

// sendTo never blocks: a connection that cannot keep up is cut here and
// its roster entry is reaped once the current broadcast completes. Its
// reader observes the closed outbox; the Leave it sends later is a no-op.
func (s *Session) sendTo(id string, b binding, m types.ServerMessage) {
	select {
	case b.out <- m:
	default:
		close(b.out)
		delete(s.conns, id)
		s.dropped = append(s.dropped, b)
	}
}

func (s *Session) shutdown() {
	if s.stopped {
		return
	}
	s.stopped = true
	for id, b := range s.conns {
		close(b.out)
		delete(s.conns, id)
	}
	s.cancel()
	close(s.done)
}
