package engine

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidArgument = errors.New("invalid argument")
var ErrNotFound = errors.New("not found")
var ErrUnauthorized = errors.New("unauthorized")
var ErrInvalidPhase = errors.New("invalid phase")
var ErrNotYourTurn = errors.New("not your turn")
var ErrDrawerTaken = errors.New("drawing already in progress")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhaseTrivia  Phase = "trivia"
	PhaseDrawing Phase = "drawing"
	PhaseListing Phase = "listing"
	PhaseJudging Phase = "judging"
)

type Role string

const (
	RoleLeader Role = "leader"
	RolePlayer Role = "player"
)

type Player struct {
	Name string
	Role Role
}

// Team order is insertion order; judge rotation depends on it.
type Team struct {
	Name    string
	Players []Player
}

// State is the full per-session game state. It is owned by a single
// session actor; Apply and the Arm* transitions are only ever called
// from that actor's loop, so the shallow copy + in-place map mutation
// style is safe here.
type State struct {
	Phase  Phase
	Round  int
	Teams  []Team
	Scores map[string]int
	Data   PhaseData // exactly one variant, matching Phase; nil in lobby
}

// PhaseData is a tagged union: the live variant always matches State.Phase.
type PhaseData interface{ isPhaseData() }

type TriviaData struct {
	Question   string
	Answer     string
	Category   string
	TimeLimit  int
	BuzzHolder string // "" means buzzing is open
	Answers    map[string]string
}

type DrawingData struct {
	Drawer    string // "" until someone self-assigns
	Word      string
	Hint      string
	TimeLimit int
	Guesses   map[string]string
}

type Category struct {
	Name string
	Hint string
}

type ListingData struct {
	Letter      string
	Categories  []Category
	TimeLimit   int
	Submissions map[string][]string
	Order       []string // submission arrival order, the dedup iteration order
	Closed      bool
}

type JudgingData struct {
	Prompt      string
	Judge       string
	Cards       []string
	TimeLimit   int
	Submissions map[string]string
	VotingOpen  bool
}

func (*TriviaData) isPhaseData()  {}
func (*DrawingData) isPhaseData() {}
func (*ListingData) isPhaseData() {}
func (*JudgingData) isPhaseData() {}

type CommandType string

const (
	CmdStartGame    CommandType = "StartGame"
	CmdBuzz         CommandType = "Buzz"
	CmdAnswer       CommandType = "Answer"
	CmdStartDrawing CommandType = "StartDrawing"
	CmdStroke       CommandType = "Stroke"
	CmdGuess        CommandType = "Guess"
	CmdSubmitList   CommandType = "SubmitList"
	CmdSubmitCard   CommandType = "SubmitCard"
	CmdVote         CommandType = "Vote"
)

type Command struct {
	Type     CommandType
	Identity string
	Text     string   // answer / guess / card text
	Words    []string // listing submission
	Winner   string   // vote target
	// Word and Hint are attached by the session actor for StartDrawing,
	// fetched from the content provider before the command is applied.
	Word   string
	Hint   string
	Stroke json.RawMessage // relayed verbatim, never inspected
}

type EventType string

const (
	EvtRosterChanged EventType = "RosterChanged"
	EvtPhaseStarted  EventType = "PhaseStarted"
	// EvtPhaseAdvanced is actor-internal: the new phase needs content
	// before it can be armed via the matching Arm* call.
	EvtPhaseAdvanced EventType = "PhaseAdvanced"
	EvtBuzzAccepted  EventType = "BuzzAccepted"
	EvtAnswerResult  EventType = "AnswerResult"
	EvtDrawStarted   EventType = "DrawStarted"
	EvtStrokeRelayed EventType = "StrokeRelayed"
	EvtGuessResult   EventType = "GuessResult"
	EvtListSubmitted EventType = "ListSubmitted"
	// EvtListingClosed is actor-internal: the submission barrier crossed,
	// ResolveListing must run next.
	EvtListingClosed EventType = "ListingClosed"
	EvtListResult    EventType = "ListResult"
	EvtJudgeChanged  EventType = "JudgeChanged"
	EvtCardSubmitted EventType = "CardSubmitted"
	EvtVotingOpened  EventType = "VotingOpened"
	EvtVoteResult    EventType = "VoteResult"
)

// Event carries everything the session actor needs to broadcast.
// To restricts delivery to one identity; Except excludes one identity;
// both empty means the whole room.
type Event struct {
	Type        EventType
	Phase       Phase
	Identity    string
	Correct     bool
	Text        string
	Word        string
	Hint        string
	Letter      string
	Question    string
	Category    string
	Prompt      string
	Judge       string
	Cards       []string
	Categories  []Category
	TimeLimit   int
	Teams       map[string][]string
	Scores      map[string]int
	Lists       map[string][]string
	Submissions map[string]string
	Stroke      json.RawMessage
	To          string
	Except      string
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Apply validates cmd against the current phase and mutates session state.
// Peer-facing actions that miss their window (a stray buzz, a late stroke)
// degrade to silent no-ops; authorization and ownership violations return
// sentinel errors the caller surfaces to the offending connection only.
func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdStartGame:
		if s.Phase != PhaseLobby {
			return nil, s, ErrInvalidPhase
		}
		if !IsLeader(s, cmd.Identity) {
			return nil, s, ErrUnauthorized
		}
		ns := s
		ns.Phase = PhaseTrivia
		ns.Data = nil
		return []Event{{Type: EvtPhaseAdvanced, Phase: PhaseTrivia}}, ns, nil

	case CmdBuzz:
		td, ok := s.Data.(*TriviaData)
		if s.Phase != PhaseTrivia || !ok {
			return nil, s, nil
		}
		// First-writer-wins: losers observe the holder already set.
		if td.BuzzHolder != "" {
			return nil, s, nil
		}
		td.BuzzHolder = cmd.Identity
		return []Event{{Type: EvtBuzzAccepted, Identity: cmd.Identity}}, s, nil

	case CmdAnswer:
		td, ok := s.Data.(*TriviaData)
		if s.Phase != PhaseTrivia || !ok {
			return nil, s, ErrInvalidPhase
		}
		if td.BuzzHolder != cmd.Identity {
			return nil, s, ErrNotYourTurn
		}
		given := normalize(cmd.Text)
		td.Answers[cmd.Identity] = given
		if given != normalize(td.Answer) {
			// Re-open buzzing for everyone.
			td.BuzzHolder = ""
			return []Event{{Type: EvtAnswerResult, Identity: cmd.Identity, Correct: false, Text: given}}, s, nil
		}
		ns := s
		if team, ok := TeamOf(ns, cmd.Identity); ok {
			ns = Credit(ns, team, TriviaPoints)
		}
		ns.Phase = PhaseDrawing
		ns.Round++
		ns.Data = &DrawingData{TimeLimit: DrawingTimeLimit, Guesses: map[string]string{}}
		events := []Event{
			{Type: EvtAnswerResult, Identity: cmd.Identity, Correct: true, Text: given, Scores: ScoresView(ns)},
			{Type: EvtPhaseStarted, Phase: PhaseDrawing, TimeLimit: DrawingTimeLimit},
		}
		return events, ns, nil

	case CmdStartDrawing:
		dd, ok := s.Data.(*DrawingData)
		if s.Phase != PhaseDrawing || !ok {
			return nil, s, nil
		}
		if dd.Drawer != "" {
			return nil, s, ErrDrawerTaken
		}
		if _, ok := TeamOf(s, cmd.Identity); !ok {
			return nil, s, nil
		}
		dd.Drawer = cmd.Identity
		dd.Word = cmd.Word
		dd.Hint = cmd.Hint
		// The literal word only goes to the drawer's own connection.
		events := []Event{
			{Type: EvtDrawStarted, Identity: cmd.Identity, Word: MaskedWord, Hint: cmd.Hint, TimeLimit: dd.TimeLimit, Except: cmd.Identity},
			{Type: EvtDrawStarted, Identity: cmd.Identity, Word: cmd.Word, Hint: cmd.Hint, TimeLimit: dd.TimeLimit, To: cmd.Identity},
		}
		return events, s, nil

	case CmdStroke:
		dd, ok := s.Data.(*DrawingData)
		if s.Phase != PhaseDrawing || !ok || dd.Drawer != cmd.Identity {
			return nil, s, nil
		}
		return []Event{{Type: EvtStrokeRelayed, Identity: cmd.Identity, Stroke: cmd.Stroke, Except: cmd.Identity}}, s, nil

	case CmdGuess:
		dd, ok := s.Data.(*DrawingData)
		if s.Phase != PhaseDrawing || !ok || dd.Drawer == "" {
			return nil, s, nil
		}
		if cmd.Identity == dd.Drawer {
			return nil, s, nil
		}
		guess := normalize(cmd.Text)
		dd.Guesses[cmd.Identity] = guess
		if guess != normalize(dd.Word) {
			// Incorrect guesses are public, chat-style.
			return []Event{{Type: EvtGuessResult, Identity: cmd.Identity, Correct: false, Text: guess}}, s, nil
		}
		ns := s
		if team, ok := TeamOf(ns, cmd.Identity); ok {
			ns = Credit(ns, team, DrawingPoints)
		}
		ns.Phase = PhaseListing
		ns.Data = nil
		events := []Event{
			{Type: EvtGuessResult, Identity: cmd.Identity, Correct: true, Word: dd.Word, Scores: ScoresView(ns)},
			{Type: EvtPhaseAdvanced, Phase: PhaseListing},
		}
		return events, ns, nil

	case CmdSubmitList:
		ld, ok := s.Data.(*ListingData)
		if s.Phase != PhaseListing || !ok || ld.Closed {
			return nil, s, nil
		}
		if len(cmd.Words) > len(ld.Categories) {
			return nil, s, ErrInvalidArgument
		}
		words := make([]string, 0, len(cmd.Words))
		for _, w := range cmd.Words {
			if w = strings.TrimSpace(w); w != "" {
				words = append(words, w)
			}
		}
		if _, seen := ld.Submissions[cmd.Identity]; !seen {
			ld.Order = append(ld.Order, cmd.Identity)
		}
		ld.Submissions[cmd.Identity] = words
		events := []Event{{Type: EvtListSubmitted, Identity: cmd.Identity}}
		if len(ld.Submissions) >= TotalPlayers(s) {
			ld.Closed = true
			events = append(events, Event{Type: EvtListingClosed})
		}
		return events, s, nil

	case CmdSubmitCard:
		jd, ok := s.Data.(*JudgingData)
		if s.Phase != PhaseJudging || !ok || cmd.Identity == jd.Judge {
			return nil, s, nil
		}
		if jd.VotingOpen {
			return nil, s, ErrInvalidPhase
		}
		jd.Submissions[cmd.Identity] = strings.TrimSpace(cmd.Text)
		events := []Event{{Type: EvtCardSubmitted, Identity: cmd.Identity}}
		if len(jd.Submissions) >= TotalPlayers(s)-1 {
			jd.VotingOpen = true
			events = append(events, Event{
				Type:        EvtVotingOpened,
				Prompt:      jd.Prompt,
				Submissions: copySubmissions(jd.Submissions),
			})
		}
		return events, s, nil

	case CmdVote:
		jd, ok := s.Data.(*JudgingData)
		if s.Phase != PhaseJudging || !ok {
			return nil, s, ErrInvalidPhase
		}
		if cmd.Identity != jd.Judge {
			return nil, s, ErrUnauthorized
		}
		card, ok := jd.Submissions[cmd.Winner]
		if !ok {
			return nil, s, ErrInvalidArgument
		}
		ns := s
		if team, ok := TeamOf(ns, cmd.Winner); ok {
			ns = Credit(ns, team, JudgingPoints)
		}
		ns.Phase = PhaseTrivia
		ns.Data = nil
		events := []Event{
			{Type: EvtVoteResult, Identity: cmd.Winner, Text: card, Scores: ScoresView(ns)},
			{Type: EvtPhaseAdvanced, Phase: PhaseTrivia},
		}
		return events, ns, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func copySubmissions(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
