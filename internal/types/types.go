package types

import (
	"encoding/json"

	"github.com/partyrounds/backend/internal/engine"
)

// ClientMessage is the inbound event envelope. Type selects the action;
// the remaining fields are per-type payloads.
//
//	join:         team, identity
//	start:        -
//	buzz:         -
//	answer:       text
//	startDrawing: -
//	strokeUpdate: points
//	guess:        text
//	listSubmit:   words
//	cardSubmit:   card
//	vote:         winner
type ClientMessage struct {
	Type     string          `json:"type"`
	Team     string          `json:"team,omitempty"`
	Identity string          `json:"identity,omitempty"`
	Text     string          `json:"text,omitempty"`
	Words    []string        `json:"words,omitempty"`
	Card     string          `json:"card,omitempty"`
	Winner   string          `json:"winner,omitempty"`
	Points   json.RawMessage `json:"points,omitempty"`
}

type Category struct {
	Category string `json:"category"`
	Hint     string `json:"hint"`
}

// ServerMessage is the outbound event envelope: rosterChanged, phaseStart,
// buzzAccepted, answerResult, drawStart, strokeRelay, guessResult,
// submissionReceived, listResult, votingOpen, voteResult, error.
type ServerMessage struct {
	Type        string              `json:"type"`
	Phase       string              `json:"phase,omitempty"`
	Identity    string              `json:"identity,omitempty"`
	// Correct is always serialized: an incorrect result must read as an
	// explicit false, not an absent field.
	Correct     bool                `json:"correct"`
	Text        string              `json:"text,omitempty"`
	Word        string              `json:"word,omitempty"`
	Hint        string              `json:"hint,omitempty"`
	Letter      string              `json:"letter,omitempty"`
	Question    string              `json:"question,omitempty"`
	Category    string              `json:"category,omitempty"`
	Prompt      string              `json:"prompt,omitempty"`
	Judge       string              `json:"judge,omitempty"`
	Cards       []string            `json:"cards,omitempty"`
	Categories  []Category          `json:"categories,omitempty"`
	TimeLimit   int                 `json:"time_limit,omitempty"`
	Teams       map[string][]string `json:"teams,omitempty"`
	Scores      map[string]int      `json:"scores,omitempty"`
	Lists       map[string][]string `json:"lists,omitempty"`
	Submissions map[string]string   `json:"submissions,omitempty"`
	Points      json.RawMessage     `json:"points,omitempty"`
	Error       string              `json:"error,omitempty"`
}

var wireNames = map[engine.EventType]string{
	engine.EvtRosterChanged: "rosterChanged",
	engine.EvtPhaseStarted:  "phaseStart",
	engine.EvtBuzzAccepted:  "buzzAccepted",
	engine.EvtAnswerResult:  "answerResult",
	engine.EvtDrawStarted:   "drawStart",
	engine.EvtStrokeRelayed: "strokeRelay",
	engine.EvtGuessResult:   "guessResult",
	engine.EvtListSubmitted: "submissionReceived",
	engine.EvtCardSubmitted: "submissionReceived",
	engine.EvtListResult:    "listResult",
	engine.EvtJudgeChanged:  "judgeChanged",
	engine.EvtVotingOpened:  "votingOpen",
	engine.EvtVoteResult:    "voteResult",
}

// FromEvent converts an engine event into its wire form. Actor-internal
// events have no wire name and must never reach this function.
func FromEvent(ev engine.Event) ServerMessage {
	msg := ServerMessage{
		Type:        wireNames[ev.Type],
		Phase:       string(ev.Phase),
		Identity:    ev.Identity,
		Correct:     ev.Correct,
		Text:        ev.Text,
		Word:        ev.Word,
		Hint:        ev.Hint,
		Letter:      ev.Letter,
		Question:    ev.Question,
		Category:    ev.Category,
		Prompt:      ev.Prompt,
		Judge:       ev.Judge,
		Cards:       ev.Cards,
		TimeLimit:   ev.TimeLimit,
		Teams:       ev.Teams,
		Scores:      ev.Scores,
		Lists:       ev.Lists,
		Submissions: ev.Submissions,
		Points:      ev.Stroke,
	}
	for _, c := range ev.Categories {
		msg.Categories = append(msg.Categories, Category{Category: c.Name, Hint: c.Hint})
	}
	return msg
}

// ErrorMessage wraps a rejection for the offending connection only.
func ErrorMessage(err error) ServerMessage {
	return ServerMessage{Type: "error", Error: err.Error()}
}
