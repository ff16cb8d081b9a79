package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partyrounds/backend/internal/engine"
)

func TestFromEvent_WireNames(t *testing.T) {
	cases := []struct {
		evt  engine.EventType
		wire string
	}{
		{engine.EvtRosterChanged, "rosterChanged"},
		{engine.EvtPhaseStarted, "phaseStart"},
		{engine.EvtBuzzAccepted, "buzzAccepted"},
		{engine.EvtAnswerResult, "answerResult"},
		{engine.EvtDrawStarted, "drawStart"},
		{engine.EvtStrokeRelayed, "strokeRelay"},
		{engine.EvtGuessResult, "guessResult"},
		{engine.EvtListSubmitted, "submissionReceived"},
		{engine.EvtCardSubmitted, "submissionReceived"},
		{engine.EvtListResult, "listResult"},
		{engine.EvtJudgeChanged, "judgeChanged"},
		{engine.EvtVotingOpened, "votingOpen"},
		{engine.EvtVoteResult, "voteResult"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.wire, FromEvent(engine.Event{Type: tc.evt}).Type, string(tc.evt))
	}
}

func TestFromEvent_Categories(t *testing.T) {
	msg := FromEvent(engine.Event{
		Type:       engine.EvtPhaseStarted,
		Phase:      engine.PhaseListing,
		Letter:     "B",
		Categories: []engine.Category{{Name: "Animals", Hint: "In a zoo"}},
	})
	assert.Equal(t, "listing", msg.Phase)
	assert.Equal(t, []Category{{Category: "Animals", Hint: "In a zoo"}}, msg.Categories)
}

// An incorrect result must serialize an explicit false, never omit the
// field.
func TestFromEvent_IncorrectResultKeepsCorrectField(t *testing.T) {
	data, err := json.Marshal(FromEvent(engine.Event{
		Type:     engine.EvtAnswerResult,
		Identity: "bea",
		Correct:  false,
	}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"correct":false`)
}

func TestErrorMessage(t *testing.T) {
	msg := ErrorMessage(errors.New("not your turn"))
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "not your turn", msg.Error)
}
