package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPlayer(t *testing.T) {
	cases := []struct {
		name     string
		state    State
		team     string
		identity string
		wantErr  error
	}{
		{name: "creates team", state: NewLobbyState(), team: "alpha", identity: "alice"},
		{name: "joins existing team", state: twoTeamState(PhaseLobby), team: "beta", identity: "carol"},
		{name: "team name too short", state: NewLobbyState(), team: "a", identity: "alice", wantErr: ErrInvalidArgument},
		{name: "identity too long", state: NewLobbyState(), team: "alpha", identity: "abcdefghijklmnopqrstu", wantErr: ErrInvalidArgument},
		{name: "blank identity", state: NewLobbyState(), team: "alpha", identity: "   ", wantErr: ErrInvalidArgument},
		{name: "identity on another team", state: twoTeamState(PhaseLobby), team: "beta", identity: "alice", wantErr: ErrInvalidArgument},
		{name: "game already started", state: triviaState(), team: "alpha", identity: "carol", wantErr: ErrInvalidPhase},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, ns, err := AddPlayer(tc.state, tc.team, tc.identity, RolePlayer)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			team, ok := TeamOf(ns, tc.identity)
			require.True(t, ok)
			assert.Equal(t, tc.team, team)
			require.Len(t, events, 1)
			assert.Equal(t, EvtRosterChanged, events[0].Type)
			assert.Contains(t, events[0].Teams[tc.team], tc.identity)
		})
	}
}

func TestAddPlayer_TrimsNames(t *testing.T) {
	_, ns, err := AddPlayer(NewLobbyState(), " alpha ", " alice ", RoleLeader)
	require.NoError(t, err)
	assert.True(t, HasTeam(ns, "alpha"))
	assert.True(t, IsLeader(ns, "alice"))
}

func TestAddPlayer_DoesNotMutateInput(t *testing.T) {
	s := twoTeamState(PhaseLobby)
	_, _, err := AddPlayer(s, "alpha", "carol", RolePlayer)
	require.NoError(t, err)
	assert.Len(t, s.Teams[0].Players, 2)
}

func TestRemovePlayer(t *testing.T) {
	s := twoTeamState(PhaseLobby)

	events, s, empty := RemovePlayer(s, "alpha", "adam")
	require.False(t, empty)
	assert.Equal(t, []string{"alice"}, RosterView(s)["alpha"])
	require.Len(t, events, 1)
	assert.Equal(t, EvtRosterChanged, events[0].Type)

	// Last member out removes the team.
	_, s, empty = RemovePlayer(s, "alpha", "alice")
	require.False(t, empty)
	assert.False(t, HasTeam(s, "alpha"))

	_, s, _ = RemovePlayer(s, "beta", "bea")

	// Last team out signals the session must die; no roster event goes out.
	events, s, empty = RemovePlayer(s, "beta", "ben")
	assert.True(t, empty)
	assert.Empty(t, events)
	assert.Empty(t, s.Teams)
}

func TestRemovePlayer_UnknownTeam(t *testing.T) {
	s := twoTeamState(PhaseLobby)
	_, ns, empty := RemovePlayer(s, "gamma", "alice")
	assert.False(t, empty)
	assert.Equal(t, 4, TotalPlayers(ns))
}

func TestRemovePlayer_DuplicateIdentityRemovesOne(t *testing.T) {
	s := NewLobbyState()
	_, s, err := AddPlayer(s, "alpha", "alice", RoleLeader)
	require.NoError(t, err)
	_, s, err = AddPlayer(s, "alpha", "alice", RolePlayer)
	require.NoError(t, err)

	_, s, empty := RemovePlayer(s, "alpha", "alice")
	assert.False(t, empty)
	assert.Equal(t, 1, TotalPlayers(s))
}

func TestCredit(t *testing.T) {
	s := twoTeamState(PhaseLobby)

	s = Credit(s, "alpha", TriviaPoints)
	s = Credit(s, "alpha", DrawingPoints)
	assert.Equal(t, TriviaPoints+DrawingPoints, s.Scores["alpha"])

	// Non-positive deltas never move the scoreboard.
	s = Credit(s, "alpha", 0)
	s = Credit(s, "alpha", -5)
	assert.Equal(t, TriviaPoints+DrawingPoints, s.Scores["alpha"])
}

func TestScoresView_ImplicitZero(t *testing.T) {
	s := twoTeamState(PhaseLobby)
	s = Credit(s, "alpha", 10)

	view := ScoresView(s)
	assert.Equal(t, map[string]int{"alpha": 10, "beta": 0}, view)
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("ab"))
	assert.True(t, ValidName("  ab  "))
	assert.False(t, ValidName("a"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("abcdefghijklmnopqrstu"))
}
