package engine

import (
	"strings"
	"unicode/utf8"
)

// Team and identity names must be 2-20 characters after trimming.
const (
	MinNameLen = 2
	MaxNameLen = 20
)

func NewLobbyState() State {
	return State{Phase: PhaseLobby, Scores: map[string]int{}}
}

func ValidName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= MinNameLen && n <= MaxNameLen
}

// AddPlayer appends identity to the named team, creating the team if
// absent. Only permitted while the session is still in the lobby.
func AddPlayer(s State, team, identity string, role Role) ([]Event, State, error) {
	if s.Phase != PhaseLobby {
		return nil, s, ErrInvalidPhase
	}
	team = strings.TrimSpace(team)
	identity = strings.TrimSpace(identity)
	if !ValidName(team) || !ValidName(identity) {
		return nil, s, ErrInvalidArgument
	}
	if other, ok := TeamOf(s, identity); ok && other != team {
		// An identity lives in at most one team per session.
		return nil, s, ErrInvalidArgument
	}
	ns := s
	ns.Teams = append([]Team(nil), s.Teams...)
	idx := teamIndex(ns, team)
	if idx < 0 {
		ns.Teams = append(ns.Teams, Team{Name: team})
		idx = len(ns.Teams) - 1
	}
	ns.Teams[idx].Players = append(append([]Player(nil), ns.Teams[idx].Players...), Player{Name: identity, Role: role})
	return []Event{RosterChanged(ns)}, ns, nil
}

// RemovePlayer drops the first roster entry matching identity from the
// named team; an emptied team is removed, and the returned bool reports
// whether the session is now teamless and must be deleted. No roster
// notification goes out for a dying session.
func RemovePlayer(s State, team, identity string) ([]Event, State, bool) {
	idx := teamIndex(s, team)
	if idx < 0 {
		return nil, s, len(s.Teams) == 0
	}
	ns := s
	ns.Teams = append([]Team(nil), s.Teams...)
	players := ns.Teams[idx].Players
	for i, p := range players {
		if p.Name == identity {
			players = append(append([]Player(nil), players[:i]...), players[i+1:]...)
			break
		}
	}
	ns.Teams[idx].Players = players
	if len(players) == 0 {
		ns.Teams = append(ns.Teams[:idx:idx], ns.Teams[idx+1:]...)
	}
	if len(ns.Teams) == 0 {
		return nil, ns, true
	}
	return []Event{RosterChanged(ns)}, ns, false
}

func teamIndex(s State, team string) int {
	for i, t := range s.Teams {
		if t.Name == team {
			return i
		}
	}
	return -1
}

func HasTeam(s State, team string) bool {
	return teamIndex(s, team) >= 0
}

// TeamOf resolves an identity back to its team name.
func TeamOf(s State, identity string) (string, bool) {
	for _, t := range s.Teams {
		for _, p := range t.Players {
			if p.Name == identity {
				return t.Name, true
			}
		}
	}
	return "", false
}

func IsLeader(s State, identity string) bool {
	for _, t := range s.Teams {
		for _, p := range t.Players {
			if p.Name == identity && p.Role == RoleLeader {
				return true
			}
		}
	}
	return false
}

func TotalPlayers(s State) int {
	n := 0
	for _, t := range s.Teams {
		n += len(t.Players)
	}
	return n
}

// RosterView maps team name to member names, in roster order.
func RosterView(s State) map[string][]string {
	out := make(map[string][]string, len(s.Teams))
	for _, t := range s.Teams {
		names := make([]string, 0, len(t.Players))
		for _, p := range t.Players {
			names = append(names, p.Name)
		}
		out[t.Name] = names
	}
	return out
}

// RosterChanged builds the roster notification for the current state.
func RosterChanged(s State) Event {
	return Event{Type: EvtRosterChanged, Teams: RosterView(s)}
}
