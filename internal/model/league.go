package model

import "strings"

// LeagueID identifies one of the selectable leagues
type LeagueID string

const (
	LeaguePremierLeague LeagueID = "premier-league"
	LeagueLaLiga        LeagueID = "la-liga"
	LeagueLigaPortugal  LeagueID = "liga-portugal"
	LeagueSerieA        LeagueID = "serie-a"
)

// LeagueOption is a static, selectable league. Identity is Name.
type LeagueOption struct {
	ID      LeagueID `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Country string   `json:"country" yaml:"country"`
	Flag    string   `json:"flag" yaml:"flag"`
	Icon    string   `json:"icon" yaml:"icon"`
}

var leagues = []LeagueOption{
	{ID: LeaguePremierLeague, Name: "Premier League", Country: "England", Flag: "🇬🇧", Icon: "🦁"},
	{ID: LeagueLaLiga, Name: "La Liga", Country: "Spain", Flag: "🇪🇸", Icon: "🐂"},
	{ID: LeagueLigaPortugal, Name: "Liga Portugal", Country: "Portugal", Flag: "🇵🇹", Icon: "🛡️"},
	{ID: LeagueSerieA, Name: "Serie A", Country: "Italy", Flag: "🇮🇹", Icon: "🏛️"},
}

// Leagues returns a copy of the selectable leagues in display order
func Leagues() []LeagueOption {
	out := make([]LeagueOption, len(leagues))
	copy(out, leagues)
	return out
}

// LookupLeague finds a league by name (case-insensitive) or by ID
func LookupLeague(name string) (LeagueOption, bool) {
	name = strings.TrimSpace(name)
	for _, l := range leagues {
		if strings.EqualFold(l.Name, name) || strings.EqualFold(string(l.ID), name) {
			return l, true
		}
	}
	return LeagueOption{}, false
}

// LeagueNames returns the display names of all leagues
func LeagueNames() []string {
	names := make([]string, 0, len(leagues))
	for _, l := range leagues {
		names = append(names, l.Name)
	}
	return names
}
