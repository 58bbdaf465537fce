package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Nomadcxx/sportwatch/internal/dictionary"
	"github.com/Nomadcxx/sportwatch/internal/normalize"
	"github.com/Nomadcxx/sportwatch/internal/paths"
	"github.com/spf13/viper"
)

// Sport is one per-sport override document, loaded from a YAML file under
// the sports directory. Leagues and wildcards are ordered lists because
// declaration order breaks dictionary-match ties.
type Sport struct {
	// Name identifies the sport ("wrestling", "football"). Derived from
	// the filename when the document omits it.
	Name string `mapstructure:"name"`

	// Leagues maps alias spellings to canonical league names.
	Leagues []LeagueEntry `mapstructure:"leagues"`

	// LeaguePatterns are regexes tried against the filename before the
	// alias table; a capture group 1, when present, names the league.
	LeaguePatterns []string `mapstructure:"league_patterns"`

	// Events maps alias spellings to canonical event names.
	Events []LeagueEntry `mapstructure:"events"`

	// EventPatterns are regexes for event names not worth a full alias
	// entry; matches resolve at lower confidence than wildcards.
	EventPatterns []string `mapstructure:"event_patterns"`

	// Wildcards are curated rules matched by substring; the first rule
	// whose every substring appears in the filename wins.
	Wildcards []WildcardRule `mapstructure:"wildcards"`

	// Substitutions and Filters extend the global normalization rules;
	// sport rules run before global ones.
	Substitutions []normalize.Rule `mapstructure:"substitutions"`
	Filters       []string         `mapstructure:"filters"`

	// SingleSeason forces season_name to the league name itself for
	// promotions without yearly seasons.
	SingleSeason bool `mapstructure:"single_season"`
}

// LeagueEntry pairs a canonical name with its alias spellings.
type LeagueEntry struct {
	Name    string   `mapstructure:"name"`
	Aliases []string `mapstructure:"aliases"`
}

// WildcardRule is a curated override: when every Contains substring appears
// in the (case-insensitively compared) filename, the rule's attributes are
// applied over whatever the generic stages produced.
type WildcardRule struct {
	Contains []string      `mapstructure:"contains"`
	Set      WildcardAttrs `mapstructure:"set"`
}

// WildcardAttrs is the sparse attribute set a wildcard can force. Empty
// strings mean "leave the slot alone".
type WildcardAttrs struct {
	LeagueName   string `mapstructure:"league_name"`
	EventName    string `mapstructure:"event_name"`
	SeasonName   string `mapstructure:"season_name"`
	EpisodeTitle string `mapstructure:"episode_title"`
	SingleSeason bool   `mapstructure:"single_season"`
	// RemoveFromFilename lists literal fragments excised from the working
	// name before the residual-title step.
	RemoveFromFilename []string `mapstructure:"remove_from_filename"`
}

// LeagueTable converts the ordered league entries into a dictionary table.
func (s *Sport) LeagueTable() dictionary.Table {
	return entriesToTable(s.Leagues)
}

// EventTable converts the ordered event entries into a dictionary table.
func (s *Sport) EventTable() dictionary.Table {
	return entriesToTable(s.Events)
}

func entriesToTable(entries []LeagueEntry) dictionary.Table {
	table := make(dictionary.Table, 0, len(entries))
	for _, e := range entries {
		table = append(table, dictionary.Entry{Canonical: e.Name, Aliases: e.Aliases})
	}
	return table
}

// Validate rejects documents the resolver cannot run with: every pattern
// must compile and every league entry needs a canonical name. Called at
// startup; failures are fatal.
func (s *Sport) Validate() error {
	for i, entry := range s.Leagues {
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("sport %s: leagues[%d] has no name", s.Name, i)
		}
	}
	for i, entry := range s.Events {
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("sport %s: events[%d] has no name", s.Name, i)
		}
	}
	for _, pattern := range s.LeaguePatterns {
		if _, err := regexp.Compile("(?i)" + pattern); err != nil {
			return fmt.Errorf("sport %s: league pattern %q: %w", s.Name, pattern, err)
		}
	}
	for _, pattern := range s.EventPatterns {
		if _, err := regexp.Compile("(?i)" + pattern); err != nil {
			return fmt.Errorf("sport %s: event pattern %q: %w", s.Name, pattern, err)
		}
	}
	if _, err := normalize.NewEngine(s.Substitutions, s.Filters); err != nil {
		return fmt.Errorf("sport %s: %w", s.Name, err)
	}
	for i, rule := range s.Wildcards {
		if len(rule.Contains) == 0 {
			return fmt.Errorf("sport %s: wildcards[%d] has no contains terms", s.Name, i)
		}
	}
	return nil
}

// LoadSports loads every per-sport document from the default directory.
// A missing directory is not an error; an invalid document is.
func LoadSports() ([]Sport, error) {
	dir, err := paths.SportsDir()
	if err != nil {
		return nil, fmt.Errorf("unable to get sports dir: %w", err)
	}
	return LoadSportsFrom(dir)
}

// LoadSportsFrom loads per-sport documents from dir, sorted by filename so
// load order is deterministic.
func LoadSportsFrom(dir string) ([]Sport, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read sports dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	sports := make([]Sport, 0, len(files))
	for _, name := range files {
		sport, err := LoadSport(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		sports = append(sports, *sport)
	}
	return sports, nil
}

// LoadSport loads and validates a single per-sport document.
func LoadSport(path string) (*Sport, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read sport file %s: %w", path, err)
	}

	var sport Sport
	if err := v.Unmarshal(&sport); err != nil {
		return nil, fmt.Errorf("unable to unmarshal sport file %s: %w", path, err)
	}

	if sport.Name == "" {
		base := filepath.Base(path)
		sport.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if err := sport.Validate(); err != nil {
		return nil, err
	}
	return &sport, nil
}
