package analysis

import (
	"fmt"
	"strings"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

// ReferenceReport lists player rows whose episode does not exist and
// episode keys that occur more than once.
type ReferenceReport struct {
	Missing    []models.EpisodeKey
	Duplicates []models.EpisodeKey
	// Per series, episodes inferred from player dates vs episode rows
	CountMismatches map[int][2]int
}

// OK reports whether every player maps to exactly one episode
func (r ReferenceReport) OK() bool {
	return len(r.Missing) == 0 && len(r.Duplicates) == 0
}

func (r ReferenceReport) Error() string {
	var parts []string
	if len(r.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d players reference missing episodes (first %s)", len(r.Missing), r.Missing[0]))
	}
	if len(r.Duplicates) > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate episodes (first %s)", len(r.Duplicates), r.Duplicates[0]))
	}
	return strings.Join(parts, "; ")
}

// ValidateReferences checks the player to episode relationship
func ValidateReferences(players []models.PlayerResult, episodes []models.EpisodeResult) ReferenceReport {
	var report ReferenceReport

	seen := make(map[models.EpisodeKey]int, len(episodes))
	rowsPerSeries := map[int]int{}
	for _, e := range episodes {
		seen[e.Key()]++
		if seen[e.Key()] == 2 {
			report.Duplicates = append(report.Duplicates, e.Key())
		}
		rowsPerSeries[e.Series]++
	}

	missing := map[models.EpisodeKey]bool{}
	groupedPerSeries := map[int]int{}
	for _, p := range players {
		if p.Episode > groupedPerSeries[p.Series] {
			groupedPerSeries[p.Series] = p.Episode
		}
		if seen[p.Key()] == 0 && !missing[p.Key()] {
			missing[p.Key()] = true
			report.Missing = append(report.Missing, p.Key())
		}
	}

	for series, grouped := range groupedPerSeries {
		if rows := rowsPerSeries[series]; rows != grouped {
			if report.CountMismatches == nil {
				report.CountMismatches = map[int][2]int{}
			}
			report.CountMismatches[series] = [2]int{grouped, rows}
		}
	}
	return report
}
