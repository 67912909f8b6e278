// Package utils provides output helpers for the chase-results-scraper
package utils

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/myusername/chase-results-scraper/pkg/analysis"
	"github.com/myusername/chase-results-scraper/pkg/models"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// DisplaySeriesSummaries prints one line per scraped series
func DisplaySeriesSummaries(w io.Writer, summaries []models.SeriesSummary) {
	t := newTable(w, "EXTRACTED SERIES")
	t.AppendHeader(table.Row{"Series", "Players", "Episodes", "From dates", "Team wins"})

	var players, episodes, wins int
	for _, s := range summaries {
		t.AppendRow(table.Row{s.Series, s.Players, s.Episodes, s.GroupedEpisodes, s.TeamWins})
		players += s.Players
		episodes += s.Episodes
		wins += s.TeamWins
	}
	t.AppendFooter(table.Row{"Total", players, episodes, "", wins})
	t.Render()
}

// DisplayOfferRates prints the head-to-head win rate per chosen offer
func DisplayOfferRates(w io.Writer, rates []analysis.Rate) {
	t := newTable(w, "HEAD-TO-HEAD WIN RATE BY OFFER")
	t.AppendHeader(table.Row{"Offer", "Players", "Home", "Win %"})
	for _, r := range rates {
		t.AppendRow(table.Row{r.Label, r.Total, r.Wins, pct(r.Percent())})
	}
	t.Render()
}

// DisplayCashBuilderRates prints the head-to-head win rate per cash-builder bucket
func DisplayCashBuilderRates(w io.Writer, buckets []analysis.Bucket, width float64) {
	t := newTable(w, "HEAD-TO-HEAD WIN RATE BY CASH BUILDER")
	t.AppendHeader(table.Row{"Cash builder", "Players", "Home", "Win %"})
	for _, b := range buckets {
		label := fmt.Sprintf("£%.0f - £%.0f", b.Low, b.Low+width-1)
		t.AppendRow(table.Row{label, b.Total, b.Wins, pct(b.Percent())})
	}
	t.Render()
}

// DisplayTeamSizeRates prints the final chase win rate per team size
func DisplayTeamSizeRates(w io.Writer, rates []analysis.TeamSizeRate) {
	t := newTable(w, "FINAL CHASE WIN RATE BY TEAM SIZE")
	t.AppendHeader(table.Row{"Players", "Episodes", "Team wins", "Win %"})
	for _, r := range rates {
		t.AppendRow(table.Row{r.Size, r.Total, r.Wins, pct(r.Percent())})
	}
	t.Render()
}

// DisplayOfferComposition prints offer choices against final chase team size
func DisplayOfferComposition(w io.Writer, c analysis.OfferComposition) {
	t := newTable(w, "OFFERS TAKEN BY FINAL CHASE TEAM SIZE")
	t.AppendHeader(table.Row{"Players", "Episodes", "Lower", "Cash builder", "Higher", "Mean offer", "Team win %"})
	for _, m := range c.BySize {
		t.AppendRow(table.Row{m.Size, m.Episodes, m.Lower, m.Middle, m.Higher, fmt.Sprintf("%+.2f", m.MeanOffer), pct(m.TeamWinRate)})
	}
	corr := "n/a"
	if !math.IsNaN(c.Correlation) {
		corr = fmt.Sprintf("%+.3f", c.Correlation)
	}
	t.AppendFooter(table.Row{"Correlation", corr, "", "", "", "", ""})
	t.Render()
}

// DisplayReferenceReport prints the result of the player to episode check
func DisplayReferenceReport(w io.Writer, r analysis.ReferenceReport) {
	if r.OK() && len(r.CountMismatches) == 0 {
		fmt.Fprintln(w, "Every player maps to exactly one episode.")
		return
	}
	t := newTable(w, "REFERENTIAL CHECK")
	t.AppendHeader(table.Row{"Problem", "Key", "Detail"})
	for _, k := range r.Missing {
		t.AppendRow(table.Row{"missing episode", k.String(), ""})
	}
	for _, k := range r.Duplicates {
		t.AppendRow(table.Row{"duplicate episode", k.String(), ""})
	}
	series := make([]int, 0, len(r.CountMismatches))
	for s := range r.CountMismatches {
		series = append(series, s)
	}
	sort.Ints(series)
	for _, s := range series {
		c := r.CountMismatches[s]
		t.AppendRow(table.Row{"episode count", fmt.Sprintf("S%02d", s), fmt.Sprintf("%d from dates, %d rows", c[0], c[1])})
	}
	t.Render()
}
