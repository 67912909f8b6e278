// Package analysis aggregates extracted results into win rates
package analysis

import (
	"math"
	"sort"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

// Rate is a win count out of a total
type Rate struct {
	Label string
	Total int
	Wins  int
}

// Percent returns the win percentage, or 0 when there are no attempts
func (r Rate) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Total) * 100
}

func offerLabel(offer int) string {
	switch offer {
	case models.OfferLower:
		return "lower"
	case models.OfferHigher:
		return "higher"
	default:
		return "cash builder"
	}
}

// WinRateByOffer returns the head-to-head win rate for each chosen offer,
// ordered higher, cash builder, lower.
func WinRateByOffer(players []models.PlayerResult) []Rate {
	offers := []int{models.OfferHigher, models.OfferMiddle, models.OfferLower}
	rates := make(map[int]*Rate, len(offers))
	for _, o := range offers {
		rates[o] = &Rate{Label: offerLabel(o)}
	}
	for _, p := range players {
		r, ok := rates[p.ChosenOffer]
		if !ok {
			continue
		}
		r.Total++
		if p.HTHWinner == models.Player {
			r.Wins++
		}
	}
	out := make([]Rate, 0, len(offers))
	for _, o := range offers {
		out = append(out, *rates[o])
	}
	return out
}

// Bucket is a win rate for cash-builder scores in [Low, Low+width)
type Bucket struct {
	Low float64
	Rate
}

// WinRateByCashBuilder buckets cash-builder scores by width pounds and
// returns the head-to-head win rate of each non-empty bucket, lowest first.
func WinRateByCashBuilder(players []models.PlayerResult, width float64) []Bucket {
	if width <= 0 {
		width = 1000
	}
	byLow := map[float64]*Bucket{}
	for _, p := range players {
		if !p.CashBuilder.Valid {
			continue
		}
		low := math.Floor(p.CashBuilder.Pounds/width) * width
		b, ok := byLow[low]
		if !ok {
			b = &Bucket{Low: low}
			byLow[low] = b
		}
		b.Total++
		if p.HTHWinner == models.Player {
			b.Wins++
		}
	}
	out := make([]Bucket, 0, len(byLow))
	for _, b := range byLow {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Low < out[j].Low })
	return out
}

// TeamSizeRate is the team's final chase win rate for a given team size
type TeamSizeRate struct {
	Size int
	Rate
}

// WinRateByTeamSize returns the final chase win rate for 0 to 4 players
func WinRateByTeamSize(episodes []models.EpisodeResult) []TeamSizeRate {
	out := make([]TeamSizeRate, 5)
	for i := range out {
		out[i].Size = i
	}
	for _, e := range episodes {
		if e.PlayersInFinalChase < 0 || e.PlayersInFinalChase >= len(out) {
			continue
		}
		r := &out[e.PlayersInFinalChase]
		r.Total++
		if e.Winner == models.Team {
			r.Wins++
		}
	}
	return out
}

// OfferMix counts the offers taken in episodes that reached the final chase
// with a given team size.
type OfferMix struct {
	Size        int
	Episodes    int
	Lower       int
	Middle      int
	Higher      int
	MeanOffer   float64
	TeamWinRate float64
}

// OfferComposition relates offer choices to final chase team size
type OfferComposition struct {
	BySize []OfferMix
	// Pearson correlation between an episode's mean chosen offer and the
	// number of players in its final chase. NaN when undefined.
	Correlation float64
}

// OfferByTeamSize groups each episode's players by the episode's final chase
// team size. Players without a matching episode are ignored.
func OfferByTeamSize(players []models.PlayerResult, episodes []models.EpisodeResult) OfferComposition {
	byKey := make(map[models.EpisodeKey]models.EpisodeResult, len(episodes))
	for _, e := range episodes {
		byKey[e.Key()] = e
	}

	type episodeOffers struct {
		sum   int
		count int
	}
	offers := map[models.EpisodeKey]*episodeOffers{}
	mixes := make([]OfferMix, 5)
	for i := range mixes {
		mixes[i].Size = i
	}

	for _, p := range players {
		e, ok := byKey[p.Key()]
		if !ok || e.PlayersInFinalChase < 0 || e.PlayersInFinalChase > 4 {
			continue
		}
		m := &mixes[e.PlayersInFinalChase]
		switch p.ChosenOffer {
		case models.OfferLower:
			m.Lower++
		case models.OfferHigher:
			m.Higher++
		default:
			m.Middle++
		}
		eo, ok := offers[p.Key()]
		if !ok {
			eo = &episodeOffers{}
			offers[p.Key()] = eo
		}
		eo.sum += p.ChosenOffer
		eo.count++
	}

	var xs, ys []float64
	wins := make([]int, 5)
	for key, eo := range offers {
		e := byKey[key]
		mean := float64(eo.sum) / float64(eo.count)
		m := &mixes[e.PlayersInFinalChase]
		m.Episodes++
		m.MeanOffer += mean
		if e.Winner == models.Team {
			wins[e.PlayersInFinalChase]++
		}
		xs = append(xs, mean)
		ys = append(ys, float64(e.PlayersInFinalChase))
	}
	for i := range mixes {
		if mixes[i].Episodes > 0 {
			mixes[i].MeanOffer /= float64(mixes[i].Episodes)
			mixes[i].TeamWinRate = float64(wins[i]) / float64(mixes[i].Episodes) * 100
		}
	}

	return OfferComposition{BySize: mixes, Correlation: Pearson(xs, ys)}
}

// Pearson returns the correlation coefficient of xs and ys, or NaN when
// either series has no variance or the lengths differ.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return math.NaN()
	}
	var sx, sy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
	}
	mx, my := sx/float64(n), sy/float64(n)
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(vx*vy)
}
