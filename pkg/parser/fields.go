package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

// DateLayout is the day/month/year layout used by the results tables
const DateLayout = "02/01/2006"

// ErrUnrecognised is wrapped by a FormatError when no rule matched the text
var ErrUnrecognised = errors.New("not recognised")

// FormatError reports a cell whose text does not match any known pattern
type FormatError struct {
	Field string
	Text  string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Text, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatError(field, text string, err error) error {
	return &FormatError{Field: field, Text: text, Err: err}
}

// rule pairs a predicate with the handler that runs when it matches.
// Rules are evaluated in order; the first match wins.
type rule[T any] struct {
	match func(text string) bool
	apply func(text string) (T, error)
}

func dispatch[T any](field, text string, rules []rule[T]) (T, error) {
	for _, r := range rules {
		if r.match(text) {
			v, err := r.apply(text)
			if err != nil {
				var zero T
				return zero, formatError(field, text, err)
			}
			return v, nil
		}
	}
	var zero T
	return zero, formatError(field, text, ErrUnrecognised)
}

func contains(sub string) func(string) bool {
	return func(text string) bool {
		return strings.Contains(text, sub)
	}
}

func always(string) bool { return true }

// ParseDate parses a DD/MM/YYYY date
func ParseDate(text string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, formatError("date", text, err)
	}
	return t, nil
}

var moneyRules = []rule[models.Money]{
	{
		match: func(text string) bool { return strings.Contains(strings.ToLower(text), "no offer") },
		apply: func(string) (models.Money, error) { return models.Money{}, nil },
	},
	{
		match: contains("p"),
		apply: func(text string) (models.Money, error) {
			pence, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(text, "p", "")))
			if err != nil {
				return models.Money{}, err
			}
			return models.Pounds(float64(pence) / 100), nil
		},
	},
	{
		match: always,
		apply: func(text string) (models.Money, error) {
			v, err := strconv.ParseFloat(cleanAmount(text), 64)
			if err != nil {
				return models.Money{}, err
			}
			return models.Pounds(v), nil
		},
	},
}

// cleanAmount drops any currency prefix and thousands separators.
// The prefix is stripped by character class rather than by symbol so a
// mis-encoded pound sign is handled the same as a correct one.
func cleanAmount(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimLeftFunc(text, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '-' && r != '.'
	})
	return strings.ReplaceAll(text, ",", "")
}

// ParseMoney parses a currency cell. A "no offer" cell yields an invalid
// Money, which is distinct from a zero amount.
func ParseMoney(text string) (models.Money, error) {
	return dispatch("money", strings.TrimSpace(text), moneyRules)
}

func constant[T any](v T) func(string) (T, error) {
	return func(string) (T, error) { return v, nil }
}

var chosenOfferRules = []rule[int]{
	{match: contains(`/\`), apply: constant(models.OfferHigher)},
	{match: contains(`\/`), apply: constant(models.OfferLower)},
	{match: contains("="), apply: constant(models.OfferMiddle)},
}

// ParseChosenOffer decodes the offer glyph into -1, 0 or 1
func ParseChosenOffer(text string) (int, error) {
	return dispatch("chosen offer", text, chosenOfferRules)
}

// HeadToHead is the outcome of a player's individual chase
type HeadToHead struct {
	Winner models.Personnel
	Margin int
}

func lastDigit(text string) (int, error) {
	if text == "" {
		return 0, ErrUnrecognised
	}
	// cannot be double digits
	return strconv.Atoi(text[len(text)-1:])
}

func hthWinner(winner models.Personnel) func(string) (HeadToHead, error) {
	return func(text string) (HeadToHead, error) {
		margin, err := lastDigit(text)
		if err != nil {
			return HeadToHead{}, err
		}
		return HeadToHead{Winner: winner, Margin: margin}, nil
	}
}

var headToHeadRules = []rule[HeadToHead]{
	{match: contains("Home"), apply: hthWinner(models.Player)},
	{match: contains("Caught"), apply: hthWinner(models.Chaser)},
}

// ParseHeadToHead parses "Home N" / "Caught N" style cells
func ParseHeadToHead(text string) (HeadToHead, error) {
	return dispatch("head to head", strings.TrimSpace(text), headToHeadRules)
}

// FinalChaseResult is the outcome of the final chase. Margin is seconds
// left on the clock when the chaser won and questions ahead when the team won.
type FinalChaseResult struct {
	Winner models.Personnel
	Margin int
}

var finalChaseRules = []rule[FinalChaseResult]{
	{
		match: contains("Chaser"),
		apply: func(text string) (FinalChaseResult, error) {
			if len(text) < 5 {
				return FinalChaseResult{}, ErrUnrecognised
			}
			minutes, seconds, ok := strings.Cut(text[len(text)-5:], ":")
			if !ok {
				return FinalChaseResult{}, ErrUnrecognised
			}
			m, err := strconv.Atoi(strings.TrimSpace(minutes))
			if err != nil {
				return FinalChaseResult{}, err
			}
			s, err := strconv.Atoi(strings.TrimSpace(seconds))
			if err != nil {
				return FinalChaseResult{}, err
			}
			return FinalChaseResult{Winner: models.Chaser, Margin: m*60 + s}, nil
		},
	},
	{
		match: contains("Team"),
		apply: func(text string) (FinalChaseResult, error) {
			fields := strings.Fields(text)
			margin, err := strconv.Atoi(fields[len(fields)-1])
			if err != nil {
				return FinalChaseResult{}, err
			}
			return FinalChaseResult{Winner: models.Team, Margin: margin}, nil
		},
	},
}

// ParseFinalChaseResult parses the final chase outcome cell
func ParseFinalChaseResult(text string) (FinalChaseResult, error) {
	return dispatch("final chase result", strings.TrimSpace(text), finalChaseRules)
}

// ParseFinalChaseTarget parses "12 + 3" into (12, 3) and "9" into (9, 0)
func ParseFinalChaseTarget(text string) (target, pushbacks int, err error) {
	text = strings.TrimSpace(text)
	base, extra, found := strings.Cut(text, "+")
	target, err = strconv.Atoi(strings.TrimSpace(base))
	if err != nil {
		return 0, 0, formatError("final chase target", text, err)
	}
	if !found {
		return target, 0, nil
	}
	pushbacks, err = strconv.Atoi(strings.TrimSpace(extra))
	if err != nil {
		return 0, 0, formatError("final chase target", text, err)
	}
	return target, pushbacks, nil
}

// ParseFinalChaseCorrect reads the number of correct final chase answers.
// An empty cell means the player did not take part.
func ParseFinalChaseCorrect(text string) (models.NullInt, error) {
	token, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	token = strings.TrimSpace(token)
	if token == "" {
		return models.NullInt{}, nil
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return models.NullInt{}, formatError("final chase correct", text, err)
	}
	return models.Int(n), nil
}

// ParsePlayerNumber parses "P3" into 3
func ParsePlayerNumber(text string) (int, error) {
	return parseInt("player number", strings.TrimPrefix(strings.TrimSpace(text), "P"))
}

// ParsePercent parses "67%" into 67
func ParsePercent(text string) (int, error) {
	return parseInt("percent", strings.TrimSuffix(strings.TrimSpace(text), "%"))
}

func parseInt(field, text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, formatError(field, text, err)
	}
	return n, nil
}

func parseFloat(field, text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, formatError(field, text, err)
	}
	return v, nil
}
