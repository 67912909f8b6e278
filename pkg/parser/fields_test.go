package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		text     string
		expected models.Money
	}{
		{text: "No offer", expected: models.Money{}},
		{text: "no offer", expected: models.Money{}},
		{text: "50p", expected: models.Pounds(0.50)},
		{text: "5p", expected: models.Pounds(0.05)},
		{text: "£1,234.50", expected: models.Pounds(1234.50)},
		{text: "Â£1,000", expected: models.Pounds(1000)},
		{text: "£0", expected: models.Pounds(0)},
		{text: " £75,000 ", expected: models.Pounds(75000)},
	}

	for _, test := range testCases {
		got, err := ParseMoney(test.text)
		require.NoError(t, err, test.text)
		if diff := cmp.Diff(test.expected, got); diff != "" {
			t.Errorf("ParseMoney(%q) mismatch (-want +got):\n%s", test.text, diff)
		}
	}
}

func TestParseMoneyZeroIsNotNull(t *testing.T) {
	zero, err := ParseMoney("£0")
	require.NoError(t, err)
	none, err := ParseMoney("No offer")
	require.NoError(t, err)

	require.True(t, zero.Valid)
	require.False(t, none.Valid)
	require.NotEqual(t, zero, none)
}

func TestParseMoneyInvalid(t *testing.T) {
	for _, text := range []string{"", "£", "lots", "£1.2.3", "xp"} {
		_, err := ParseMoney(text)
		var formatErr *FormatError
		require.ErrorAs(t, err, &formatErr, text)
		require.Equal(t, "money", formatErr.Field)
	}
}

func TestParseChosenOffer(t *testing.T) {
	testCases := []struct {
		text     string
		expected int
	}{
		{text: `/\`, expected: models.OfferHigher},
		{text: `\/`, expected: models.OfferLower},
		{text: "=", expected: models.OfferMiddle},
		{text: ` /\ `, expected: models.OfferHigher},
	}

	for _, test := range testCases {
		got, err := ParseChosenOffer(test.text)
		require.NoError(t, err, test.text)
		require.Equal(t, test.expected, got, test.text)
	}

	_, err := ParseChosenOffer("")
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	require.ErrorIs(t, err, ErrUnrecognised)

	_, err = ParseChosenOffer("?")
	require.ErrorIs(t, err, ErrUnrecognised)
}

func TestParseHeadToHead(t *testing.T) {
	testCases := []struct {
		text     string
		expected HeadToHead
	}{
		{text: "Home 3", expected: HeadToHead{Winner: models.Player, Margin: 3}},
		{text: "Caught 7", expected: HeadToHead{Winner: models.Chaser, Margin: 7}},
		{text: "Home0", expected: HeadToHead{Winner: models.Player, Margin: 0}},
	}

	for _, test := range testCases {
		got, err := ParseHeadToHead(test.text)
		require.NoError(t, err, test.text)
		if diff := cmp.Diff(test.expected, got); diff != "" {
			t.Errorf("ParseHeadToHead(%q) mismatch (-want +got):\n%s", test.text, diff)
		}
	}

	for _, text := range []string{"", "Draw 2", "Home", "Caught x"} {
		_, err := ParseHeadToHead(text)
		var formatErr *FormatError
		require.ErrorAs(t, err, &formatErr, text)
	}
}

func TestParseFinalChaseResult(t *testing.T) {
	testCases := []struct {
		text     string
		expected FinalChaseResult
	}{
		{text: "Team won by 4", expected: FinalChaseResult{Winner: models.Team, Margin: 4}},
		{text: "Team 12", expected: FinalChaseResult{Winner: models.Team, Margin: 12}},
		{text: "Chaser won with 00:23", expected: FinalChaseResult{Winner: models.Chaser, Margin: 23}},
		{text: "Chaser 01:05", expected: FinalChaseResult{Winner: models.Chaser, Margin: 65}},
		{text: "Chaser 0:23", expected: FinalChaseResult{Winner: models.Chaser, Margin: 23}},
	}

	for _, test := range testCases {
		got, err := ParseFinalChaseResult(test.text)
		require.NoError(t, err, test.text)
		if diff := cmp.Diff(test.expected, got); diff != "" {
			t.Errorf("ParseFinalChaseResult(%q) mismatch (-want +got):\n%s", test.text, diff)
		}
	}

	for _, text := range []string{"", "Chaser", "Chaser 0023", "Team won", "Nobody 00:10"} {
		_, err := ParseFinalChaseResult(text)
		var formatErr *FormatError
		require.ErrorAs(t, err, &formatErr, text)
	}
}

func TestParseFinalChaseTarget(t *testing.T) {
	target, pushbacks, err := ParseFinalChaseTarget("12 + 3")
	require.NoError(t, err)
	require.Equal(t, 12, target)
	require.Equal(t, 3, pushbacks)

	target, pushbacks, err = ParseFinalChaseTarget("9")
	require.NoError(t, err)
	require.Equal(t, 9, target)
	require.Equal(t, 0, pushbacks)

	for _, text := range []string{"", "x", "12 + y"} {
		_, _, err := ParseFinalChaseTarget(text)
		var formatErr *FormatError
		require.ErrorAs(t, err, &formatErr, text)
	}
}

func TestParseFinalChaseCorrect(t *testing.T) {
	got, err := ParseFinalChaseCorrect("")
	require.NoError(t, err)
	require.False(t, got.Valid)

	got, err = ParseFinalChaseCorrect(" ")
	require.NoError(t, err)
	require.False(t, got.Valid)

	got, err = ParseFinalChaseCorrect("7 (+2)")
	require.NoError(t, err)
	require.Equal(t, models.Int(7), got)

	got, err = ParseFinalChaseCorrect("0")
	require.NoError(t, err)
	require.Equal(t, models.Int(0), got)

	_, err = ParseFinalChaseCorrect("seven")
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("28/06/2010")
	require.NoError(t, err)
	require.Equal(t, time.Date(2010, time.June, 28, 0, 0, 0, 0, time.UTC), got)

	for _, text := range []string{"", "2010-06-28", "31/02/2010", "28/6/10"} {
		_, err := ParseDate(text)
		var formatErr *FormatError
		require.ErrorAs(t, err, &formatErr, text)
		require.Equal(t, "date", formatErr.Field)
	}
}

func TestParseSmallFields(t *testing.T) {
	n, err := ParsePlayerNumber("P3")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = ParsePercent("67%")
	require.NoError(t, err)
	require.Equal(t, 67, n)

	_, err = ParsePlayerNumber("Q3")
	require.Error(t, err)
}

func TestFormatErrorMessage(t *testing.T) {
	_, err := ParseChosenOffer("?")
	require.EqualError(t, err, `chosen offer "?": not recognised`)
	require.True(t, errors.Is(err, ErrUnrecognised))
}
