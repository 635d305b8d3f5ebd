package smarttext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessText_CorrectsJustCompletedWord(t *testing.T) {
	e := NewEngine()

	res := e.ProcessText("Check the color ", 16)
	assert.Equal(t, "Check the colour ", res.Text)
	assert.Equal(t, 1, res.Applied)
}

func TestProcessText_CursorDeltaMatchesReplacementOnly(t *testing.T) {
	e := NewEngine()
	buffer := "the color of the cable and the color again "
	cursor := len("the color ") // boundary after the first occurrence

	res := e.ProcessText(buffer, cursor)
	require.Equal(t, 1, res.Applied)
	assert.Equal(t, "the colour of the cable and the color again ", res.Text)
	assert.Equal(t, len("colour")-len("color"), len(res.Text)-len(buffer),
		"length delta must come from the single replacement")
}

func TestProcessText_AbbreviationCasing(t *testing.T) {
	e := NewEngine()

	res := e.ProcessText("fit a new mcb ", 14)
	assert.Equal(t, "fit a new MCB ", res.Text)
	assert.Equal(t, 1, res.Applied)

	// Already canonical casing must not fire.
	res = e.ProcessText("fit a new MCB ", 14)
	assert.Equal(t, "fit a new MCB ", res.Text)
	assert.Equal(t, 0, res.Applied)
}

func TestProcessText_PreservesCapitalisation(t *testing.T) {
	e := NewEngine()

	res := e.ProcessText("Color ", 6)
	assert.Equal(t, "Colour ", res.Text)
	assert.Equal(t, 1, res.Applied)
}

func TestProcessText_WordAtBufferStart(t *testing.T) {
	e := NewEngine()

	res := e.ProcessText("aluminum ", 9)
	assert.Equal(t, "aluminium ", res.Text)
	assert.Equal(t, 1, res.Applied)
}

func TestProcessText_NewlineBoundary(t *testing.T) {
	e := NewEngine()

	res := e.ProcessText("found faulty rcd\n", 17)
	assert.Equal(t, "found faulty RCD\n", res.Text)
	assert.Equal(t, 1, res.Applied)
}

func TestProcessText_DoubleSpaceIsNoOp(t *testing.T) {
	e := NewEngine()

	buffer := "color  "
	res := e.ProcessText(buffer, 7)
	assert.Equal(t, buffer, res.Text)
	assert.Equal(t, 0, res.Applied)
}

func TestProcessText_CursorOutOfRangeClampsToEnd(t *testing.T) {
	e := NewEngine()

	res := e.ProcessText("check the color ", 500)
	assert.Equal(t, "check the colour ", res.Text)
	assert.Equal(t, 1, res.Applied)

	res = e.ProcessText("", 3)
	assert.Equal(t, "", res.Text)
	assert.Equal(t, 0, res.Applied)

	res = e.ProcessText("color ", -1)
	assert.Equal(t, "color ", res.Text)
	assert.Equal(t, 0, res.Applied)
}

func TestProcessText_MidWordCursorIsNoOp(t *testing.T) {
	e := NewEngine()

	buffer := "color here"
	res := e.ProcessText(buffer, 3)
	assert.Equal(t, buffer, res.Text)
	assert.Equal(t, 0, res.Applied)
}

func TestProcessText_OnlyLastWordEligible(t *testing.T) {
	e := NewEngine()

	// Earlier uncorrected words must be left alone by the auto-apply path.
	buffer := "color and gray "
	res := e.ProcessText(buffer, len(buffer))
	assert.Equal(t, "color and grey ", res.Text)
	assert.Equal(t, 1, res.Applied)
}

func TestProcessText_TrailingPunctuationKept(t *testing.T) {
	e := NewEngine()

	buffer := "replace the mcb, "
	res := e.ProcessText(buffer, len(buffer))
	assert.Equal(t, "replace the MCB, ", res.Text)
	assert.Equal(t, 1, res.Applied)
}

func TestCheckForSuggestions_FindsAllRemaining(t *testing.T) {
	e := NewEngine()
	buffer := "I tested the aluminum conduit and the color scheme"

	suggestions := e.CheckForSuggestions(buffer)
	require.GreaterOrEqual(t, len(suggestions), 2)

	byOriginal := map[string]Suggestion{}
	for _, s := range suggestions {
		byOriginal[s.Original] = s
	}

	alum, ok := byOriginal["aluminum"]
	require.True(t, ok)
	assert.Equal(t, strings.Index(buffer, "aluminum"), alum.Start)
	assert.Equal(t, alum.Start+len("aluminum"), alum.End)
	assert.Equal(t, "aluminium", alum.Replacement)
	assert.Equal(t, KindSpelling, alum.Kind)

	color, ok := byOriginal["color"]
	require.True(t, ok)
	assert.Equal(t, strings.Index(buffer, "color"), color.Start)
	assert.Equal(t, buffer[color.Start:color.End], color.Original)
}

func TestCheckForSuggestions_IncludesAbbreviations(t *testing.T) {
	e := NewEngine()

	suggestions := e.CheckForSuggestions("tripped rcd near the board")
	require.Len(t, suggestions, 1)
	assert.Equal(t, "rcd", suggestions[0].Original)
	assert.Equal(t, "RCD", suggestions[0].Replacement)
	assert.Equal(t, KindAbbreviation, suggestions[0].Kind)
}

func TestCheckForSuggestions_CanonicalAbbreviationNotSuggested(t *testing.T) {
	e := NewEngine()
	assert.Empty(t, e.CheckForSuggestions("the RCD tripped"))
}

func TestDismissal_IsPositional(t *testing.T) {
	e := NewEngine()
	buffer := "color wires and color codes"

	suggestions := e.CheckForSuggestions(buffer)
	require.Len(t, suggestions, 2)

	e.DismissSuggestion(suggestions[0])

	remaining := e.CheckForSuggestions(buffer)
	require.Len(t, remaining, 1)
	assert.Equal(t, suggestions[1].Start, remaining[0].Start,
		"only the dismissed occurrence is excluded")
}

func TestDismissal_ExportRestoreRoundTrip(t *testing.T) {
	e := NewEngine()
	buffer := "gray cable"

	suggestions := e.CheckForSuggestions(buffer)
	require.Len(t, suggestions, 1)
	e.DismissSuggestion(suggestions[0])

	fresh := NewEngine()
	fresh.RestoreDismissals(e.Dismissed())
	assert.Empty(t, fresh.CheckForSuggestions(buffer))
}

func TestApplySuggestion_TouchesOnlyTheSpan(t *testing.T) {
	e := NewEngine()
	buffer := "I tested the aluminum conduit"

	suggestions := e.CheckForSuggestions(buffer)
	require.NotEmpty(t, suggestions)
	s := suggestions[0]

	out := e.ApplySuggestion(buffer, s)
	assert.Equal(t, buffer[:s.Start], out[:s.Start])
	assert.Equal(t, buffer[s.End:], out[s.Start+len(s.Replacement):])
	assert.Equal(t, s.Replacement, out[s.Start:s.Start+len(s.Replacement)])
}

func TestApplySuggestion_OutOfRangeSpanIsNoOp(t *testing.T) {
	e := NewEngine()
	buffer := "short"

	out := e.ApplySuggestion(buffer, Suggestion{Start: 2, End: 99, Replacement: "x"})
	assert.Equal(t, buffer, out)
}
