package autocomplete

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneToTwentyFive() []int {
	out := make([]int, 25)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestSuggest_Defaults(t *testing.T) {
	for _, in := range []string{"", "0", "00", "-3", "abc", "1.5", "+"} {
		t.Run(strconv.Quote(in), func(t *testing.T) {
			assert.Equal(t, oneToTwentyFive(), Suggest(in, 130))
		})
	}
}

func TestSuggest_Expansions(t *testing.T) {
	assert.Equal(t,
		[]int{12, 120, 121, 122, 123, 124, 125, 126, 127, 128, 129},
		Suggest("12", 130))

	assert.Equal(t, []int{13, 130}, Suggest("13", 130))
	assert.Equal(t, []int{14}, Suggest("14", 130))
	assert.Equal(t, []int{5}, Suggest("5", 5))
}

func TestSuggest_DepthFirstAndCapped(t *testing.T) {
	got := Suggest("1", 130)
	require.Len(t, got, Limit)
	assert.Equal(t, []int{1, 10, 100, 101, 102}, got[:5])
	assert.Equal(t, 11, got[12])
	assert.Equal(t, []int{12, 120}, got[23:])
}

func TestSuggest_OutOfRange(t *testing.T) {
	assert.Empty(t, Suggest("999", 130))
	assert.Empty(t, Suggest("131", 130))
	assert.Empty(t, Suggest("1", 0))
	assert.Empty(t, Suggest("99999999999999999999999", 130))
}

func TestSuggest_LargeMaxDoesNotOverflow(t *testing.T) {
	got := Suggest("9", math.MaxInt)
	require.Len(t, got, Limit)
	for _, n := range got {
		assert.Positive(t, n)
	}
}

func TestSuggest_AllWithinMax(t *testing.T) {
	for _, max := range []int{1, 9, 10, 57, 1100} {
		for p := 1; p <= 12; p++ {
			for _, n := range Suggest(strconv.Itoa(p), max) {
				assert.LessOrEqual(t, n, max)
			}
		}
	}
}

func TestChoices(t *testing.T) {
	choices := Choices("13", 130)
	require.Len(t, choices, 2)
	assert.Equal(t, "130", choices[1].Name)

	var v int
	require.NoError(t, json.Unmarshal(choices[1].Value, &v))
	assert.Equal(t, 130, v)
}
