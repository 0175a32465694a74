// Package autocomplete suggests record numbers while a user types one.
package autocomplete

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"logpose.GO/discord"
)

// Limit is the most suggestions Discord accepts in one response.
const Limit = 25

// Suggest returns numbers up to max that start with the typed prefix: the
// prefix itself, then its extensions depth first with digits ascending.
// Input that is empty, zero or not a non-negative integer yields 1..25.
func Suggest(prefix string, max int) []int {
	n, err := strconv.ParseUint(strings.TrimSpace(prefix), 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return []int{}
	}
	if err != nil || n == 0 {
		return defaults()
	}
	if max <= 0 || n > uint64(max) {
		return []int{}
	}

	out := make([]int, 0, Limit)
	expand(n, uint64(max), &out)
	return out
}

func expand(n, max uint64, out *[]int) {
	if len(*out) == Limit {
		return
	}
	*out = append(*out, int(n))
	for d := uint64(0); d <= 9; d++ {
		if d > max || n > (max-d)/10 {
			// n*10+d > max; larger digits only grow
			return
		}
		expand(n*10+d, max, out)
		if len(*out) == Limit {
			return
		}
	}
}

func defaults() []int {
	out := make([]int, Limit)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Choices renders Suggest as autocomplete choices.
func Choices(prefix string, max int) []discord.Choice {
	nums := Suggest(prefix, max)
	choices := make([]discord.Choice, len(nums))
	for i, n := range nums {
		choices[i] = discord.IntChoice(n)
	}
	return choices
}
