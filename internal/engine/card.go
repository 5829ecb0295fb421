package engine

import (
	"math/rand"
	"sort"
)

const CardRows = 3
const CardCols = 9
const CardNumbers = 15

// Card is a 3x9 grid; 0 marks an empty cell. Column c holds numbers from its
// band: column 0 is [1,9], column 8 is [80,90], column c otherwise
// [10c, 10c+9].
type Card [CardRows][CardCols]int

func bandBounds(col int) (int, int) {
	switch col {
	case 0:
		return 1, 9
	case CardCols - 1:
		return 80, MaxNumber
	default:
		return col * 10, col*10 + 9
	}
}

// GenerateCard builds a structurally valid card: 5 of the 9 columns are
// populated, each with 3 distinct numbers from its band placed in ascending
// row order, giving 15 numbers total and 5 per row.
func GenerateCard() Card {
	var card Card

	cols := rand.Perm(CardCols)[:5]
	for _, col := range cols {
		lo, hi := bandBounds(col)

		picked := make([]int, 0, CardRows)
		seen := map[int]bool{}
		for len(picked) < CardRows {
			n := lo + rand.Intn(hi-lo+1)
			if seen[n] {
				continue
			}
			seen[n] = true
			picked = append(picked, n)
		}
		sort.Ints(picked)

		for row, n := range picked {
			card[row][col] = n
		}
	}
	return card
}

func (c Card) Contains(n int) bool {
	for row := 0; row < CardRows; row++ {
		for col := 0; col < CardCols; col++ {
			if c[row][col] == n {
				return true
			}
		}
	}
	return false
}

// Numbers returns the card's non-empty cells in row-major order.
func (c Card) Numbers() []int {
	nums := make([]int, 0, CardNumbers)
	for row := 0; row < CardRows; row++ {
		for col := 0; col < CardCols; col++ {
			if c[row][col] != 0 {
				nums = append(nums, c[row][col])
			}
		}
	}
	return nums
}
