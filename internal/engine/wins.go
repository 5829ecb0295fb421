package engine

var rowTiers = []struct {
	count int
	tier  Tier
}{
	{2, TierAmbo},
	{3, TierTerno},
	{4, TierQuaterna},
	{5, TierCinquina},
}

// evaluateWins scans every row of the player's card against their marked set
// and returns the tiers whose prize flag flips false->true on this call.
// Thresholds use >=, so marking out of order can flip several tiers at once;
// the flag guard keeps each tier reported exactly once. Re-running with
// unchanged marks returns nothing.
func evaluateWins(p *Player) []Tier {
	var won []Tier
	total := 0

	for row := 0; row < CardRows; row++ {
		count := 0
		for col := 0; col < CardCols; col++ {
			if n := p.Card[row][col]; n != 0 && p.Marked[n] {
				count++
			}
		}
		total += count

		for _, rt := range rowTiers {
			if count >= rt.count && !p.Prizes[rt.tier] {
				p.Prizes[rt.tier] = true
				won = append(won, rt.tier)
			}
		}
	}

	if total >= CardNumbers && !p.Prizes[TierTombola] {
		p.Prizes[TierTombola] = true
		won = append(won, TierTombola)
	}
	return won
}
