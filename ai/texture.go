package ai

import "cyberholdem/holdem"

// BoardTexture classifies the community cards as dry or wet, which drives
// postflop bet sizing.
type BoardTexture struct {
	Wetness      float64
	FlushDraw    bool
	StraightDraw bool
	Paired       bool
	HighCard     int
}

// AnalyzeBoard works for 0..5 community cards; an empty board gets a neutral
// texture.
func AnalyzeBoard(community []holdem.Card) BoardTexture {
	if len(community) == 0 {
		return BoardTexture{Wetness: 0.3}
	}

	suitCounts := make(map[holdem.Suit]int)
	rankCounts := make(map[holdem.Rank]int)
	highCard := 0
	for _, c := range community {
		suitCounts[c.Suit]++
		rankCounts[c.Rank]++
		if int(c.Rank) > highCard {
			highCard = int(c.Rank)
		}
	}

	flushDraw := false
	for _, cnt := range suitCounts {
		if cnt >= 3 {
			flushDraw = true
		}
	}
	paired := false
	uniqueRanks := make([]int, 0, len(rankCounts))
	for r, cnt := range rankCounts {
		if cnt >= 2 {
			paired = true
		}
		uniqueRanks = append(uniqueRanks, int(r))
	}
	straightDraw := hasStraightDraw(uniqueRanks)

	wetness := 0.0
	if flushDraw {
		wetness += 0.4
	}
	if straightDraw {
		wetness += 0.4
	}
	if paired {
		wetness += 0.2
	}

	return BoardTexture{
		Wetness:      wetness,
		FlushDraw:    flushDraw,
		StraightDraw: straightDraw,
		Paired:       paired,
		HighCard:     highCard,
	}
}

// hasStraightDraw reports 3+ unique ranks inside any 5-rank window,
// catching open-enders and gutshots. The Ace also counts as 1 for
// wheel draws.
func hasStraightDraw(uniqueRanks []int) bool {
	if len(uniqueRanks) < 3 {
		return false
	}

	present := make(map[int]bool, len(uniqueRanks)+1)
	lo, hi := uniqueRanks[0], uniqueRanks[0]
	for _, r := range uniqueRanks {
		present[r] = true
		if r < lo {
			lo = r
		}
		if r > hi {
			hi = r
		}
	}
	if present[int(holdem.RANK_ACE)] {
		present[1] = true
		lo = 1
	}

	loStart := max(1, lo-4)
	for low := loStart; low <= hi; low++ {
		count := 0
		for r := low; r <= low+4; r++ {
			if present[r] {
				count++
			}
		}
		if count >= 3 {
			return true
		}
	}
	return false
}
