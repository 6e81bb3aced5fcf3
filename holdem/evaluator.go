package holdem

import (
	"slices"
)

const (
	HAND_HIGH_CARD       = 1
	HAND_PAIR            = 2
	HAND_TWO_PAIR        = 3
	HAND_THREE_OF_A_KIND = 4
	HAND_STRAIGHT        = 5
	HAND_FLUSH           = 6
	HAND_FULL_HOUSE      = 7
	HAND_FOUR_OF_A_KIND  = 8
	HAND_STRAIGHT_FLUSH  = 9
	HAND_ROYAL_FLUSH     = 10
)

var categoryNames = map[int]string{
	HAND_HIGH_CARD:       "High Card",
	HAND_PAIR:            "Pair",
	HAND_TWO_PAIR:        "Two Pair",
	HAND_THREE_OF_A_KIND: "Three of a Kind",
	HAND_STRAIGHT:        "Straight",
	HAND_FLUSH:           "Flush",
	HAND_FULL_HOUSE:      "Full House",
	HAND_FOUR_OF_A_KIND:  "Four of a Kind",
	HAND_STRAIGHT_FLUSH:  "Straight Flush",
	HAND_ROYAL_FLUSH:     "Royal Flush",
}

func CategoryName(category int) string {
	return categoryNames[category]
}

// HandRank is a comparable rank vector for lexicographic comparison.
// Format: [category, ...ranks in priority order]
type HandRank []int

func CompareHandRanks(a, b HandRank) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}
	return len(a) - len(b)
}

func ConcatCards(holeCards, communityCards []Card) []Card {
	result := make([]Card, 0, len(holeCards)+len(communityCards))
	result = append(result, holeCards...)
	result = append(result, communityCards...)
	return result
}

func getKickers(allCards []Card, comboCards []Card, numKickers int) []int {
	used := make(map[Card]bool, len(comboCards))
	for _, c := range comboCards {
		used[c] = true
	}
	remaining := make([]Card, 0, len(allCards)-len(comboCards))
	for _, c := range allCards {
		if !used[c] {
			remaining = append(remaining, c)
		}
	}
	slices.SortFunc(remaining, func(a, b Card) int {
		return int(b.Rank - a.Rank)
	})
	result := make([]int, 0, numKickers)
	for i := 0; i < numKickers && i < len(remaining); i++ {
		result = append(result, int(remaining[i].Rank))
	}
	return result
}

func straightTopRank(combo []Card) int {
	hasAce := false
	hasTwo := false
	for _, c := range combo {
		if c.Rank == RANK_ACE {
			hasAce = true
		}
		if c.Rank == RANK_TWO {
			hasTwo = true
		}
	}
	if hasAce && hasTwo {
		return int(RANK_FIVE) // wheel: A-2-3-4-5 plays as five-high
	}
	maxRank := 0
	for _, c := range combo {
		if int(c.Rank) > maxRank {
			maxRank = int(c.Rank)
		}
	}
	return maxRank
}

// GetFlush returns flush cards (all cards of the flush suit)
func GetFlush(cards ...Card) ([]Card, bool) {
	for _, suit := range Suits {
		cnt := 0
		for _, c := range cards {
			if c.Suit == suit {
				cnt++
			}
		}
		if cnt >= 5 {
			flushCards := make([]Card, 0, cnt)
			for _, c := range cards {
				if c.Suit == suit {
					flushCards = append(flushCards, c)
				}
			}
			return flushCards, true
		}
	}
	return nil, false
}

// GetStraight returns the HIGHEST straight from given cards
func GetStraight(cards ...Card) ([]Card, bool) {
	slices.SortFunc(cards, func(c1, c2 Card) int {
		return int(c1.Rank) - int(c2.Rank)
	})

	uniqueCards := make([]Card, 0, len(cards))
	prevRank := Rank(-1)
	for _, c := range cards {
		if c.Rank != prevRank {
			uniqueCards = append(uniqueCards, c)
			prevRank = c.Rank
		}
	}

	// Check normal straights first (from highest window to find best)
	if len(uniqueCards) >= 5 {
		for i := len(uniqueCards) - 5; i >= 0; i-- {
			if uniqueCards[i+4].Rank-uniqueCards[i].Rank == 4 {
				straight := make([]Card, 0, 5)
				targetRank := uniqueCards[i].Rank
				for j := 0; j < 5; j++ {
					for _, c := range cards {
						if c.Rank == targetRank+Rank(j) {
							straight = append(straight, c)
							break
						}
					}
				}
				return straight, true
			}
		}
	}

	// Wheel (A-2-3-4-5) as fallback
	hasAce := len(uniqueCards) > 0 && uniqueCards[len(uniqueCards)-1].Rank == RANK_ACE
	hasTwo := len(uniqueCards) > 0 && uniqueCards[0].Rank == RANK_TWO
	if hasAce && hasTwo {
		required := []Rank{RANK_THREE, RANK_FOUR, RANK_FIVE}
		allPresent := true
		for _, r := range required {
			found := false
			for _, c := range uniqueCards {
				if c.Rank == r {
					found = true
					break
				}
			}
			if !found {
				allPresent = false
				break
			}
		}
		if allPresent {
			straight := make([]Card, 0, 5)
			for _, r := range []Rank{RANK_ACE, RANK_TWO, RANK_THREE, RANK_FOUR, RANK_FIVE} {
				for _, c := range cards {
					if c.Rank == r {
						straight = append(straight, c)
						break
					}
				}
			}
			return straight, true
		}
	}

	return nil, false
}

func GetStraightFlush(cards ...Card) ([]Card, bool) {
	flushCards, isFlush := GetFlush(cards...)
	if !isFlush {
		return nil, false
	}
	return GetStraight(flushCards...)
}

func GetFour(cards ...Card) ([]Card, bool) {
	rankCount := make(map[Rank][]Card)
	for _, c := range cards {
		rankCount[c.Rank] = append(rankCount[c.Rank], c)
	}
	var best []Card
	for _, group := range rankCount {
		if len(group) >= 4 {
			if best == nil || group[0].Rank > best[0].Rank {
				best = group[:4]
			}
		}
	}
	if best != nil {
		return best, true
	}
	return nil, false
}

func GetThree(cards ...Card) ([]Card, bool) {
	rankCount := make(map[Rank][]Card)
	for _, c := range cards {
		rankCount[c.Rank] = append(rankCount[c.Rank], c)
	}
	var best []Card
	for _, group := range rankCount {
		if len(group) >= 3 {
			if best == nil || group[0].Rank > best[0].Rank {
				best = group[:3]
			}
		}
	}
	if best != nil {
		return best, true
	}
	return nil, false
}

func GetPair(cards ...Card) ([]Card, bool) {
	rankCount := make(map[Rank][]Card)
	for _, c := range cards {
		rankCount[c.Rank] = append(rankCount[c.Rank], c)
	}
	var best []Card
	for _, group := range rankCount {
		if len(group) >= 2 {
			if best == nil || group[0].Rank > best[0].Rank {
				best = group[:2]
			}
		}
	}
	if best != nil {
		return best, true
	}
	return nil, false
}

func GetTwoPair(cards ...Card) ([]Card, bool) {
	rankCount := make(map[Rank][]Card)
	for _, c := range cards {
		rankCount[c.Rank] = append(rankCount[c.Rank], c)
	}

	var pairs [][]Card
	for _, group := range rankCount {
		if len(group) >= 2 {
			pairs = append(pairs, group[:2])
		}
	}
	if len(pairs) < 2 {
		return nil, false
	}
	slices.SortFunc(pairs, func(a, b []Card) int {
		return int(b[0].Rank) - int(a[0].Rank)
	})
	result := make([]Card, 0, 4)
	result = append(result, pairs[0]...)
	result = append(result, pairs[1]...)
	return result, true
}

func GetFullHouse(cards ...Card) ([]Card, bool) {
	rankCount := make(map[Rank][]Card)
	for _, c := range cards {
		rankCount[c.Rank] = append(rankCount[c.Rank], c)
	}

	var trips []Card
	for _, group := range rankCount {
		if len(group) >= 3 {
			if trips == nil || group[0].Rank > trips[0].Rank {
				trips = group[:3]
			}
		}
	}
	if trips == nil {
		return nil, false
	}

	var pair []Card
	for _, group := range rankCount {
		if len(group) >= 2 && group[0].Rank != trips[0].Rank {
			if pair == nil || group[0].Rank > pair[0].Rank {
				pair = group[:2]
			}
		}
	}
	if pair == nil {
		return nil, false
	}

	result := make([]Card, 0, 5)
	result = append(result, trips...)
	result = append(result, pair...)
	return result, true
}

// EvaluateHandRank returns a comparable HandRank for 5..7 cards.
func EvaluateHandRank(allCards []Card) HandRank {
	if combo, ok := GetStraightFlush(allCards...); ok {
		top := straightTopRank(combo)
		if top == int(RANK_ACE) {
			return HandRank{HAND_ROYAL_FLUSH}
		}
		return HandRank{HAND_STRAIGHT_FLUSH, top}
	}
	if combo, ok := GetFour(allCards...); ok {
		rank := HandRank{HAND_FOUR_OF_A_KIND, int(combo[0].Rank)}
		return append(rank, getKickers(allCards, combo, 1)...)
	}
	if combo, ok := GetFullHouse(allCards...); ok {
		return HandRank{HAND_FULL_HOUSE, int(combo[0].Rank), int(combo[3].Rank)}
	}
	if flushCards, ok := GetFlush(allCards...); ok {
		slices.SortFunc(flushCards, func(a, b Card) int {
			return int(b.Rank - a.Rank)
		})
		rank := HandRank{HAND_FLUSH}
		for i := 0; i < 5 && i < len(flushCards); i++ {
			rank = append(rank, int(flushCards[i].Rank))
		}
		return rank
	}
	if combo, ok := GetStraight(allCards...); ok {
		return HandRank{HAND_STRAIGHT, straightTopRank(combo)}
	}
	if combo, ok := GetThree(allCards...); ok {
		rank := HandRank{HAND_THREE_OF_A_KIND, int(combo[0].Rank)}
		return append(rank, getKickers(allCards, combo, 2)...)
	}
	if combo, ok := GetTwoPair(allCards...); ok {
		highPair := max(int(combo[0].Rank), int(combo[2].Rank))
		lowPair := min(int(combo[0].Rank), int(combo[2].Rank))
		rank := HandRank{HAND_TWO_PAIR, highPair, lowPair}
		return append(rank, getKickers(allCards, combo, 1)...)
	}
	if combo, ok := GetPair(allCards...); ok {
		rank := HandRank{HAND_PAIR, int(combo[0].Rank)}
		return append(rank, getKickers(allCards, combo, 3)...)
	}

	sorted := make([]Card, len(allCards))
	copy(sorted, allCards)
	slices.SortFunc(sorted, func(a, b Card) int {
		return int(b.Rank - a.Rank)
	})
	rank := HandRank{HAND_HIGH_CARD}
	for i := 0; i < 5 && i < len(sorted); i++ {
		rank = append(rank, int(sorted[i].Rank))
	}
	return rank
}

// DescribeHand returns a human title like "Pair of Kings" or "Flush, Ace High".
func DescribeHand(rank HandRank) string {
	if len(rank) == 0 {
		return ""
	}
	name := categoryNames[rank[0]]
	switch rank[0] {
	case HAND_ROYAL_FLUSH:
		return name
	case HAND_STRAIGHT_FLUSH, HAND_STRAIGHT:
		return name + ", " + Rank(rank[1]).Char() + " High"
	case HAND_FOUR_OF_A_KIND, HAND_THREE_OF_A_KIND, HAND_PAIR:
		return name + " of " + Rank(rank[1]).Char() + "s"
	case HAND_FULL_HOUSE:
		return name + ", " + Rank(rank[1]).Char() + "s over " + Rank(rank[2]).Char() + "s"
	case HAND_TWO_PAIR:
		return name + ", " + Rank(rank[1]).Char() + "s and " + Rank(rank[2]).Char() + "s"
	case HAND_FLUSH, HAND_HIGH_CARD:
		return name + ", " + Rank(rank[1]).Char() + " High"
	}
	return name
}

// BestWinners returns a bitmask over the given hands: 1 = best, 0 = not.
// Nil hole cards never win.
func BestWinners(playersCards [][]Card, communityCards []Card) ([]int, HandRank) {
	numPlayers := len(playersCards)
	result := make([]int, numPlayers)

	handRanks := make([]HandRank, numPlayers)
	for i, cards := range playersCards {
		if cards == nil {
			handRanks[i] = HandRank{-1}
		} else {
			handRanks[i] = EvaluateHandRank(ConcatCards(cards, communityCards))
		}
	}

	bestRank := HandRank{-1}
	for _, rank := range handRanks {
		if CompareHandRanks(rank, bestRank) > 0 {
			bestRank = rank
		}
	}

	for i, rank := range handRanks {
		if CompareHandRanks(rank, bestRank) == 0 {
			result[i] = 1
		}
	}
	return result, bestRank
}
