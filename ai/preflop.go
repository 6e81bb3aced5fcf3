package ai

import "cyberholdem/holdem"

// HandCombo returns the canonical combo string for two hole cards:
// pairs like "AA", suited like "AKs", offsuit like "T9o".
func HandCombo(c1, c2 holdem.Card) string {
	if c1.Rank < c2.Rank {
		c1, c2 = c2, c1
	}
	if c1.Rank == c2.Rank {
		return c1.Rank.Char() + c2.Rank.Char()
	}
	suffix := "o"
	if c1.Suit == c2.Suit {
		suffix = "s"
	}
	return c1.Rank.Char() + c2.Rank.Char() + suffix
}

// Position returns the seat's position name relative to the dealer button.
// Six-handed: BTN, SB, BB, EP, MP, CO. Smaller tables compress the map.
func Position(seatIdx, dealerIdx, total int) string {
	if total <= 0 {
		return "EP"
	}
	offset := ((seatIdx - dealerIdx) % total + total) % total
	var mapping []string
	switch {
	case total >= 6:
		mapping = []string{"BTN", "SB", "BB", "EP", "MP", "CO"}
	case total == 5:
		mapping = []string{"BTN", "SB", "BB", "EP", "CO"}
	case total == 4:
		mapping = []string{"BTN", "SB", "BB", "CO"}
	case total == 3:
		mapping = []string{"BTN", "SB", "BB"}
	default:
		mapping = []string{"BTN", "BB"}
	}
	if offset < len(mapping) {
		return mapping[offset]
	}
	return "EP"
}

// Open-raise frequency tables, solver-approximated 6-max ranges.
// Combos not listed default to 0.

var btnOpen = map[string]float64{
	"AA": 1.0, "KK": 1.0, "QQ": 1.0, "JJ": 1.0, "TT": 1.0,
	"99": 1.0, "88": 1.0, "77": 1.0, "66": 1.0, "55": 1.0,
	"44": 1.0, "33": 0.9, "22": 0.85,
	"AKs": 1.0, "AQs": 1.0, "AJs": 1.0, "ATs": 1.0,
	"A9s": 1.0, "A8s": 1.0, "A7s": 1.0, "A6s": 1.0,
	"A5s": 1.0, "A4s": 1.0, "A3s": 1.0, "A2s": 1.0,
	"KQs": 1.0, "KJs": 1.0, "KTs": 1.0, "K9s": 1.0,
	"K8s": 0.8, "K7s": 0.7, "K6s": 0.6, "K5s": 0.55,
	"QJs": 1.0, "QTs": 1.0, "Q9s": 0.9, "Q8s": 0.7, "Q7s": 0.5,
	"JTs": 1.0, "J9s": 0.9, "J8s": 0.7, "J7s": 0.5,
	"T9s": 1.0, "T8s": 0.85, "T7s": 0.6,
	"98s": 1.0, "97s": 0.75, "87s": 0.9, "86s": 0.6,
	"76s": 0.9, "75s": 0.55, "65s": 0.85, "64s": 0.4,
	"54s": 0.75, "53s": 0.4, "43s": 0.5, "42s": 0.35,
	"32s": 0.3,
	"AKo": 1.0, "AQo": 1.0, "AJo": 1.0, "ATo": 1.0,
	"A9o": 0.9, "A8o": 0.75, "A7o": 0.6, "A6o": 0.5,
	"A5o": 0.7, "A4o": 0.6, "A3o": 0.5, "A2o": 0.4,
	"KQo": 1.0, "KJo": 1.0, "KTo": 0.9, "K9o": 0.7,
	"K8o": 0.5, "K7o": 0.4,
	"QJo": 0.9, "QTo": 0.75, "Q9o": 0.55,
	"JTo": 0.8, "J9o": 0.55,
	"T9o": 0.65, "T8o": 0.45,
	"98o": 0.55, "87o": 0.4,
}

var coOpen = map[string]float64{
	"AA": 1.0, "KK": 1.0, "QQ": 1.0, "JJ": 1.0, "TT": 1.0,
	"99": 1.0, "88": 1.0, "77": 1.0, "66": 0.9, "55": 0.8,
	"44": 0.7, "33": 0.6, "22": 0.5,
	"AKs": 1.0, "AQs": 1.0, "AJs": 1.0, "ATs": 1.0,
	"A9s": 1.0, "A8s": 0.9, "A7s": 0.8, "A6s": 0.7,
	"A5s": 1.0, "A4s": 0.9, "A3s": 0.8, "A2s": 0.7,
	"KQs": 1.0, "KJs": 1.0, "KTs": 1.0, "K9s": 0.9,
	"K8s": 0.7, "K7s": 0.55,
	"QJs": 1.0, "QTs": 1.0, "Q9s": 0.8, "Q8s": 0.55,
	"JTs": 1.0, "J9s": 0.8, "J8s": 0.55,
	"T9s": 1.0, "T8s": 0.75,
	"98s": 0.9, "87s": 0.8, "76s": 0.75, "65s": 0.7,
	"54s": 0.65, "43s": 0.4,
	"AKo": 1.0, "AQo": 1.0, "AJo": 1.0, "ATo": 0.9,
	"A9o": 0.75, "A8o": 0.6, "A7o": 0.45, "A5o": 0.55,
	"KQo": 1.0, "KJo": 0.9, "KTo": 0.75, "K9o": 0.5,
	"QJo": 0.8, "QTo": 0.6, "Q9o": 0.4,
	"JTo": 0.7, "J9o": 0.45,
	"T9o": 0.5, "98o": 0.4,
}

var mpOpen = map[string]float64{
	"AA": 1.0, "KK": 1.0, "QQ": 1.0, "JJ": 1.0, "TT": 1.0,
	"99": 1.0, "88": 0.9, "77": 0.8, "66": 0.6, "55": 0.5,
	"44": 0.35, "33": 0.25, "22": 0.2,
	"AKs": 1.0, "AQs": 1.0, "AJs": 1.0, "ATs": 1.0,
	"A9s": 0.9, "A8s": 0.75, "A7s": 0.6, "A6s": 0.5,
	"A5s": 0.8, "A4s": 0.7, "A3s": 0.55, "A2s": 0.45,
	"KQs": 1.0, "KJs": 1.0, "KTs": 0.9, "K9s": 0.7,
	"K8s": 0.5,
	"QJs": 1.0, "QTs": 0.9, "Q9s": 0.65,
	"JTs": 0.9, "J9s": 0.65,
	"T9s": 0.85, "T8s": 0.55,
	"98s": 0.75, "87s": 0.6, "76s": 0.55, "65s": 0.45,
	"AKo": 1.0, "AQo": 1.0, "AJo": 0.9, "ATo": 0.75,
	"A9o": 0.55, "A8o": 0.4,
	"KQo": 0.9, "KJo": 0.75, "KTo": 0.55,
	"QJo": 0.65, "QTo": 0.45,
	"JTo": 0.55,
}

var epOpen = map[string]float64{
	"AA": 1.0, "KK": 1.0, "QQ": 1.0, "JJ": 1.0, "TT": 1.0,
	"99": 0.9, "88": 0.75, "77": 0.55, "66": 0.35, "55": 0.25,
	"44": 0.15, "33": 0.1, "22": 0.1,
	"AKs": 1.0, "AQs": 1.0, "AJs": 1.0, "ATs": 0.9,
	"A9s": 0.7, "A8s": 0.55, "A7s": 0.4, "A5s": 0.6, "A4s": 0.45,
	"A3s": 0.35, "A2s": 0.25,
	"KQs": 1.0, "KJs": 0.9, "KTs": 0.75, "K9s": 0.5,
	"QJs": 0.85, "QTs": 0.7,
	"JTs": 0.8, "J9s": 0.5,
	"T9s": 0.65, "T8s": 0.4,
	"98s": 0.55, "87s": 0.4, "76s": 0.35,
	"AKo": 1.0, "AQo": 0.95, "AJo": 0.75, "ATo": 0.55,
	"A9o": 0.35,
	"KQo": 0.8, "KJo": 0.6, "KTo": 0.4,
	"QJo": 0.5, "QTo": 0.3,
	"JTo": 0.4,
}

var sbOpen = map[string]float64{
	"AA": 1.0, "KK": 1.0, "QQ": 1.0, "JJ": 1.0, "TT": 1.0,
	"99": 1.0, "88": 1.0, "77": 0.9, "66": 0.8, "55": 0.75,
	"44": 0.65, "33": 0.55, "22": 0.5,
	"AKs": 1.0, "AQs": 1.0, "AJs": 1.0, "ATs": 1.0,
	"A9s": 0.9, "A8s": 0.8, "A7s": 0.7, "A6s": 0.65,
	"A5s": 1.0, "A4s": 0.9, "A3s": 0.8, "A2s": 0.7,
	"KQs": 1.0, "KJs": 1.0, "KTs": 0.95, "K9s": 0.8,
	"K8s": 0.65, "K7s": 0.55, "K6s": 0.45,
	"QJs": 1.0, "QTs": 0.95, "Q9s": 0.8, "Q8s": 0.6,
	"JTs": 1.0, "J9s": 0.85, "J8s": 0.6,
	"T9s": 0.95, "T8s": 0.75, "T7s": 0.5,
	"98s": 0.85, "87s": 0.75, "76s": 0.7, "65s": 0.65,
	"54s": 0.6, "43s": 0.45,
	"AKo": 1.0, "AQo": 1.0, "AJo": 0.95, "ATo": 0.85,
	"A9o": 0.7, "A8o": 0.6, "A7o": 0.5, "A5o": 0.65, "A4o": 0.55,
	"KQo": 1.0, "KJo": 0.9, "KTo": 0.75, "K9o": 0.55,
	"QJo": 0.8, "QTo": 0.65, "Q9o": 0.45,
	"JTo": 0.7, "J9o": 0.5,
	"T9o": 0.6, "98o": 0.45,
}

// BB defence call frequency vs a single open raise. Premiums are listed at 0
// here because they get 3-bet instead.
var bbCall = map[string]float64{
	"AA": 0.0, "KK": 0.0, "QQ": 0.0, "JJ": 0.0,
	"TT": 0.7, "99": 0.8, "88": 0.85, "77": 0.9, "66": 0.9,
	"55": 0.85, "44": 0.8, "33": 0.75, "22": 0.7,
	"AKs": 0.0, "AQs": 0.0,
	"AJs": 0.85, "ATs": 0.9, "A9s": 0.9, "A8s": 0.85,
	"A7s": 0.8, "A6s": 0.75, "A5s": 0.9, "A4s": 0.85, "A3s": 0.8, "A2s": 0.75,
	"KQs": 0.85, "KJs": 0.9, "KTs": 0.9, "K9s": 0.85, "K8s": 0.7,
	"QJs": 0.9, "QTs": 0.9, "Q9s": 0.8, "Q8s": 0.65,
	"JTs": 0.9, "J9s": 0.8, "J8s": 0.65,
	"T9s": 0.85, "T8s": 0.75, "T7s": 0.55,
	"98s": 0.8, "97s": 0.65, "87s": 0.75, "86s": 0.55,
	"76s": 0.7, "75s": 0.5, "65s": 0.65, "54s": 0.6,
	"AKo": 0.2, "AQo": 0.5, "AJo": 0.8, "ATo": 0.85,
	"A9o": 0.75, "A8o": 0.65, "A7o": 0.55, "A5o": 0.65,
	"KQo": 0.8, "KJo": 0.8, "KTo": 0.75, "K9o": 0.6,
	"QJo": 0.75, "QTo": 0.65, "Q9o": 0.5,
	"JTo": 0.7, "J9o": 0.55,
	"T9o": 0.6, "98o": 0.5, "87o": 0.4,
}

var callVsRaise = map[string]float64{
	"AA": 0.0, "KK": 0.0, "QQ": 0.05,
	"JJ": 0.4, "TT": 0.7, "99": 0.8, "88": 0.85, "77": 0.85,
	"66": 0.8, "55": 0.7, "44": 0.6, "33": 0.5, "22": 0.4,
	"AKs": 0.0, "AQs": 0.3, "AJs": 0.7, "ATs": 0.8,
	"A9s": 0.75, "A8s": 0.7, "A7s": 0.6, "A6s": 0.5,
	"A5s": 0.8, "A4s": 0.7, "A3s": 0.6, "A2s": 0.5,
	"KQs": 0.65, "KJs": 0.75, "KTs": 0.8, "K9s": 0.65,
	"QJs": 0.75, "QTs": 0.75, "Q9s": 0.6,
	"JTs": 0.8, "J9s": 0.65, "J8s": 0.5,
	"T9s": 0.75, "T8s": 0.6,
	"98s": 0.65, "87s": 0.55, "76s": 0.5, "65s": 0.45,
	"AKo": 0.15, "AQo": 0.6, "AJo": 0.7, "ATo": 0.65,
	"A9o": 0.5, "A8o": 0.4,
	"KQo": 0.6, "KJo": 0.6, "KTo": 0.45,
	"QJo": 0.55, "QTo": 0.4,
	"JTo": 0.5,
}

var openTables = map[string]map[string]float64{
	"BTN": btnOpen,
	"CO":  coOpen,
	"MP":  mpOpen,
	"EP":  epOpen,
	"SB":  sbOpen,
	"BB":  {}, // the BB already posted, no open
}

// OpenFreq returns the open-raise frequency for a combo in a position.
func OpenFreq(combo, position string) float64 {
	return openTables[position][combo]
}

// CallFreq returns the call-vs-single-raise frequency for a combo.
func CallFreq(combo, position string) float64 {
	if position == "BB" {
		return bbCall[combo]
	}
	return callVsRaise[combo]
}
