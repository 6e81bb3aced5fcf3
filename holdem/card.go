package holdem

// Rank runs 2..14 with 14 = Ace.
type Rank int

const (
	RANK_TWO   = Rank(2)
	RANK_THREE = Rank(3)
	RANK_FOUR  = Rank(4)
	RANK_FIVE  = Rank(5)
	RANK_SIX   = Rank(6)
	RANK_SEVEN = Rank(7)
	RANK_EIGHT = Rank(8)
	RANK_NINE  = Rank(9)
	RANK_TEN   = Rank(10)
	RANK_JACK  = Rank(11)
	RANK_QUEEN = Rank(12)
	RANK_KING  = Rank(13)
	RANK_ACE   = Rank(14)
)

type Suit string

const (
	SUIT_HEARTS   = Suit("Hearts")
	SUIT_DIAMONDS = Suit("Diamonds")
	SUIT_CLUBS    = Suit("Clubs")
	SUIT_SPADES   = Suit("Spades")
)

var Suits = [4]Suit{SUIT_HEARTS, SUIT_DIAMONDS, SUIT_CLUBS, SUIT_SPADES}

var rankChars = map[Rank]string{
	RANK_ACE: "A", RANK_KING: "K", RANK_QUEEN: "Q", RANK_JACK: "J", RANK_TEN: "T",
	RANK_NINE: "9", RANK_EIGHT: "8", RANK_SEVEN: "7", RANK_SIX: "6",
	RANK_FIVE: "5", RANK_FOUR: "4", RANK_THREE: "3", RANK_TWO: "2",
}

var suitChars = map[Suit]string{
	SUIT_HEARTS: "♥", SUIT_DIAMONDS: "♦", SUIT_CLUBS: "♣", SUIT_SPADES: "♠",
}

func (r Rank) Char() string {
	return rankChars[r]
}

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

func (c Card) String() string {
	return rankChars[c.Rank] + suitChars[c.Suit]
}

// FullDeck returns all 52 unique cards in a fixed order.
func FullDeck() []Card {
	cards := make([]Card, 0, 52)
	for r := RANK_TWO; r <= RANK_ACE; r++ {
		for _, s := range Suits {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return cards
}
