package server

import (
	"errors"

	"spades/internal/engine"
)

type CardDTO struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

func cardToDTO(c engine.Card) CardDTO {
	return CardDTO{Suit: c.Suit.String(), Rank: c.Rank.String()}
}

func cardsToDTO(cards []engine.Card) []CardDTO {
	out := make([]CardDTO, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToDTO(c))
	}
	return out
}

func (c CardDTO) toEngine() (engine.Card, error) {
	suit, err := parseSuit(c.Suit)
	if err != nil {
		return engine.Card{}, err
	}
	rank, err := parseRank(c.Rank)
	if err != nil {
		return engine.Card{}, err
	}
	return engine.Card{Suit: suit, Rank: rank}, nil
}

func parseSuit(s string) (engine.Suit, error) {
	switch s {
	case "spades":
		return engine.SuitSpades, nil
	case "hearts":
		return engine.SuitHearts, nil
	case "diamonds":
		return engine.SuitDiamonds, nil
	case "clubs":
		return engine.SuitClubs, nil
	default:
		return engine.SuitSpades, errors.New("invalid suit")
	}
}

func parseRank(r string) (engine.Rank, error) {
	switch r {
	case "2":
		return engine.Rank2, nil
	case "3":
		return engine.Rank3, nil
	case "4":
		return engine.Rank4, nil
	case "5":
		return engine.Rank5, nil
	case "6":
		return engine.Rank6, nil
	case "7":
		return engine.Rank7, nil
	case "8":
		return engine.Rank8, nil
	case "9":
		return engine.Rank9, nil
	case "10":
		return engine.Rank10, nil
	case "J":
		return engine.RankJ, nil
	case "Q":
		return engine.RankQ, nil
	case "K":
		return engine.RankK, nil
	case "A":
		return engine.RankA, nil
	default:
		return engine.Rank2, errors.New("invalid rank")
	}
}

// ClientMessage is one inbound websocket frame.
type ClientMessage struct {
	Type         string   `json:"type"`
	Nickname     string   `json:"nickname,omitempty"`
	RoomID       string   `json:"roomId,omitempty"`
	Bid          int      `json:"bid,omitempty"`
	IsNil        bool     `json:"isNil,omitempty"`
	IsBlindNil   bool     `json:"isBlindNil,omitempty"`
	Card         *CardDTO `json:"card,omitempty"`
	SessionToken string   `json:"sessionToken,omitempty"`
	Mods         []string `json:"mods,omitempty"`
	BotLevel     string   `json:"botLevel,omitempty"`
}

// ServerMessage is one outbound websocket frame.
type ServerMessage struct {
	Type         string     `json:"type"`
	State        *GameView  `json:"state,omitempty"`
	Events       []Event    `json:"events,omitempty"`
	Error        *ErrorView `json:"error,omitempty"`
	Hand         []CardDTO  `json:"hand,omitempty"`
	RoomID       string     `json:"roomId,omitempty"`
	SessionToken string     `json:"sessionToken,omitempty"`
	Position     *int       `json:"position,omitempty"`
}

type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
