package server

import "spades/internal/engine"

// effectsToEvents translates machine side effects into outbound events, in
// the order the machine emitted them. DEAL_HANDS is absent here on purpose:
// hands go out privately, never in a broadcast.
func effectsToEvents(state engine.GameState, effects []engine.SideEffect) []Event {
	events := []Event{}
	for _, effect := range effects {
		switch effect.Type {
		case engine.EffectTrickComplete:
			events = append(events, Event{Type: "trick_won", Data: map[string]interface{}{
				"winnerId":    effect.WinnerID,
				"trickNumber": effect.TrickNumber,
			}})
		case engine.EffectRoundComplete:
			events = append(events, Event{Type: "round_end", Data: map[string]interface{}{
				"scores":       state.Scores,
				"roundSummary": effect.Summary,
			}})
		case engine.EffectGameComplete:
			events = append(events, Event{Type: "game_ended", Data: map[string]interface{}{
				"winningTeam": effect.Winner,
				"finalScores": state.Scores,
			}})
		}
	}
	return events
}
