// Package sim drives whole games through the state machine with bot players
// and checks the invariants a real table relies on: thirteen tricks per
// round, every dealt card played exactly once, and a terminal phase of
// round-end or game-end.
package sim

import (
	"fmt"

	"spades/internal/bots"
	"spades/internal/engine"
)

type ActionRecord struct {
	Step   int
	Phase  engine.Phase
	Player string
	Action engine.Action
}

// RunSelfPlay plays one full game to completion using seeded bots and the
// caller-side auto-chaining contract (COLLECT_TRICK after a completing play,
// END_ROUND after the thirteenth trick). maxSteps bounds runaway games.
func RunSelfPlay(seed int64, maxSteps int) error {
	cfg := engine.DefaultConfig()
	// Short games keep the sim fast while still crossing round boundaries.
	cfg.WinningScore = 150

	state := engine.NewGame(fmt.Sprintf("sim-%d", seed), seed, cfg)
	players := []string{"p0", "p1", "p2", "p3"}
	seats := map[string]bots.Bot{}
	for i, id := range players {
		seats[id] = bots.NewNormal(seed + int64(i))
	}

	records := []ActionRecord{}
	apply := func(a engine.Action) (engine.ActionResult, error) {
		res := engine.ProcessAction(state, a, cfg)
		if !res.Valid {
			return res, failure(seed, len(records), state.Phase, a.PlayerID, records, fmt.Sprintf("apply %s: %v", a.Type, res.Err))
		}
		state = res.State
		records = append(records, ActionRecord{Step: len(records), Phase: state.Phase, Player: a.PlayerID, Action: a})
		return res, nil
	}

	for _, id := range players {
		if _, err := apply(engine.Action{Type: engine.ActionPlayerJoin, PlayerID: id, Nickname: id}); err != nil {
			return err
		}
		if _, err := apply(engine.Action{Type: engine.ActionPlayerReady, PlayerID: id}); err != nil {
			return err
		}
	}
	if _, err := apply(engine.Action{Type: engine.ActionStartGame}); err != nil {
		return err
	}
	if _, err := apply(engine.Action{Type: engine.ActionDealCards}); err != nil {
		return err
	}

	seen := map[engine.Card]bool{}
	for step := 0; step < maxSteps; step++ {
		switch state.Phase {
		case engine.PhaseGameEnd:
			return nil

		case engine.PhaseBidding, engine.PhasePlaying:
			current, ok := state.PlayerByPosition(state.CurrentPosition)
			if !ok {
				return failure(seed, step, state.Phase, "", records, "no player at current position")
			}
			action := seats[current.ID].ChooseAction(state, current.ID)
			if action.Type == engine.ActionPlayCard {
				if seen[*action.Card] {
					return failure(seed, step, state.Phase, current.ID, records, fmt.Sprintf("card played twice: %v", action.Card))
				}
				seen[*action.Card] = true
			}
			if _, err := apply(action); err != nil {
				return err
			}
			if err := chainTrickEnd(&state, cfg, records, seed, step); err != nil {
				return err
			}
			if state.Phase == engine.PhaseRoundEnd || state.Phase == engine.PhaseGameEnd {
				if len(seen) != 52 {
					return failure(seed, step, state.Phase, "", records, fmt.Sprintf("round ended with %d distinct cards played", len(seen)))
				}
				seen = map[engine.Card]bool{}
			}

		case engine.PhaseRoundEnd:
			if _, err := apply(engine.Action{Type: engine.ActionStartNextRound}); err != nil {
				return err
			}
			if _, err := apply(engine.Action{Type: engine.ActionDealCards}); err != nil {
				return err
			}

		default:
			return failure(seed, step, state.Phase, "", records, "unexpected phase")
		}
	}
	return failure(seed, maxSteps, state.Phase, "", records, "game did not finish within step budget")
}

// chainTrickEnd applies the mandatory COLLECT_TRICK / END_ROUND follow-ups
// after a play that completed a trick.
func chainTrickEnd(state *engine.GameState, cfg engine.GameConfig, records []ActionRecord, seed int64, step int) error {
	if state.Phase != engine.PhaseTrickEnd {
		return nil
	}
	res := engine.ProcessAction(*state, engine.Action{Type: engine.ActionCollectTrick}, cfg)
	if !res.Valid {
		return failure(seed, step, state.Phase, "", records, fmt.Sprintf("collect trick: %v", res.Err))
	}
	*state = res.State

	if state.Phase == engine.PhaseRoundEnd {
		if got := len(state.Round.Tricks); got != 13 {
			return failure(seed, step, state.Phase, "", records, fmt.Sprintf("round ended with %d tricks", got))
		}
		res = engine.ProcessAction(*state, engine.Action{Type: engine.ActionEndRound}, cfg)
		if !res.Valid {
			return failure(seed, step, state.Phase, "", records, fmt.Sprintf("end round: %v", res.Err))
		}
		*state = res.State
	}
	return nil
}

func failure(seed int64, step int, phase engine.Phase, player string, records []ActionRecord, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	trail := ""
	for _, r := range records[start:] {
		trail += fmt.Sprintf("[s%d %v %s] %s\n", r.Step, r.Phase, r.Player, r.Action.Type)
	}
	return fmt.Errorf("seed=%d step=%d phase=%v player=%s reason=%s\nlast actions:\n%s",
		seed, step, phase, player, reason, trail)
}
