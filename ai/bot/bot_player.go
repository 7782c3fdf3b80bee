package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/twai/twai/config"
	"github.com/twai/twai/equity"
	"github.com/twai/twai/game"
)

// BotTurnPlayer is a game session driven by a Selector. It is what a
// front end holds on to: ask for the next moves, play them, lock, render.
type BotTurnPlayer struct {
	*game.Session
	selector *Selector
	weights  equity.Weights
	cfg      *config.Config
	table    *equity.CostTable
}

// NewBotTurnPlayer builds a selector from the configured weights and
// starts a session. newSource supplies the pieces of every new game; nil
// means unseeded random pieces.
func NewBotTurnPlayer(cfg *config.Config, newSource func() game.PieceSource) (*BotTurnPlayer, error) {
	w, err := equity.WeightsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	p := &BotTurnPlayer{cfg: cfg}
	if frac := cfg.GetFloat64(config.ConfigEvalCacheFraction); frac > 0 {
		p.table = equity.NewCostTable(frac)
	}
	p.setWeights(w)
	p.Session = game.NewSession(cfg.GetInt(config.ConfigBoardHeight),
		cfg.GetInt(config.ConfigBoardWidth), p.selector, newSource)
	return p, nil
}

func (p *BotTurnPlayer) setWeights(w equity.Weights) {
	p.weights = w
	var calc equity.CostCalculator = equity.NewHeuristicCalculator(w)
	if p.table != nil {
		// costs from the old weights are no longer valid
		p.table.Reset()
		calc = equity.NewCachedCalculator(calc, p.table,
			p.cfg.GetInt(config.ConfigBoardHeight), p.cfg.GetInt(config.ConfigBoardWidth))
	}
	p.selector = NewSelector(calc)
	p.selector.SetLookahead(p.cfg.GetBool(config.ConfigLookahead))
	p.selector.SetThreads(p.cfg.GetInt(config.ConfigScoringThreads))
	log.Debug().Interface("weights", w).Bool("lookahead", p.selector.Lookahead()).Msg("selector-configured")
}

// SetWeights replaces the weights used for later decisions.
func (p *BotTurnPlayer) SetWeights(w equity.Weights) {
	p.setWeights(w)
	if p.Session != nil {
		p.SetPlanner(p.selector)
	}
}

func (p *BotTurnPlayer) Weights() equity.Weights { return p.weights }
func (p *BotTurnPlayer) Selector() *Selector     { return p.selector }

// SetLookahead changes lookahead on the current selector.
func (p *BotTurnPlayer) SetLookahead(l bool) {
	p.cfg.Set(config.ConfigLookahead, l)
	p.selector.SetLookahead(l)
}

// CostTable returns the evaluation cache, or nil if it is off.
func (p *BotTurnPlayer) CostTable() *equity.CostTable {
	return p.table
}
