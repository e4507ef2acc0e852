package services

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

// GameService decides wager outcomes from the operator-tuned win ratio.
// The decision is policy on top of the ledger: the ledger only ever sees
// the (result, payout) pair this produces.
type GameService struct {
	Settings *SettingsService
	roll     func(n int) int
}

func NewGameService(settings *SettingsService) *GameService {
	return &GameService{Settings: settings, roll: rand.Intn}
}

// DecideOutcome rolls against the game's win ratio. A win pays the stake
// times winMultiplier, a loss pays nothing.
func (s *GameService) DecideOutcome(gameID string, stake decimal.Decimal, winMultiplier float64) (string, decimal.Decimal, error) {
	if winMultiplier <= 0 || !stake.IsPositive() {
		return "", decimal.Zero, ErrValidation
	}

	cfg, err := s.Settings.GetGameSetting(gameID)
	if err != nil {
		return "", decimal.Zero, err
	}

	if s.roll(100) < cfg.WinRatio {
		return models.ResultWin, common.MulFactor(stake, winMultiplier), nil
	}
	return models.ResultLoss, decimal.Zero, nil
}
