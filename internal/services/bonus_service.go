package services

import (
	"github.com/shopspring/decimal"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

// BonusResult is what an approved deposit credits and locks.
type BonusResult struct {
	BonusAmount         decimal.Decimal
	TotalCredit         decimal.Decimal
	TurnoverRequirement decimal.Decimal
	AppliedPercent      float64
	Multiplier          float64
}

// ComputeBonus decides the bonus and wagering requirement for a deposit
// being approved. Precedence: user opt-out beats everything, then the
// per-user special override, then the tier matching the deposit ordinal,
// then the plain 1x path once all three tiers are spent. A tier with a
// zero bonus percent still uses that tier's turnover multiplier.
//
// Pure function of (account, amount, opt-out, settings); all account
// fields are read as of the approval transaction.
func ComputeBonus(acct *models.Account, amount decimal.Decimal, wantsBonus bool, cfg models.BonusTierSettings) BonusResult {
	if !wantsBonus {
		amount = common.RoundMoney(amount)
		return BonusResult{
			BonusAmount:         decimal.Zero,
			TotalCredit:         amount,
			TurnoverRequirement: amount,
			AppliedPercent:      0,
			Multiplier:          1,
		}
	}

	var percent, multiplier float64

	if acct.SpecialBonusPercent != nil {
		percent = *acct.SpecialBonusPercent
		if acct.SpecialBonusTurnover != nil {
			multiplier = *acct.SpecialBonusTurnover
		} else {
			multiplier = cfg.DefaultTurnover
		}
	} else {
		switch acct.DepositCount + 1 {
		case 1:
			percent, multiplier = cfg.FirstBonusPercent, cfg.FirstTurnover
		case 2:
			percent, multiplier = cfg.SecondBonusPercent, cfg.SecondTurnover
		case 3:
			percent, multiplier = cfg.ThirdBonusPercent, cfg.ThirdTurnover
		default:
			percent, multiplier = 0, 1
		}
	}

	bonus := common.PercentOf(amount, percent)
	totalCredit := amount.Add(bonus)

	return BonusResult{
		BonusAmount:         bonus,
		TotalCredit:         totalCredit,
		TurnoverRequirement: common.MulFactor(totalCredit, multiplier),
		AppliedPercent:      percent,
		Multiplier:          multiplier,
	}
}
