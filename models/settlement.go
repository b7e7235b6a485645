package models

import "github.com/shopspring/decimal"

// OverpaymentSurchargeRate applies to whatever was paid beyond the net value.
var OverpaymentSurchargeRate = decimal.RequireFromString("0.025")

type Settlement struct {
	ContractId      int              `json:"contract_id"`
	Value           decimal.Decimal  `json:"value"`
	DeductionsTotal decimal.Decimal  `json:"deductions_total"`
	Paid            decimal.Decimal  `json:"paid"`
	Balance         decimal.Decimal  `json:"balance"`
	Overpayment     decimal.Decimal  `json:"overpayment"`
	ExtraTax        decimal.Decimal  `json:"extra_tax"`
	State           LiquidationState `json:"state"`
	StateLabel      string           `json:"state_label"`
	// DeductionsProvisional is set when the deduction ledger is empty and
	// DeductionsTotal holds the live defaults instead. The defaults are never saved.
	DeductionsProvisional bool `json:"deductions_provisional"`
}

// Settle computes the liquidation figures of a contract from its lots, its
// deduction ledger and the payments recorded against it. payments may hold
// payments of other contracts.
func Settle(contract Contract, payments []Payment) Settlement {
	value := ContractValue(contract.Lots)

	var deductions decimal.Decimal
	provisional := false
	if len(contract.Deductions) > 0 {
		deductions = DeductionsTotal(contract.Deductions)
	} else {
		deductions = DefaultDeductionsTotal(value, TotalStandardUnits(contract.Lots))
		provisional = true
	}

	paid := PaymentsTotal(PaymentsForContract(payments, contract.ID))
	balance := value.Sub(deductions).Sub(paid)
	overpayment := decimal.Zero
	if balance.IsNegative() {
		overpayment = balance.Neg()
	}

	s := Settlement{
		ContractId:            contract.ID,
		Value:                 value,
		DeductionsTotal:       deductions,
		Paid:                  paid,
		Balance:               balance,
		Overpayment:           overpayment,
		ExtraTax:              overpayment.Mul(OverpaymentSurchargeRate),
		DeductionsProvisional: provisional,
	}
	s.State = liquidationState(contract.LiquidationFinalized, balance)
	s.StateLabel = s.State.Label()
	return s
}

func liquidationState(finalized bool, balance decimal.Decimal) LiquidationState {
	switch {
	case finalized:
		return LiquidationStateFinalized
	case !balance.IsPositive():
		return LiquidationStateReadyToFinalize
	default:
		return LiquidationStatePending
	}
}

// Rounded returns the settlement with every amount rounded to cents.
func (s Settlement) Rounded() Settlement {
	s.Value = s.Value.Round(2)
	s.DeductionsTotal = s.DeductionsTotal.Round(2)
	s.Paid = s.Paid.Round(2)
	s.Balance = s.Balance.Round(2)
	s.Overpayment = s.Overpayment.Round(2)
	s.ExtraTax = s.ExtraTax.Round(2)
	return s
}
