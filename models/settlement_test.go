package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

// 46,000 kg at $10/qq is worth $10,000.
func tenThousandContract() Contract {
	return Contract{
		ID:             1,
		ContractNumber: "CV-001",
		Lots: []ShipmentLot{
			{ID: 1, WeightKg: dec("27600"), SettledPrice: dec("10")},
			{ID: 2, WeightKg: dec("18400"), SettledPrice: dec("10")},
		},
		Deductions: []DeductionItem{
			{ID: "tax", Concept: DeductionConceptTax, Amount: dec("250")},
			{ID: "fee", Concept: DeductionConceptLicenceFee, Amount: dec("46")},
			{ID: "fito", Concept: DeductionConceptPhytosanitary, Amount: dec("45.45")},
		},
		DeductionsSeeded: true,
	}
}

func TestSettle_EndToEndScenario(t *testing.T) {
	contract := tenThousandContract()
	payments := []Payment{
		{ID: "p1", ContractId: 1, Amount: dec("5000")},
		{ID: "other", ContractId: 2, Amount: dec("123")},
		{ID: "p2", ContractId: 1, Amount: dec("4000")},
	}

	s := Settle(contract, payments)
	if !s.Value.Equal(dec("10000")) || !s.DeductionsTotal.Equal(dec("341.45")) || !s.Paid.Equal(dec("9000")) {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if !s.Balance.Equal(dec("658.55")) || !s.Overpayment.IsZero() || !s.ExtraTax.IsZero() {
		t.Fatalf("unexpected balance: %+v", s)
	}
	if s.State != LiquidationStatePending || s.StateLabel != "Pending, partial summary viewable" {
		t.Fatalf("expected pending, got %s", s.State)
	}

	payments = AppendPayment(payments, Payment{ID: "p3", ContractId: 1, Amount: dec("700")})
	s = Settle(contract, payments)
	if !s.Balance.Equal(dec("-41.45")) || !s.Overpayment.Equal(dec("41.45")) {
		t.Fatalf("unexpected overpayment: %+v", s)
	}
	if !s.ExtraTax.Round(2).Equal(dec("1.04")) || !s.Rounded().ExtraTax.Equal(dec("1.04")) {
		t.Fatalf("expected extra tax 1.04, got %s", s.ExtraTax)
	}
	if s.State != LiquidationStateReadyToFinalize {
		t.Fatalf("expected ready to finalize, got %s", s.State)
	}

	contract.LiquidationFinalized = true
	if s = Settle(contract, payments); s.State != LiquidationStateFinalized {
		t.Fatalf("expected finalized, got %s", s.State)
	}
}

func TestSettle_Identities(t *testing.T) {
	cases := []struct {
		name       string
		price      string
		deductions []string
		payments   []string
	}{
		{"zero value", "0", []string{"45.45"}, []string{"100"}},
		{"negative deduction", "10", []string{"-500", "20"}, []string{"9000"}},
		{"exact payoff", "10", []string{"1000"}, []string{"4000", "5000"}},
		{"nothing paid", "185.5", []string{"10"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Contract{ID: 5, DeductionsSeeded: true, Lots: []ShipmentLot{{WeightKg: dec("46000"), SettledPrice: dec(tc.price)}}}
			for i, d := range tc.deductions {
				c.Deductions = append(c.Deductions, DeductionItem{ID: string(rune('a' + i)), Amount: dec(d)})
			}
			var payments []Payment
			for _, p := range tc.payments {
				payments = append(payments, Payment{ContractId: 5, Amount: dec(p)})
			}

			s := Settle(c, payments)
			if !s.Balance.Equal(s.Value.Sub(s.DeductionsTotal).Sub(s.Paid)) {
				t.Fatalf("balance identity broken: %+v", s)
			}
			expectedOver := decimal.Max(decimal.Zero, s.Balance.Neg())
			if !s.Overpayment.Equal(expectedOver) {
				t.Fatalf("overpayment identity broken: %+v", s)
			}
			if !s.ExtraTax.Equal(s.Overpayment.Mul(dec("0.025"))) {
				t.Fatalf("extra tax identity broken: %+v", s)
			}
			if s.Balance.IsPositive() != (s.State == LiquidationStatePending) {
				t.Fatalf("state %s does not match balance %s", s.State, s.Balance)
			}
		})
	}
}

func TestSettle_EmptyLedgerUsesLiveDefaults(t *testing.T) {
	cases := []struct {
		name   string
		seeded bool
	}{
		{"never seeded", false},
		{"emptied after seeding", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			contract := tenThousandContract()
			contract.Deductions = nil
			contract.DeductionsSeeded = tc.seeded

			// 250 tax + 1000 qq licence + 45.45 phytosanitary
			s := Settle(contract, nil)
			if !s.DeductionsProvisional || !s.DeductionsTotal.Equal(dec("1295.45")) {
				t.Fatalf("expected provisional 1295.45, got %+v", s)
			}
			if !s.Balance.Equal(dec("8704.55")) || s.State != LiquidationStatePending {
				t.Fatalf("unexpected balance or state: %+v", s)
			}
			if contract.Deductions != nil || contract.DeductionsSeeded != tc.seeded {
				t.Fatalf("settle must not mutate the contract")
			}
		})
	}

	// any item, even a zero one, makes the ledger authoritative
	contract := tenThousandContract()
	contract.Deductions = []DeductionItem{{ID: "z", Amount: decimal.Zero}}
	if s := Settle(contract, nil); s.DeductionsProvisional || !s.DeductionsTotal.IsZero() {
		t.Fatalf("expected ledger total 0, got %+v", s)
	}
}

func TestSettle_EmptyContract(t *testing.T) {
	// only the fixed phytosanitary cost survives a contract with no lots
	s := Settle(Contract{ID: 9, DeductionsSeeded: true}, nil)
	if !s.Value.IsZero() || !s.DeductionsTotal.Equal(dec("45.45")) || !s.Balance.Equal(dec("-45.45")) {
		t.Fatalf("unexpected empty settlement: %+v", s)
	}
	if s.State != LiquidationStateReadyToFinalize {
		t.Fatalf("expected ready to finalize, got %s", s.State)
	}
}
