package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/coffee_export_backend/utils"
	"github.com/shopspring/decimal"
)

type Payment struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	ContractId  int             `gorm:"index;not null" json:"contract_id"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Concept     string          `gorm:"size:255;default:null" json:"concept"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewPayment struct {
	ContractId  int        `json:"contract_id" validate:"required"`
	PaymentDate *time.Time `json:"payment_date" validate:"required"`
	Amount      any        `json:"amount"`
	Concept     string     `json:"concept"`
}

// BuildPayment validates input and returns an unsaved payment with a fresh id.
// A zero or unparseable amount blocks creation.
func BuildPayment(input NewPayment) (*Payment, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	amount := utils.CoerceDecimal(input.Amount)
	if amount.IsZero() {
		return nil, ErrPaymentAmountRequired
	}
	return &Payment{
		ID:          uuid.NewString(),
		ContractId:  input.ContractId,
		PaymentDate: *input.PaymentDate,
		Amount:      amount,
		Concept:     strings.TrimSpace(input.Concept),
		CreatedAt:   time.Now(),
	}, nil
}

func AppendPayment(payments []Payment, payment Payment) []Payment {
	out := make([]Payment, 0, len(payments)+1)
	out = append(out, payments...)
	return append(out, payment)
}

func RemovePayment(payments []Payment, id string) ([]Payment, error) {
	out := make([]Payment, 0, len(payments))
	found := false
	for _, p := range payments {
		if p.ID == id {
			found = true
			continue
		}
		out = append(out, p)
	}
	if !found {
		return out, ErrPaymentNotFound
	}
	return out, nil
}

// PaymentsForContract keeps insertion order.
func PaymentsForContract(payments []Payment, contractId int) []Payment {
	out := make([]Payment, 0)
	for _, p := range payments {
		if p.ContractId == contractId {
			out = append(out, p)
		}
	}
	return out
}

func PaymentsTotal(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
