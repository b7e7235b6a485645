package models

import (
	"github.com/google/uuid"
	"github.com/mmdatafocus/coffee_export_backend/utils"
	"github.com/shopspring/decimal"
)

const (
	DeductionConceptTax           = "Impuestos (2.5% sobre valor del contrato)"
	DeductionConceptLicenceFee    = "Honorarios Licencia ($1.00/qq)"
	DeductionConceptPhytosanitary = "Costo Fitosanitario (Fijo)"
)

var (
	ExportTaxRate        = decimal.RequireFromString("0.025")
	LicenceFeePerQuintal = decimal.RequireFromString("1.00")
	PhytosanitaryCost    = decimal.RequireFromString("45.45")
)

type DeductionItem struct {
	ID         string          `gorm:"primaryKey;size:36" json:"id"`
	ContractId int             `gorm:"index;not null" json:"contract_id"`
	Concept    string          `gorm:"size:255" json:"concept"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	SortOrder  int             `gorm:"not null;default:0" json:"-"`
}

// SeedDefaultDeductions builds the standard tax, licence fee and phytosanitary
// items for a contract value and its total quintals.
func SeedDefaultDeductions(contractValue decimal.Decimal, totalUnits decimal.Decimal) []DeductionItem {
	return []DeductionItem{
		{ID: uuid.NewString(), Concept: DeductionConceptTax, Amount: contractValue.Mul(ExportTaxRate).Round(2)},
		{ID: uuid.NewString(), Concept: DeductionConceptLicenceFee, Amount: totalUnits.Mul(LicenceFeePerQuintal).Round(2)},
		{ID: uuid.NewString(), Concept: DeductionConceptPhytosanitary, Amount: PhytosanitaryCost.Round(2)},
	}
}

// DefaultDeductionsTotal is the total SeedDefaultDeductions would produce.
func DefaultDeductionsTotal(contractValue decimal.Decimal, totalUnits decimal.Decimal) decimal.Decimal {
	return DeductionsTotal(SeedDefaultDeductions(contractValue, totalUnits))
}

func AddDeductionItem(items []DeductionItem) []DeductionItem {
	out := make([]DeductionItem, 0, len(items)+1)
	out = append(out, items...)
	return append(out, DeductionItem{ID: uuid.NewString(), Amount: decimal.Zero})
}

func RemoveDeductionItem(items []DeductionItem, id string) ([]DeductionItem, error) {
	out := make([]DeductionItem, 0, len(items))
	found := false
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		out = append(out, item)
	}
	if !found {
		return out, ErrDeductionNotFound
	}
	return out, nil
}

// SetDeductionConcept replaces the concept text; any text is accepted.
func SetDeductionConcept(items []DeductionItem, id string, concept string) ([]DeductionItem, error) {
	return updateDeductionItem(items, id, func(d *DeductionItem) {
		d.Concept = concept
	})
}

// SetDeductionAmount replaces the amount; unparseable input becomes zero.
func SetDeductionAmount(items []DeductionItem, id string, raw any) ([]DeductionItem, error) {
	return updateDeductionItem(items, id, func(d *DeductionItem) {
		d.Amount = utils.CoerceDecimal(raw)
	})
}

func updateDeductionItem(items []DeductionItem, id string, apply func(*DeductionItem)) ([]DeductionItem, error) {
	out := append([]DeductionItem(nil), items...)
	for i := range out {
		if out[i].ID == id {
			apply(&out[i])
			return out, nil
		}
	}
	return out, ErrDeductionNotFound
}

func DeductionsTotal(items []DeductionItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
