package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mmdatafocus/coffee_export_backend/utils"
	"github.com/shopspring/decimal"
)

const (
	MaterialSacosYute      = "Sacos de Yute"
	MaterialBolsasGrainPro = "Bolsas GrainPro"
	MaterialBigBag         = "Big Bag"
	MaterialTarimas        = "Tarimas"
	MaterialJumbo          = "Jumbo"
)

type PackagingRequirement struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	LotId     int             `gorm:"index;not null" json:"lot_id"`
	Material  string          `gorm:"size:255" json:"material"`
	Required  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"required"`
	Purchased decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"purchased"`
	SortOrder int             `gorm:"not null;default:0" json:"-"`
}

// Status reports procurement progress. Buying more than required is Completed.
func (p PackagingRequirement) Status() PackagingStatus {
	switch {
	case p.Purchased.GreaterThanOrEqual(p.Required) && p.Purchased.IsPositive():
		return PackagingStatusCompleted
	case p.Required.IsZero() && p.Purchased.IsZero():
		return PackagingStatusCompleted
	case p.Purchased.IsPositive():
		return PackagingStatusPartial
	default:
		return PackagingStatusPending
	}
}

func newRequirement(material string, qty int) PackagingRequirement {
	return PackagingRequirement{
		ID:        uuid.NewString(),
		Material:  material,
		Required:  decimal.NewFromInt(int64(qty)),
		Purchased: decimal.Zero,
	}
}

// DeriveRequirements maps a package type label and unit count to the packaging
// materials to buy. Rules are checked in order, first match wins.
func DeriveRequirements(packageType string, unitCount int) []PackagingRequirement {
	if unitCount <= 0 {
		return []PackagingRequirement{}
	}
	switch {
	case strings.Contains(packageType, "Sacos de Yute") && strings.Contains(packageType, "GrainPro"):
		return []PackagingRequirement{
			newRequirement(MaterialSacosYute, unitCount),
			newRequirement(MaterialBolsasGrainPro, unitCount),
		}
	case strings.Contains(packageType, "Saco de Yute"):
		return []PackagingRequirement{newRequirement(MaterialSacosYute, unitCount)}
	case strings.Contains(packageType, "Big Bag"):
		return []PackagingRequirement{
			newRequirement(MaterialBigBag, unitCount),
			newRequirement(MaterialTarimas, (unitCount+1)/2),
		}
	case strings.Contains(packageType, "Jumbo"):
		return []PackagingRequirement{newRequirement(MaterialJumbo, unitCount)}
	default:
		return []PackagingRequirement{}
	}
}

// AddPackagingItem appends an empty requirement for lotId.
func AddPackagingItem(items []PackagingRequirement, lotId int) []PackagingRequirement {
	out := make([]PackagingRequirement, 0, len(items)+1)
	out = append(out, items...)
	return append(out, PackagingRequirement{
		ID:        uuid.NewString(),
		LotId:     lotId,
		Required:  decimal.Zero,
		Purchased: decimal.Zero,
	})
}

func RemovePackagingItem(items []PackagingRequirement, id string) ([]PackagingRequirement, error) {
	out := make([]PackagingRequirement, 0, len(items))
	found := false
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		out = append(out, item)
	}
	if !found {
		return out, ErrPackagingItemNotFound
	}
	return out, nil
}

func SetPackagingMaterial(items []PackagingRequirement, id string, material string) ([]PackagingRequirement, error) {
	return updatePackagingItem(items, id, func(p *PackagingRequirement) {
		p.Material = material
	})
}

func SetPackagingRequired(items []PackagingRequirement, id string, raw any) ([]PackagingRequirement, error) {
	return updatePackagingItem(items, id, func(p *PackagingRequirement) {
		p.Required = utils.CoerceDecimal(raw)
	})
}

func SetPackagingPurchased(items []PackagingRequirement, id string, raw any) ([]PackagingRequirement, error) {
	return updatePackagingItem(items, id, func(p *PackagingRequirement) {
		p.Purchased = utils.CoerceDecimal(raw)
	})
}

func updatePackagingItem(items []PackagingRequirement, id string, apply func(*PackagingRequirement)) ([]PackagingRequirement, error) {
	out := append([]PackagingRequirement(nil), items...)
	for i := range out {
		if out[i].ID == id {
			apply(&out[i])
			return out, nil
		}
	}
	return out, ErrPackagingItemNotFound
}

type PackagingMaterialSummary struct {
	Material    string          `json:"material"`
	Required    decimal.Decimal `json:"required"`
	Purchased   decimal.Decimal `json:"purchased"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      PackagingStatus `json:"status"`
}

// PackagingSummary totals required and purchased quantities per material across
// lots, in order of first appearance. Lots never seeded contribute their derived
// requirements.
func PackagingSummary(lots []ShipmentLot) []PackagingMaterialSummary {
	index := map[string]int{}
	var out []PackagingMaterialSummary
	for _, lot := range lots {
		items := lot.Packaging
		if !lot.PackagingSeeded && len(items) == 0 {
			items = DeriveRequirements(lot.PackageType, lot.UnitCount)
		}
		for _, item := range items {
			material := strings.TrimSpace(item.Material)
			i, ok := index[material]
			if !ok {
				i = len(out)
				index[material] = i
				out = append(out, PackagingMaterialSummary{Material: material})
			}
			out[i].Required = out[i].Required.Add(item.Required)
			out[i].Purchased = out[i].Purchased.Add(item.Purchased)
		}
	}
	for i := range out {
		outstanding := out[i].Required.Sub(out[i].Purchased)
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}
		out[i].Outstanding = outstanding
		out[i].Status = PackagingRequirement{Required: out[i].Required, Purchased: out[i].Purchased}.Status()
	}
	return out
}
