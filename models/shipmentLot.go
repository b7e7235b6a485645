package models

import (
	"strings"
	"time"

	"github.com/mmdatafocus/coffee_export_backend/utils"
	"github.com/shopspring/decimal"
)

// ShipmentLot is one partida of a contract.
type ShipmentLot struct {
	ID              int                    `gorm:"primary_key" json:"id"`
	ContractId      int                    `gorm:"index;not null" json:"contract_id"`
	LotNumber       string                 `gorm:"size:100" json:"lot_number"`
	WeightKg        decimal.Decimal        `gorm:"type:decimal(20,4);default:0" json:"weight_kg"`
	StandardUnits   *decimal.Decimal       `gorm:"type:decimal(20,4);default:null" json:"standard_units"`
	SettledPrice    decimal.Decimal        `gorm:"type:decimal(20,4);default:0" json:"settled_price"`
	PackageType     string                 `gorm:"size:255" json:"package_type"`
	UnitCount       int                    `gorm:"not null;default:0" json:"unit_count"`
	PackagingSeeded bool                   `gorm:"not null;default:false" json:"packaging_seeded"`
	Packaging       []PackagingRequirement `gorm:"foreignKey:LotId" json:"packaging"`
	CreatedAt       time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewShipmentLot carries raw form input; numeric fields accept numbers or
// formatted strings and anything unparseable becomes zero.
type NewShipmentLot struct {
	LotNumber     string `json:"lot_number"`
	WeightKg      any    `json:"weight_kg"`
	StandardUnits any    `json:"standard_units"`
	SettledPrice  any    `json:"settled_price"`
	PackageType   string `json:"package_type"`
	UnitCount     any    `json:"unit_count"`
}

func BuildShipmentLot(input NewShipmentLot) ShipmentLot {
	lot := ShipmentLot{
		LotNumber:    strings.TrimSpace(input.LotNumber),
		WeightKg:     utils.CoerceDecimal(input.WeightKg),
		SettledPrice: utils.CoerceDecimal(input.SettledPrice),
		PackageType:  strings.TrimSpace(input.PackageType),
		UnitCount:    int(utils.CoerceDecimal(input.UnitCount).IntPart()),
	}
	if input.StandardUnits != nil {
		if s, ok := input.StandardUnits.(string); !ok || strings.TrimSpace(s) != "" {
			units := utils.CoerceDecimal(input.StandardUnits)
			lot.StandardUnits = &units
		}
	}
	return lot
}

func (l ShipmentLot) Clone() ShipmentLot {
	out := l
	if l.StandardUnits != nil {
		u := *l.StandardUnits
		out.StandardUnits = &u
	}
	if l.Packaging != nil {
		out.Packaging = append([]PackagingRequirement(nil), l.Packaging...)
	}
	return out
}

// EnsurePackaging seeds the packaging list from the package type the first time
// it is needed. Once seeded, the stored list is authoritative even if empty.
// Returns true when the lot changed.
func (l *ShipmentLot) EnsurePackaging() bool {
	if l.PackagingSeeded {
		return false
	}
	if len(l.Packaging) == 0 {
		l.Packaging = DeriveRequirements(l.PackageType, l.UnitCount)
	}
	for i := range l.Packaging {
		l.Packaging[i].LotId = l.ID
	}
	l.PackagingSeeded = true
	return true
}
