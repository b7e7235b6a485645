package models

import (
	"github.com/mmdatafocus/coffee_export_backend/utils"
	"github.com/shopspring/decimal"
)

// QuintalKg is the weight of one standard pricing unit (qq).
var QuintalKg = decimal.NewFromInt(46)

// LotStandardUnits returns the lot's quintals: the explicit override when set,
// otherwise weight / 46.
func LotStandardUnits(lot ShipmentLot) decimal.Decimal {
	return utils.DereferencePtr(lot.StandardUnits, lot.WeightKg.Div(QuintalKg))
}

// LotValue is quintals times the settled price; unpriced lots are worth zero.
func LotValue(lot ShipmentLot) decimal.Decimal {
	return LotStandardUnits(lot).Mul(lot.SettledPrice)
}

func ContractValue(lots []ShipmentLot) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(LotValue(lot))
	}
	return total
}

func TotalStandardUnits(lots []ShipmentLot) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(LotStandardUnits(lot))
	}
	return total
}

func TotalWeightKg(lots []ShipmentLot) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(lot.WeightKg)
	}
	return total
}
