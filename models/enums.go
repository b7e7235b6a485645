package models

import (
	"encoding/json"
	"errors"
)

// Package type labels offered by the lot form. Free-text labels are allowed too,
// the packaging rules match on substrings.
const (
	PackageTypeSacoYute         = "Saco de Yute"
	PackageTypeSacoYuteGrainPro = "Sacos de Yute + GrainPro"
	PackageTypeBigBag           = "Big Bag"
	PackageTypeJumbo            = "Jumbo"
	PackageTypeOther            = "Otro"
)

type LiquidationState string

const (
	LiquidationStatePending         LiquidationState = "Pending"
	LiquidationStateReadyToFinalize LiquidationState = "ReadyToFinalize"
	LiquidationStateFinalized       LiquidationState = "Finalized"
)

// Label is the text shown next to the liquidation actions.
func (s LiquidationState) Label() string {
	switch s {
	case LiquidationStateFinalized:
		return "Finalized, view available"
	case LiquidationStateReadyToFinalize:
		return "Ready to finalize"
	default:
		return "Pending, partial summary viewable"
	}
}

func (s *LiquidationState) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("liquidation state must be string")
	}
	switch str {
	case "Pending":
		*s = LiquidationStatePending
	case "ReadyToFinalize":
		*s = LiquidationStateReadyToFinalize
	case "Finalized":
		*s = LiquidationStateFinalized
	default:
		return errors.New("invalid liquidation state")
	}
	return nil
}

type PackagingStatus string

const (
	PackagingStatusPending   PackagingStatus = "Pending"
	PackagingStatusPartial   PackagingStatus = "Partial"
	PackagingStatusCompleted PackagingStatus = "Completed"
)
