package models

import (
	"errors"
	"fmt"
)

var (
	ErrContractRequired      = errors.New("contract is required")
	ErrCompanyNotAllowed     = errors.New("company is not one of the configured exporting companies")
	ErrPaymentAmountRequired = errors.New("payment amount is required")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrReportNumberRequired  = errors.New("report number is required")
	ErrReportRecordNotFound  = errors.New("report record not found")
	ErrDeductionNotFound     = errors.New("deduction item not found")
	ErrPackagingItemNotFound = errors.New("packaging item not found")
	ErrLotNotFound           = errors.New("shipment lot not found")
	ErrLiquidationNotReady   = errors.New("liquidation has an outstanding balance and cannot be finalized")
)

// ReportNumberConflictError names the contract already holding a report number
// within the same harvest year and company.
type ReportNumberConflictError struct {
	ReportNo       string `json:"report_no"`
	ContractId     int    `json:"contract_id"`
	ContractNumber string `json:"contract_number"`
	RecordId       string `json:"record_id"`
}

func (e *ReportNumberConflictError) Error() string {
	return fmt.Sprintf("report number %q is already used by contract %s", e.ReportNo, e.ContractNumber)
}
