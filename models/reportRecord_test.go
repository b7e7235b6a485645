package models

import (
	"errors"
	"testing"
	"time"
)

func reportContracts() []Contract {
	return []Contract{
		{ID: 1, ContractNumber: "CV-001", HarvestYear: "2024-2025", Company: "Cafes del Norte",
			ReportRecords: []ReportRecord{{ID: "r1", ContractId: 1, ReportNo: "8"}}},
		{ID: 2, ContractNumber: "CV-002", HarvestYear: "2024-2025", Company: "Cafes del Norte",
			ReportRecords: []ReportRecord{{ID: "r2", ContractId: 2, ReportNo: " 8 "}}},
		{ID: 3, ContractNumber: "CV-003", HarvestYear: "2023-2024", Company: "Cafes del Norte",
			ReportRecords: []ReportRecord{{ID: "r3", ContractId: 3, ReportNo: "8"}}},
		{ID: 4, ContractNumber: "CV-004", HarvestYear: "2024-2025", Company: "Beneficio Sur",
			ReportRecords: []ReportRecord{{ID: "r4", ContractId: 4, ReportNo: "8"}}},
	}
}

func assertConflict(t *testing.T, err error, contractNumber string) {
	t.Helper()
	var conflict *ReportNumberConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if conflict.ContractNumber != contractNumber {
		t.Fatalf("expected conflict with %s, got %s", contractNumber, conflict.ContractNumber)
	}
}

func TestValidateReportNumber_ConflictNamesOtherContract(t *testing.T) {
	contracts := reportContracts()

	err := ValidateReportNumber("8", "2024-2025", "Cafes del Norte", contracts, 1, "r1")
	assertConflict(t, err, "CV-002")

	err = ValidateReportNumber(" 8", "2024-2025", "Cafes del Norte", contracts, 2, "r2")
	assertConflict(t, err, "CV-001")
}

func TestValidateReportNumber_ChangingNumberResolves(t *testing.T) {
	contracts := reportContracts()
	contracts[1].ReportRecords[0].ReportNo = "8B"

	if err := ValidateReportNumber("8", "2024-2025", "Cafes del Norte", contracts, 1, "r1"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := ValidateReportNumber("8B", "2024-2025", "Cafes del Norte", contracts, 2, "r2"); err != nil {
		t.Fatalf("record keeps its own number, got %v", err)
	}
}

func TestValidateReportNumber_ScopedByHarvestYearAndCompany(t *testing.T) {
	contracts := reportContracts()[2:] // 2023-2024 Norte and 2024-2025 Sur only
	if err := ValidateReportNumber("8", "2024-2025", "Cafes del Norte", contracts, 0, ""); err != nil {
		t.Fatalf("different year/company must not conflict, got %v", err)
	}
	err := ValidateReportNumber("8", "2024-2025", "Beneficio Sur", contracts, 0, "")
	assertConflict(t, err, "CV-004")
}

func TestValidateReportNumber_FirstMatchWins(t *testing.T) {
	err := ValidateReportNumber("8", "2024-2025", "Cafes del Norte", reportContracts(), 0, "")
	assertConflict(t, err, "CV-001")
}

func TestValidateReportNumber_NewRecordOnSameContractConflicts(t *testing.T) {
	err := ValidateReportNumber("8", "2024-2025", "Cafes del Norte", reportContracts()[:1], 1, "")
	assertConflict(t, err, "CV-001")
}

func TestValidateReportNumber_BlankRejected(t *testing.T) {
	for _, in := range []string{"", "   "} {
		if err := ValidateReportNumber(in, "2024-2025", "Cafes del Norte", reportContracts(), 0, ""); !errors.Is(err, ErrReportNumberRequired) {
			t.Fatalf("expected ErrReportNumberRequired for %q, got %v", in, err)
		}
	}
}

func TestValidateReportNumber_DerivedHarvestYearAndLegacyField(t *testing.T) {
	saleDate := time.Date(2024, time.November, 20, 0, 0, 0, 0, time.UTC)
	contracts := []Contract{
		{ID: 10, ContractNumber: "CV-010", SaleDate: &saleDate, Company: "Cafes del Norte", LegacyReportNo: "15"},
	}
	err := ValidateReportNumber("15", "2024-2025", "Cafes del Norte", contracts, 0, "")
	assertConflict(t, err, "CV-010")
}

func TestFindReportNumberCollisions(t *testing.T) {
	collisions := FindReportNumberCollisions(reportContracts())
	if len(collisions) != 1 {
		t.Fatalf("expected 1 collision, got %+v", collisions)
	}
	c := collisions[0]
	if c.ReportNo != "8" || c.HarvestYear != "2024-2025" || c.Company != "Cafes del Norte" || len(c.Holders) != 2 {
		t.Fatalf("unexpected collision: %+v", c)
	}
	if c.Holders[0].ContractNumber != "CV-001" || c.Holders[1].ContractNumber != "CV-002" {
		t.Fatalf("unexpected holders: %+v", c.Holders)
	}
}

func TestApplyReportRecord(t *testing.T) {
	contract := reportContracts()[0]

	records, created, err := ApplyReportRecord(contract, "", NewReportRecord{ReportNo: " 9 ", Notes: "FOB marzo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(records) != 2 || created.ReportNo != "9" || created.ContractId != 1 || created.ID == "" {
		t.Fatalf("unexpected create result: %+v / %+v", records, created)
	}
	if len(contract.ReportRecords) != 1 {
		t.Fatalf("input contract was mutated")
	}

	records, edited, err := ApplyReportRecord(contract, "r1", NewReportRecord{ReportNo: "8B"})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if len(records) != 1 || edited.ReportNo != "8B" || contract.ReportRecords[0].ReportNo != "8" {
		t.Fatalf("unexpected edit result: %+v", records)
	}

	if _, _, err := ApplyReportRecord(contract, "missing", NewReportRecord{ReportNo: "1"}); !errors.Is(err, ErrReportRecordNotFound) {
		t.Fatalf("expected ErrReportRecordNotFound, got %v", err)
	}
	if _, _, err := ApplyReportRecord(contract, "", NewReportRecord{ReportNo: "  "}); !errors.Is(err, ErrReportNumberRequired) {
		t.Fatalf("expected ErrReportNumberRequired, got %v", err)
	}

	remaining, err := RemoveReportRecord(contract.ReportRecords, "r1")
	if err != nil || len(remaining) != 0 {
		t.Fatalf("remove: %v %+v", err, remaining)
	}
}
