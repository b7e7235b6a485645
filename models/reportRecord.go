package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/coffee_export_backend/utils"
)

// ReportRecord is an externally numbered FOB sales report attached to a contract.
type ReportRecord struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	ContractId int        `gorm:"index;not null" json:"contract_id"`
	ReportNo   string     `gorm:"size:100;not null;index" json:"report_no"`
	ReportDate *time.Time `json:"report_date"`
	Notes      string     `gorm:"type:text;default:null" json:"notes"`
	SortOrder  int        `gorm:"not null;default:0" json:"-"`
}

type NewReportRecord struct {
	ReportNo   string     `json:"report_no" validate:"max=100"`
	ReportDate *time.Time `json:"report_date"`
	Notes      string     `json:"notes"`
}

func (r ReportRecord) clone() ReportRecord {
	out := r
	if r.ReportDate != nil {
		d := *r.ReportDate
		out.ReportDate = &d
	}
	return out
}

func normalizeReportNo(reportNo string) string {
	return strings.TrimSpace(reportNo)
}

// ValidateReportNumber checks that candidate is not used by any other report of
// a contract in the same harvest year and company. The record identified by
// currentContractId/currentRecordId is skipped so an edit can keep its number.
// Contracts are scanned in the given order and the first clash is returned as
// a *ReportNumberConflictError.
func ValidateReportNumber(candidate string, harvestYear string, company string, contracts []Contract, currentContractId int, currentRecordId string) error {
	reportNo := normalizeReportNo(candidate)
	if reportNo == "" {
		return ErrReportNumberRequired
	}
	harvestYear = strings.TrimSpace(harvestYear)
	company = strings.TrimSpace(company)

	for _, c := range contracts {
		if c.EffectiveHarvestYear() != harvestYear || strings.TrimSpace(c.Company) != company {
			continue
		}
		for _, r := range contractReports(c) {
			if c.ID == currentContractId && r.ID == currentRecordId {
				continue
			}
			if normalizeReportNo(r.ReportNo) == reportNo {
				return &ReportNumberConflictError{
					ReportNo:       reportNo,
					ContractId:     c.ID,
					ContractNumber: c.ContractNumber,
					RecordId:       r.ID,
				}
			}
		}
	}
	return nil
}

const legacyReportRecordId = "legacy"

// contractReports includes a legacy report number not yet folded into the list.
func contractReports(c Contract) []ReportRecord {
	legacy := normalizeReportNo(c.LegacyReportNo)
	if legacy == "" {
		return c.ReportRecords
	}
	out := append([]ReportRecord(nil), c.ReportRecords...)
	return append(out, ReportRecord{ID: legacyReportRecordId, ContractId: c.ID, ReportNo: legacy})
}

type ReportNumberCollision struct {
	HarvestYear string               `json:"harvest_year"`
	Company     string               `json:"company"`
	ReportNo    string               `json:"report_no"`
	Holders     []ReportNumberHolder `json:"holders"`
}

type ReportNumberHolder struct {
	ContractId     int    `json:"contract_id"`
	ContractNumber string `json:"contract_number"`
	RecordId       string `json:"record_id"`
}

// FindReportNumberCollisions lists every report number held more than once
// within a harvest year and company, in order of first appearance.
func FindReportNumberCollisions(contracts []Contract) []ReportNumberCollision {
	type scopeKey struct{ harvestYear, company, reportNo string }
	index := map[scopeKey]int{}
	var groups []ReportNumberCollision

	for _, c := range contracts {
		hy := c.EffectiveHarvestYear()
		company := strings.TrimSpace(c.Company)
		for _, r := range contractReports(c) {
			reportNo := normalizeReportNo(r.ReportNo)
			if reportNo == "" {
				continue
			}
			key := scopeKey{hy, company, reportNo}
			i, ok := index[key]
			if !ok {
				i = len(groups)
				index[key] = i
				groups = append(groups, ReportNumberCollision{HarvestYear: hy, Company: company, ReportNo: reportNo})
			}
			groups[i].Holders = append(groups[i].Holders, ReportNumberHolder{
				ContractId:     c.ID,
				ContractNumber: c.ContractNumber,
				RecordId:       r.ID,
			})
		}
	}

	out := make([]ReportNumberCollision, 0)
	for _, g := range groups {
		if len(g.Holders) > 1 {
			out = append(out, g)
		}
	}
	return out
}

// ApplyReportRecord creates (recordId == "") or edits a report record of
// contract and returns the updated record list. The report number is trimmed
// but not checked for uniqueness here.
func ApplyReportRecord(contract Contract, recordId string, input NewReportRecord) ([]ReportRecord, *ReportRecord, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, nil, err
	}
	reportNo := normalizeReportNo(input.ReportNo)
	if reportNo == "" {
		return nil, nil, ErrReportNumberRequired
	}

	records := make([]ReportRecord, len(contract.ReportRecords))
	for i, r := range contract.ReportRecords {
		records[i] = r.clone()
	}

	if recordId == "" {
		record := ReportRecord{
			ID:         uuid.NewString(),
			ContractId: contract.ID,
			ReportNo:   reportNo,
			ReportDate: input.ReportDate,
			Notes:      strings.TrimSpace(input.Notes),
		}
		records = append(records, record)
		return records, &records[len(records)-1], nil
	}

	for i := range records {
		if records[i].ID == recordId {
			records[i].ReportNo = reportNo
			records[i].ReportDate = input.ReportDate
			records[i].Notes = strings.TrimSpace(input.Notes)
			return records, &records[i], nil
		}
	}
	return nil, nil, ErrReportRecordNotFound
}

func RemoveReportRecord(records []ReportRecord, id string) ([]ReportRecord, error) {
	out := make([]ReportRecord, 0, len(records))
	found := false
	for _, r := range records {
		if r.ID == id {
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		return out, ErrReportRecordNotFound
	}
	return out, nil
}
