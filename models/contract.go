package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/coffee_export_backend/config"
	"github.com/mmdatafocus/coffee_export_backend/utils"
)

// harvest (crop) year starts in October
const harvestYearStartMonth = time.October

type Contract struct {
	ID                   int             `gorm:"primary_key" json:"id"`
	ContractNumber       string          `gorm:"size:100;not null;index" json:"contract_number"`
	BuyerName            string          `gorm:"size:255;not null" json:"buyer_name"`
	HarvestYear          string          `gorm:"size:20;index" json:"harvest_year"`
	SaleDate             *time.Time      `json:"sale_date"`
	Company              string          `gorm:"size:255;not null;index" json:"company"`
	DeductionsSeeded     bool            `gorm:"not null;default:false" json:"deductions_seeded"`
	LiquidationFinalized bool            `gorm:"not null;default:false" json:"liquidation_finalized"`
	LegacyReportNo       string          `gorm:"column:fob_report_no;size:100;default:null" json:"-"`
	Lots                 []ShipmentLot   `gorm:"foreignKey:ContractId" json:"lots"`
	Deductions           []DeductionItem `gorm:"foreignKey:ContractId" json:"deductions"`
	ReportRecords        []ReportRecord  `gorm:"foreignKey:ContractId" json:"report_records"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewContract struct {
	ContractNumber string           `json:"contract_number" validate:"required"`
	BuyerName      string           `json:"buyer_name" validate:"required"`
	HarvestYear    string           `json:"harvest_year"`
	SaleDate       *time.Time       `json:"sale_date"`
	Company        string           `json:"company" validate:"required"`
	Lots           []NewShipmentLot `json:"lots" validate:"dive"`
}

// HarvestYearFor returns the crop year label ("2024-2025") a date falls in.
func HarvestYearFor(t time.Time) string {
	year := t.Year()
	if t.Month() < harvestYearStartMonth {
		year--
	}
	return fmt.Sprintf("%d-%d", year, year+1)
}

// EffectiveHarvestYear prefers the explicit harvest year and falls back to the sale date.
func (c Contract) EffectiveHarvestYear() string {
	if hy := strings.TrimSpace(c.HarvestYear); hy != "" {
		return hy
	}
	if c.SaleDate != nil && !c.SaleDate.IsZero() {
		return HarvestYearFor(*c.SaleDate)
	}
	return ""
}

// Clone returns a deep copy so edits never leak into the loaded value.
func (c Contract) Clone() Contract {
	out := c
	if c.SaleDate != nil {
		d := *c.SaleDate
		out.SaleDate = &d
	}
	if c.Lots != nil {
		out.Lots = make([]ShipmentLot, len(c.Lots))
		for i, lot := range c.Lots {
			out.Lots[i] = lot.Clone()
		}
	}
	if c.Deductions != nil {
		out.Deductions = append([]DeductionItem(nil), c.Deductions...)
	}
	if c.ReportRecords != nil {
		out.ReportRecords = make([]ReportRecord, len(c.ReportRecords))
		for i, r := range c.ReportRecords {
			out.ReportRecords[i] = r.clone()
		}
	}
	return out
}

// FoldLegacyReport moves the legacy single report number into ReportRecords.
// Returns true when the contract changed.
func (c *Contract) FoldLegacyReport() bool {
	legacy := strings.TrimSpace(c.LegacyReportNo)
	if legacy == "" {
		if c.LegacyReportNo != "" {
			c.LegacyReportNo = ""
			return true
		}
		return false
	}
	for _, r := range c.ReportRecords {
		if strings.TrimSpace(r.ReportNo) == legacy {
			c.LegacyReportNo = ""
			return true
		}
	}
	c.ReportRecords = append(c.ReportRecords, ReportRecord{
		ID:         uuid.NewString(),
		ContractId: c.ID,
		ReportNo:   legacy,
	})
	c.LegacyReportNo = ""
	return true
}

// FindLot returns the index of the lot with the given id or -1.
func (c Contract) FindLot(lotId int) int {
	for i, lot := range c.Lots {
		if lot.ID == lotId {
			return i
		}
	}
	return -1
}

// ValidateCompany checks company against EXPORT_COMPANIES when configured.
func ValidateCompany(company string) error {
	company = strings.TrimSpace(company)
	if company == "" {
		return ErrCompanyNotAllowed
	}
	allowed := config.ExportCompanies()
	if len(allowed) == 0 {
		return nil
	}
	for _, a := range allowed {
		if a == company {
			return nil
		}
	}
	return ErrCompanyNotAllowed
}

// BuildContract validates input and maps it to a new, unsaved Contract.
func BuildContract(input NewContract) (*Contract, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if err := ValidateCompany(input.Company); err != nil {
		return nil, err
	}

	contract := Contract{
		ContractNumber: strings.TrimSpace(input.ContractNumber),
		BuyerName:      strings.TrimSpace(input.BuyerName),
		HarvestYear:    strings.TrimSpace(input.HarvestYear),
		SaleDate:       input.SaleDate,
		Company:        strings.TrimSpace(input.Company),
	}
	for _, l := range input.Lots {
		contract.Lots = append(contract.Lots, BuildShipmentLot(l))
	}
	return &contract, nil
}
