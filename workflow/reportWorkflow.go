package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmdatafocus/coffee_export_backend/config"
	"github.com/mmdatafocus/coffee_export_backend/models"
	"github.com/mmdatafocus/coffee_export_backend/utils"
	"github.com/sirupsen/logrus"
)

const reportNumberLockTTL = 15 * time.Second

// ReportNumberCheck asks whether a report number is free in a harvest year and
// company. ContractId/RecordId identify the record being edited, if any.
type ReportNumberCheck struct {
	ReportNo    string `json:"report_no"`
	HarvestYear string `json:"harvest_year"`
	Company     string `json:"company" validate:"required"`
	ContractId  int    `json:"contract_id"`
	RecordId    string `json:"record_id"`
}

func reportNumberLockKey(harvestYear string, company string) string {
	return fmt.Sprintf("lock:report-no:%s:%s", harvestYear, company)
}

// applyReportRecord checks uniqueness against all contracts, then creates or
// edits the record on contract.
func applyReportRecord(contract models.Contract, all []models.Contract, recordId string, input models.NewReportRecord) (models.Contract, *models.ReportRecord, error) {
	if recordId != "" {
		found := false
		for _, r := range contract.ReportRecords {
			if r.ID == recordId {
				found = true
				break
			}
		}
		if !found {
			return contract, nil, models.ErrReportRecordNotFound
		}
	}
	if err := models.ValidateReportNumber(input.ReportNo, contract.EffectiveHarvestYear(), contract.Company, all, contract.ID, recordId); err != nil {
		return contract, nil, err
	}
	records, record, err := models.ApplyReportRecord(contract, recordId, input)
	if err != nil {
		return contract, nil, err
	}
	contract.ReportRecords = records
	return contract, record, nil
}

// SaveReportRecord creates (recordId == "") or edits a report record. The save
// is blocked with *models.ReportNumberConflictError when another report in the
// same harvest year and company already holds the number.
func SaveReportRecord(ctx context.Context, contractId int, recordId string, input models.NewReportRecord) (record *models.ReportRecord, err error) {
	ctx, span := startSpan(ctx, "SaveReportRecord", contractId)
	defer func() { endSpan(span, err) }()

	logger := config.GetLogger()
	contract, err := models.LoadContract(ctx, contractId)
	if err != nil {
		return nil, err
	}

	release := utils.ObtainBestEffortLock(ctx, reportNumberLockKey(contract.EffectiveHarvestYear(), contract.Company), reportNumberLockTTL, "workflow", "SaveReportRecord")
	defer release()

	// reload under the lock so the check sees every committed report
	all, err := models.LoadContracts(ctx)
	if err != nil {
		return nil, err
	}
	current := *contract
	for _, c := range all {
		if c.ID == contractId {
			current = c
			break
		}
	}

	updated, record, err := applyReportRecord(current.Clone(), all, recordId, input)
	if err != nil {
		var conflict *models.ReportNumberConflictError
		if errors.As(err, &conflict) {
			logger.WithFields(logrus.Fields{
				"module":               "workflow",
				"contract_id":          contractId,
				"report_no":            conflict.ReportNo,
				"conflict_contract_id": conflict.ContractId,
			}).Warn("report number already in use")
		}
		return nil, err
	}
	if err = models.SaveContract(ctx, &updated); err != nil {
		config.LogError(logger, "workflow", "SaveReportRecord", "SaveContract", contractId, err)
		return nil, err
	}
	return record, nil
}

func DeleteReportRecord(ctx context.Context, contractId int, recordId string) error {
	_, err := mutateContract(ctx, "DeleteReportRecord", contractId, func(c models.Contract) (models.Contract, bool, error) {
		records, err := models.RemoveReportRecord(c.ReportRecords, recordId)
		if err != nil {
			return c, false, err
		}
		c.ReportRecords = records
		return c, true, nil
	})
	return err
}

// CheckReportNumber validates a candidate number without saving anything.
func CheckReportNumber(ctx context.Context, check ReportNumberCheck) error {
	if err := utils.ValidateStruct(check); err != nil {
		return err
	}
	all, err := models.LoadContracts(ctx)
	if err != nil {
		return err
	}
	return models.ValidateReportNumber(check.ReportNo, check.HarvestYear, check.Company, all, check.ContractId, check.RecordId)
}

func ReportNumberCollisions(ctx context.Context) ([]models.ReportNumberCollision, error) {
	all, err := models.LoadContracts(ctx)
	if err != nil {
		return nil, err
	}
	return models.FindReportNumberCollisions(all), nil
}
