package models

import (
	"context"
	"errors"

	"github.com/mmdatafocus/coffee_export_backend/config"
	"github.com/mmdatafocus/coffee_export_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderBySortOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order").Order("id")
}

func orderById(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func preloadContract(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lots", orderById).
		Preload("Lots.Packaging", orderBySortOrder).
		Preload("Deductions", orderBySortOrder).
		Preload("ReportRecords", orderBySortOrder)
}

// LoadContracts loads every contract with its lots, deductions and report
// records, in id order. Legacy report numbers are folded into the record list.
func LoadContracts(ctx context.Context) ([]Contract, error) {
	db := config.GetDB()
	var contracts []Contract
	if err := preloadContract(db.WithContext(ctx)).Order("id").Find(&contracts).Error; err != nil {
		return nil, err
	}
	for i := range contracts {
		contracts[i].FoldLegacyReport()
	}
	return contracts, nil
}

// LoadLegacyContracts returns the contracts still carrying a value in the
// legacy fob_report_no column, unfolded.
func LoadLegacyContracts(ctx context.Context) ([]Contract, error) {
	db := config.GetDB()
	var contracts []Contract
	err := preloadContract(db.WithContext(ctx)).
		Where("fob_report_no IS NOT NULL AND fob_report_no <> ''").
		Order("id").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

// LoadContract may return utils.ErrorRecordNotFound.
func LoadContract(ctx context.Context, id int) (*Contract, error) {
	db := config.GetDB()
	var contract Contract
	err := preloadContract(db.WithContext(ctx)).Where("id = ?", id).First(&contract).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	contract.FoldLegacyReport()
	return &contract, nil
}

func CreateContract(ctx context.Context, input NewContract) (*Contract, error) {
	contract, err := BuildContract(input)
	if err != nil {
		return nil, err
	}
	if err := SaveContract(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// SaveContract writes the contract and replaces its child collections with the
// ones on the value, inside one transaction.
func SaveContract(ctx context.Context, contract *Contract) error {
	if contract == nil {
		return ErrContractRequired
	}
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(contract).Error; err != nil {
			return err
		}
		if err := saveLots(tx, contract); err != nil {
			return err
		}

		if err := tx.Where("contract_id = ?", contract.ID).Delete(&DeductionItem{}).Error; err != nil {
			return err
		}
		for i := range contract.Deductions {
			contract.Deductions[i].ContractId = contract.ID
			contract.Deductions[i].SortOrder = i
		}
		if len(contract.Deductions) > 0 {
			if err := tx.Create(&contract.Deductions).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("contract_id = ?", contract.ID).Delete(&ReportRecord{}).Error; err != nil {
			return err
		}
		for i := range contract.ReportRecords {
			contract.ReportRecords[i].ContractId = contract.ID
			contract.ReportRecords[i].SortOrder = i
		}
		if len(contract.ReportRecords) > 0 {
			if err := tx.Create(&contract.ReportRecords).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func saveLots(tx *gorm.DB, contract *Contract) error {
	keep := make([]int, 0, len(contract.Lots))
	for i := range contract.Lots {
		lot := &contract.Lots[i]
		lot.ContractId = contract.ID
		if err := tx.Omit(clause.Associations).Save(lot).Error; err != nil {
			return err
		}
		keep = append(keep, lot.ID)

		if err := tx.Where("lot_id = ?", lot.ID).Delete(&PackagingRequirement{}).Error; err != nil {
			return err
		}
		for j := range lot.Packaging {
			lot.Packaging[j].LotId = lot.ID
			lot.Packaging[j].SortOrder = j
		}
		if len(lot.Packaging) > 0 {
			if err := tx.Create(&lot.Packaging).Error; err != nil {
				return err
			}
		}
	}

	removed := tx.Model(&ShipmentLot{}).Select("id").Where("contract_id = ?", contract.ID)
	if len(keep) > 0 {
		removed = removed.Where("id NOT IN ?", keep)
	}
	if err := tx.Where("lot_id IN (?)", removed).Delete(&PackagingRequirement{}).Error; err != nil {
		return err
	}
	del := tx.Where("contract_id = ?", contract.ID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	return del.Delete(&ShipmentLot{}).Error
}

// LoadPayments loads every payment in insertion order.
func LoadPayments(ctx context.Context) ([]Payment, error) {
	db := config.GetDB()
	var payments []Payment
	if err := db.WithContext(ctx).Order("created_at").Order("id").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func CreatePayment(ctx context.Context, payment *Payment) error {
	db := config.GetDB()
	return db.WithContext(ctx).Create(payment).Error
}

// DeletePayment may return utils.ErrorRecordNotFound.
func DeletePayment(ctx context.Context, id string) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&Payment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
