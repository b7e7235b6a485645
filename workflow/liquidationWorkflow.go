package workflow

import (
	"context"

	"github.com/mmdatafocus/coffee_export_backend/config"
	"github.com/mmdatafocus/coffee_export_backend/models"
	"github.com/mmdatafocus/coffee_export_backend/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("coffee-export-liquidation")

// LiquidationView is everything the liquidation screen and documents render.
type LiquidationView struct {
	Contract   models.Contract                   `json:"contract"`
	Payments   []models.Payment                  `json:"payments"`
	Settlement models.Settlement                 `json:"settlement"`
	Packaging  []models.PackagingMaterialSummary `json:"packaging"`
}

func startSpan(ctx context.Context, name string, contractId int) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.Int("contract.id", contractId)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// auditFields tags workflow log lines with who made the change.
func auditFields(ctx context.Context) logrus.Fields {
	user, ok := utils.GetUsernameFromContext(ctx)
	if !ok || user == "" {
		user = "anonymous"
	}
	fields := logrus.Fields{
		"module": "workflow",
		"user":   user,
	}
	if cid, ok := utils.GetCorrelationIdFromContext(ctx); ok {
		fields["correlation_id"] = cid
	}
	return fields
}

func buildView(contract models.Contract, allPayments []models.Payment) *LiquidationView {
	payments := models.PaymentsForContract(allPayments, contract.ID)
	return &LiquidationView{
		Contract:   contract,
		Payments:   payments,
		Settlement: models.Settle(contract, payments),
		Packaging:  models.PackagingSummary(contract.Lots),
	}
}

// contractMutation returns the edited contract and whether it must be saved.
type contractMutation func(models.Contract) (models.Contract, bool, error)

// mutateContract loads a contract, applies fn to a copy, saves it when changed
// and returns the recomputed view.
func mutateContract(ctx context.Context, name string, contractId int, fn contractMutation) (view *LiquidationView, err error) {
	ctx, span := startSpan(ctx, name, contractId)
	defer func() { endSpan(span, err) }()

	logger := config.GetLogger()
	loaded, err := models.LoadContract(ctx, contractId)
	if err != nil {
		return nil, err
	}
	updated, changed, err := fn(loaded.Clone())
	if err != nil {
		return nil, err
	}
	if changed {
		if err = models.SaveContract(ctx, &updated); err != nil {
			config.LogError(logger, "workflow", name, "SaveContract", contractId, err)
			return nil, err
		}
		logger.WithFields(auditFields(ctx)).WithFields(logrus.Fields{
			"contract_id": contractId,
			"operation":   name,
		}).Info("contract updated")
	}
	payments, err := models.LoadPayments(ctx)
	if err != nil {
		return nil, err
	}
	return buildView(updated, payments), nil
}

// openLiquidation seeds the deduction ledger the first time a contract enters
// the liquidation workflow. A ledger emptied by the user stays empty.
func openLiquidation(contract models.Contract) (models.Contract, bool) {
	if contract.DeductionsSeeded {
		return contract, false
	}
	if len(contract.Deductions) == 0 {
		contract.Deductions = seedDeductions(contract)
	}
	contract.DeductionsSeeded = true
	return contract, true
}

func seedDeductions(contract models.Contract) []models.DeductionItem {
	items := models.SeedDefaultDeductions(models.ContractValue(contract.Lots), models.TotalStandardUnits(contract.Lots))
	for i := range items {
		items[i].ContractId = contract.ID
	}
	return items
}

// resetDeductions discards manual edits and reseeds the three defaults.
func resetDeductions(contract models.Contract) models.Contract {
	contract.Deductions = seedDeductions(contract)
	contract.DeductionsSeeded = true
	return contract
}

// finalizeLiquidation is one-way: a finalized contract is never reopened.
func finalizeLiquidation(contract models.Contract, payments []models.Payment) (models.Contract, bool, error) {
	if contract.LiquidationFinalized {
		return contract, false, nil
	}
	s := models.Settle(contract, payments)
	if s.State != models.LiquidationStateReadyToFinalize {
		return contract, false, models.ErrLiquidationNotReady
	}
	contract.LiquidationFinalized = true
	return contract, true, nil
}

// ContractSettlement recomputes the liquidation of a contract without writing.
func ContractSettlement(ctx context.Context, contractId int) (view *LiquidationView, err error) {
	ctx, span := startSpan(ctx, "ContractSettlement", contractId)
	defer func() { endSpan(span, err) }()

	contract, err := models.LoadContract(ctx, contractId)
	if err != nil {
		return nil, err
	}
	payments, err := models.LoadPayments(ctx)
	if err != nil {
		return nil, err
	}
	return buildView(*contract, payments), nil
}

func OpenLiquidation(ctx context.Context, contractId int) (*LiquidationView, error) {
	return mutateContract(ctx, "OpenLiquidation", contractId, func(c models.Contract) (models.Contract, bool, error) {
		c, changed := openLiquidation(c)
		return c, changed, nil
	})
}

func ResetDeductions(ctx context.Context, contractId int) (*LiquidationView, error) {
	logger := config.GetLogger()
	return mutateContract(ctx, "ResetDeductions", contractId, func(c models.Contract) (models.Contract, bool, error) {
		logger.WithFields(auditFields(ctx)).WithFields(logrus.Fields{
			"contract_id": contractId,
			"discarded":   len(c.Deductions),
		}).Info("resetting deductions to defaults")
		return resetDeductions(c), true, nil
	})
}

func AddDeduction(ctx context.Context, contractId int) (*LiquidationView, error) {
	return mutateContract(ctx, "AddDeduction", contractId, func(c models.Contract) (models.Contract, bool, error) {
		c.Deductions = models.AddDeductionItem(c.Deductions)
		c.Deductions[len(c.Deductions)-1].ContractId = c.ID
		c.DeductionsSeeded = true
		return c, true, nil
	})
}

// DeductionEdit updates the concept and/or amount of a deduction item.
type DeductionEdit struct {
	Concept *string `json:"concept"`
	Amount  any     `json:"amount"`
}

func applyDeductionEdit(items []models.DeductionItem, itemId string, edit DeductionEdit) ([]models.DeductionItem, error) {
	found := false
	for _, item := range items {
		if item.ID == itemId {
			found = true
			break
		}
	}
	if !found {
		return items, models.ErrDeductionNotFound
	}

	var err error
	if edit.Concept != nil {
		if items, err = models.SetDeductionConcept(items, itemId, *edit.Concept); err != nil {
			return items, err
		}
	}
	if edit.Amount != nil {
		if items, err = models.SetDeductionAmount(items, itemId, edit.Amount); err != nil {
			return items, err
		}
	}
	return items, nil
}

func UpdateDeduction(ctx context.Context, contractId int, itemId string, edit DeductionEdit) (*LiquidationView, error) {
	return mutateContract(ctx, "UpdateDeduction", contractId, func(c models.Contract) (models.Contract, bool, error) {
		items, err := applyDeductionEdit(c.Deductions, itemId, edit)
		if err != nil {
			return c, false, err
		}
		c.Deductions = items
		return c, true, nil
	})
}

func RemoveDeduction(ctx context.Context, contractId int, itemId string) (*LiquidationView, error) {
	return mutateContract(ctx, "RemoveDeduction", contractId, func(c models.Contract) (models.Contract, bool, error) {
		items, err := models.RemoveDeductionItem(c.Deductions, itemId)
		if err != nil {
			return c, false, err
		}
		c.Deductions = items
		c.DeductionsSeeded = true
		return c, true, nil
	})
}

// FinalizeLiquidation may return models.ErrLiquidationNotReady.
func FinalizeLiquidation(ctx context.Context, contractId int) (*LiquidationView, error) {
	payments, err := models.LoadPayments(ctx)
	if err != nil {
		return nil, err
	}
	return mutateContract(ctx, "FinalizeLiquidation", contractId, func(c models.Contract) (models.Contract, bool, error) {
		return finalizeLiquidation(c, models.PaymentsForContract(payments, c.ID))
	})
}
