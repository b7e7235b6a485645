package reports

import (
	"github.com/mmdatafocus/coffee_export_backend/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const LiquidationSheet = "Liquidacion"

const dateLayout = "2006-01-02"

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	bold  int
}

func (w *sheetWriter) writeRow(bold bool, values ...interface{}) error {
	w.row++
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
			return err
		}
	}
	if bold && len(values) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(values), w.row)
		first, _ := excelize.CoordinatesToCellName(1, w.row)
		return w.f.SetCellStyle(w.sheet, first, last, w.bold)
	}
	return nil
}

func (w *sheetWriter) skip() {
	w.row++
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// LiquidationStatement renders the liquidation of a contract as a workbook:
// contract header, lots, deduction ledger, payments and the settlement block.
// payments may hold payments of other contracts.
func LiquidationStatement(contract models.Contract, payments []models.Payment) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", LiquidationSheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	w := &sheetWriter{f: f, sheet: LiquidationSheet, bold: bold}

	payments = models.PaymentsForContract(payments, contract.ID)
	settlement := models.Settle(contract, payments).Rounded()

	header := [][]interface{}{
		{"Contrato", contract.ContractNumber},
		{"Comprador", contract.BuyerName},
		{"Empresa", contract.Company},
		{"Cosecha", contract.EffectiveHarvestYear()},
	}
	for _, row := range header {
		if err := w.writeRow(false, row...); err != nil {
			return nil, err
		}
	}
	w.skip()

	if err := w.writeRow(true, "Lote", "Tipo de empaque", "Unidades", "Peso (kg)", "Quintales", "Precio", "Valor"); err != nil {
		return nil, err
	}
	for i, lot := range contract.Lots {
		err := w.writeRow(false, i+1, lot.PackageType, lot.UnitCount,
			lot.WeightKg.InexactFloat64(),
			models.LotStandardUnits(lot).Round(2).InexactFloat64(),
			money(lot.SettledPrice),
			money(models.LotValue(lot)))
		if err != nil {
			return nil, err
		}
	}
	w.skip()

	if err := w.writeRow(true, "Deduccion", "Monto"); err != nil {
		return nil, err
	}
	for _, item := range contract.Deductions {
		if err := w.writeRow(false, item.Concept, money(item.Amount)); err != nil {
			return nil, err
		}
	}
	w.skip()

	if err := w.writeRow(true, "Fecha de pago", "Concepto", "Monto"); err != nil {
		return nil, err
	}
	for _, p := range payments {
		if err := w.writeRow(false, p.PaymentDate.Format(dateLayout), p.Concept, money(p.Amount)); err != nil {
			return nil, err
		}
	}
	w.skip()

	summary := [][]interface{}{
		{"Valor del contrato", money(settlement.Value)},
		{"Total deducciones", money(settlement.DeductionsTotal)},
		{"Total pagado", money(settlement.Paid)},
		{"Saldo", money(settlement.Balance)},
		{"Sobrepago", money(settlement.Overpayment)},
		{"Impuesto adicional", money(settlement.ExtraTax)},
		{"Estado", settlement.StateLabel},
	}
	for _, row := range summary {
		if err := w.writeRow(false, row...); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(LiquidationSheet, "A", "A", 42); err != nil {
		return nil, err
	}
	return f, nil
}
