package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/mmdatafocus/coffee_export_backend/config"
	"github.com/mmdatafocus/coffee_export_backend/models"
	"github.com/mmdatafocus/coffee_export_backend/models/reports"
	"github.com/mmdatafocus/coffee_export_backend/utils"
	"github.com/mmdatafocus/coffee_export_backend/workflow"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func registerRoutes(api *gin.RouterGroup) {
	api.GET("/contracts", listContractsHandler())
	api.POST("/contracts", createContractHandler())
	api.GET("/contracts/:id/settlement", settlementHandler())
	api.GET("/contracts/:id/liquidation.xlsx", liquidationStatementHandler())

	api.POST("/contracts/:id/liquidation/open", liquidationHandler("OpenLiquidation", workflow.OpenLiquidation))
	api.POST("/contracts/:id/liquidation/reset", liquidationHandler("ResetDeductions", workflow.ResetDeductions))
	api.POST("/contracts/:id/liquidation/finalize", liquidationHandler("FinalizeLiquidation", workflow.FinalizeLiquidation))

	api.POST("/contracts/:id/deductions", liquidationHandler("AddDeduction", workflow.AddDeduction))
	api.PUT("/contracts/:id/deductions/:itemId", updateDeductionHandler())
	api.DELETE("/contracts/:id/deductions/:itemId", removeDeductionHandler())

	api.GET("/contracts/:id/payments", contractPaymentsHandler())
	api.POST("/contracts/:id/payments", recordPaymentHandler())
	api.DELETE("/payments/:id", deletePaymentHandler())

	api.GET("/contracts/:id/lots/:lotId/packaging", lotPackagingHandler())
	api.POST("/contracts/:id/lots/:lotId/packaging", addPackagingItemHandler())
	api.PUT("/contracts/:id/lots/:lotId/packaging/:itemId", updatePackagingItemHandler())
	api.DELETE("/contracts/:id/lots/:lotId/packaging/:itemId", removePackagingItemHandler())

	api.POST("/contracts/:id/reports", saveReportRecordHandler())
	api.PUT("/contracts/:id/reports/:reportId", saveReportRecordHandler())
	api.DELETE("/contracts/:id/reports/:reportId", deleteReportRecordHandler())
	api.POST("/reports/validate", validateReportNumberHandler())
	api.GET("/reports/collisions", reportCollisionsHandler())
}

func isNotFound(err error) bool {
	for _, target := range []error{
		utils.ErrorRecordNotFound,
		models.ErrPaymentNotFound,
		models.ErrReportRecordNotFound,
		models.ErrDeductionNotFound,
		models.ErrPackagingItemNotFound,
		models.ErrLotNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isBadInput(err error) bool {
	for _, target := range []error{
		models.ErrContractRequired,
		models.ErrCompanyNotAllowed,
		models.ErrPaymentAmountRequired,
		models.ErrReportNumberRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError maps workflow errors to HTTP statuses. Unexpected errors are
// logged and reported as 500 without details.
func respondError(c *gin.Context, funcName string, err error) {
	var validationErrors validator.ValidationErrors
	var conflict *models.ReportNumberConflictError
	switch {
	case errors.As(err, &validationErrors):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": utils.ProcessValidationErrors(err)})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "conflict": conflict})
	case errors.Is(err, models.ErrLiquidationNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case isNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isBadInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		config.LogError(config.GetLogger(), "http", funcName, c.FullPath(), cid, err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func listContractsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contracts, err := models.LoadContracts(c.Request.Context())
		if err != nil {
			respondError(c, "listContracts", err)
			return
		}
		c.JSON(http.StatusOK, contracts)
	}
}

func createContractHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewContract
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		contract, err := models.CreateContract(c.Request.Context(), input)
		if err != nil {
			respondError(c, "createContract", err)
			return
		}
		c.JSON(http.StatusCreated, contract)
	}
}

func settlementHandler() gin.HandlerFunc {
	return liquidationHandler("ContractSettlement", workflow.ContractSettlement)
}

// liquidationHandler serves the operations that take only the contract id
// and answer with the recomputed liquidation view.
func liquidationHandler(funcName string, op func(ctx context.Context, contractId int) (*workflow.LiquidationView, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, ok := intParam(c, "id")
		if !ok {
			return
		}
		view, err := op(c.Request.Context(), contractId)
		if err != nil {
			respondError(c, funcName, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func liquidationStatementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, ok := intParam(c, "id")
		if !ok {
			return
		}
		view, err := workflow.ContractSettlement(c.Request.Context(), contractId)
		if err != nil {
			respondError(c, "liquidationStatement", err)
			return
		}
		f, err := reports.LiquidationStatement(view.Contract, view.Payments)
		if err != nil {
			respondError(c, "liquidationStatement", err)
			return
		}
		defer f.Close()

		c.Header("Content-Type", xlsxContentType)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=liquidacion-%s.xlsx", view.Contract.ContractNumber))
		c.Status(http.StatusOK)
		if err := f.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}

func updateDeductionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, ok := intParam(c, "id")
		if !ok {
			return
		}
		var edit workflow.DeductionEdit
		if err := c.ShouldBindJSON(&edit); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		view, err := workflow.UpdateDeduction(c.Request.Context(), contractId, c.Param("itemId"), edit)
		if err != nil {
			respondError(c, "updateDeduction", err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func removeDeductionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, ok := intParam(c, "id")
		if !ok {
			return
		}
		view, err := workflow.RemoveDeduction(c.Request.Context(), contractId, c.Param("itemId"))
		if err != nil {
			respondError(c, "removeDeduction", err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func contractPaymentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, ok := intParam(c, "id")
		if !ok {
			return
		}
		payments, err := workflow.ContractPayments(c.Request.Context(), contractId)
		if err != nil {
			respondError(c, "contractPayments", err)
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

func recordPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, ok := intParam(c, "id")
		if !ok {
			return
		}
		var input models.NewPayment
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		input.ContractId = contractId
		payment, err := workflow.RecordPayment(c.Request.Context(), input)
		if err != nil {
			respondError(c, "recordPayment", err)
			return
		}
		c.JSON(http.StatusCreated, payment)
	}
}

func deletePaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := workflow.DeletePayment(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, "deletePayment", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func lotParams(c *gin.Context) (int, int, bool) {
	contractId, ok := intParam(c, "id")
	if !ok {
		return 0, 0, false
	}
	lotId, ok := intParam(c, "lotId")
	if !ok {
		return 0, 0, false
	}
	return contractId, lotId, true
}

func lotPackagingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, lotId, ok := lotParams(c)
		if !ok {
			return
		}
		items, err := workflow.LotPackaging(c.Request.Context(), contractId, lotId)
		if err != nil {
			respondError(c, "lotPackaging", err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func addPackagingItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, lotId, ok := lotParams(c)
		if !ok {
			return
		}
		items, err := workflow.AddPackagingItem(c.Request.Context(), contractId, lotId)
		if err != nil {
			respondError(c, "addPackagingItem", err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func updatePackagingItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, lotId, ok := lotParams(c)
		if !ok {
			return
		}
		var edit workflow.PackagingEdit
		if err := c.ShouldBindJSON(&edit); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		items, err := workflow.UpdatePackagingItem(c.Request.Context(), contractId, lotId, c.Param("itemId"), edit)
		if err != nil {
			respondError(c, "updatePackagingItem", err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func removePackagingItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, lotId, ok := lotParams(c)
		if !ok {
			return
		}
		items, err := workflow.RemovePackagingItem(c.Request.Context(), contractId, lotId, c.Param("itemId"))
		if err != nil {
			respondError(c, "removePackagingItem", err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// saveReportRecordHandler creates a report on POST and edits :reportId on PUT.
func saveReportRecordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, ok := intParam(c, "id")
		if !ok {
			return
		}
		var input models.NewReportRecord
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		recordId := c.Param("reportId")
		record, err := workflow.SaveReportRecord(c.Request.Context(), contractId, recordId, input)
		if err != nil {
			respondError(c, "saveReportRecord", err)
			return
		}
		status := http.StatusOK
		if recordId == "" {
			status = http.StatusCreated
		}
		c.JSON(status, record)
	}
}

func deleteReportRecordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractId, ok := intParam(c, "id")
		if !ok {
			return
		}
		if err := workflow.DeleteReportRecord(c.Request.Context(), contractId, c.Param("reportId")); err != nil {
			respondError(c, "deleteReportRecord", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// validateReportNumberHandler answers {"valid": true} or the conflicting contract.
func validateReportNumberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var check workflow.ReportNumberCheck
		if err := c.ShouldBindJSON(&check); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		err := workflow.CheckReportNumber(c.Request.Context(), check)
		var conflict *models.ReportNumberConflictError
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"valid": true})
		case errors.As(err, &conflict):
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": conflict.Error(), "conflict": conflict})
		default:
			respondError(c, "validateReportNumber", err)
		}
	}
}

func reportCollisionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		collisions, err := workflow.ReportNumberCollisions(c.Request.Context())
		if err != nil {
			respondError(c, "reportCollisions", err)
			return
		}
		c.JSON(http.StatusOK, collisions)
	}
}
