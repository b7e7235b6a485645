package workflow

import (
	"context"

	"github.com/mmdatafocus/coffee_export_backend/config"
	"github.com/mmdatafocus/coffee_export_backend/models"
	"github.com/sirupsen/logrus"
)

// RecordPayment validates and stores a payment against an existing contract.
// A zero amount is rejected with models.ErrPaymentAmountRequired.
func RecordPayment(ctx context.Context, input models.NewPayment) (payment *models.Payment, err error) {
	ctx, span := startSpan(ctx, "RecordPayment", input.ContractId)
	defer func() { endSpan(span, err) }()

	payment, err = models.BuildPayment(input)
	if err != nil {
		return nil, err
	}
	if _, err = models.LoadContract(ctx, payment.ContractId); err != nil {
		return nil, err
	}
	if err = models.CreatePayment(ctx, payment); err != nil {
		config.LogError(config.GetLogger(), "workflow", "RecordPayment", "CreatePayment", payment, err)
		return nil, err
	}
	config.GetLogger().WithFields(auditFields(ctx)).WithFields(logrus.Fields{
		"contract_id": payment.ContractId,
		"payment_id":  payment.ID,
		"amount":      payment.Amount.String(),
	}).Info("payment recorded")
	return payment, nil
}

func DeletePayment(ctx context.Context, paymentId string) (err error) {
	ctx, span := tracer.Start(ctx, "DeletePayment")
	defer func() { endSpan(span, err) }()

	if err = models.DeletePayment(ctx, paymentId); err != nil {
		return err
	}
	config.GetLogger().WithFields(auditFields(ctx)).WithField("payment_id", paymentId).Info("payment deleted")
	return nil
}

// ContractPayments returns the contract's payments in insertion order.
func ContractPayments(ctx context.Context, contractId int) ([]models.Payment, error) {
	if _, err := models.LoadContract(ctx, contractId); err != nil {
		return nil, err
	}
	payments, err := models.LoadPayments(ctx)
	if err != nil {
		return nil, err
	}
	return models.PaymentsForContract(payments, contractId), nil
}
