package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zandres28/imvcrm/internal/types"
)

func validPayment() *Payment {
	return &Payment{
		ID:             "pay_1",
		ReceiptNumber:  "RC-ABC123",
		ClientID:       "cli_1",
		InstallationID: "inst_1",
		PaymentType:    types.PaymentTypeMonthly,
		PaymentMonth:   "febrero",
		PaymentYear:    2025,

		Amount:            decimal.NewFromInt(80357),
		ServicePlanAmount: decimal.NewFromInt(90000),
		OutageDiscountAmount: decimal.NewFromInt(9643),
		OutageDays:        3,

		Currency:      "COP",
		DueDate:       time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		PaymentStatus: types.PaymentStatusPending,
	}
}

func TestPaymentValidate(t *testing.T) {
	t.Run("valid breakdown", func(t *testing.T) {
		assert.NoError(t, validPayment().Validate())
	})

	t.Run("amount must reconcile with breakdown", func(t *testing.T) {
		p := validPayment()
		p.Amount = decimal.NewFromInt(90000)
		assert.Error(t, p.Validate())
	})

	t.Run("floored breakdown reconciles at zero", func(t *testing.T) {
		p := validPayment()
		p.ServicePlanAmount = decimal.NewFromInt(5000)
		p.OutageDiscountAmount = decimal.NewFromInt(9000)
		p.Amount = decimal.Zero
		assert.NoError(t, p.Validate())
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		p := validPayment()
		p.Amount = decimal.NewFromInt(-1)
		assert.Error(t, p.Validate())
	})

	t.Run("month must be a spanish name", func(t *testing.T) {
		p := validPayment()
		p.PaymentMonth = "february"
		assert.Error(t, p.Validate())
	})
}

func TestEffectiveStatus(t *testing.T) {
	p := validPayment()
	due := p.DueDate

	assert.Equal(t, types.PaymentStatusPending, p.EffectiveStatus(due.Add(-24*time.Hour)))
	assert.Equal(t, types.PaymentStatusPending, p.EffectiveStatus(due))
	assert.Equal(t, types.PaymentStatusOverdue, p.EffectiveStatus(due.Add(24*time.Hour)))

	// Only pending statements derive overdue on read
	p.PaymentStatus = types.PaymentStatusPaid
	assert.Equal(t, types.PaymentStatusPaid, p.EffectiveStatus(due.Add(24*time.Hour)))

	p.PaymentStatus = types.PaymentStatusCancelled
	assert.Equal(t, types.PaymentStatusCancelled, p.EffectiveStatus(due.Add(24*time.Hour)))
}
