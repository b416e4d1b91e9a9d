package types

import (
	"fmt"

	"github.com/samber/lo"
)

// ServiceStatus represents the lifecycle status of an installation
type ServiceStatus string

const (
	ServiceStatusActive    ServiceStatus = "active"
	ServiceStatusSuspended ServiceStatus = "suspended"
	ServiceStatusCancelled ServiceStatus = "cancelled"
)

func (s ServiceStatus) String() string {
	return string(s)
}

func (s ServiceStatus) Validate() error {
	allowed := []ServiceStatus{
		ServiceStatusActive,
		ServiceStatusSuspended,
		ServiceStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid service status: %s", s)
	}
	return nil
}

// AdditionalServiceStatus represents the status of an additional service
type AdditionalServiceStatus string

const (
	AdditionalServiceStatusActive    AdditionalServiceStatus = "active"
	AdditionalServiceStatusCancelled AdditionalServiceStatus = "cancelled"
)

func (s AdditionalServiceStatus) String() string {
	return string(s)
}

func (s AdditionalServiceStatus) Validate() error {
	allowed := []AdditionalServiceStatus{
		AdditionalServiceStatusActive,
		AdditionalServiceStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid additional service status: %s", s)
	}
	return nil
}

// InstallmentStatus represents the status of a product installment
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPaid    InstallmentStatus = "paid"
)

func (s InstallmentStatus) String() string {
	return string(s)
}

func (s InstallmentStatus) Validate() error {
	allowed := []InstallmentStatus{
		InstallmentStatusPending,
		InstallmentStatusPaid,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid installment status: %s", s)
	}
	return nil
}

// OutageStatus represents the lifecycle status of a service outage credit.
// pending -> applied happens exactly once, atomically with statement creation.
// pending -> cancelled is a manual operator action. Both are terminal.
type OutageStatus string

const (
	OutageStatusPending   OutageStatus = "pending"
	OutageStatusApplied   OutageStatus = "applied"
	OutageStatusCancelled OutageStatus = "cancelled"
)

func (s OutageStatus) String() string {
	return string(s)
}

func (s OutageStatus) Validate() error {
	allowed := []OutageStatus{
		OutageStatusPending,
		OutageStatusApplied,
		OutageStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid outage status: %s", s)
	}
	return nil
}

// IsTerminal returns true once the outage can no longer be mutated
func (s OutageStatus) IsTerminal() bool {
	return s == OutageStatusApplied || s == OutageStatusCancelled
}

// PaymentStatus represents the stored status of a monthly statement
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Validate() error {
	allowed := []PaymentStatus{
		PaymentStatusPending,
		PaymentStatusPaid,
		PaymentStatusOverdue,
		PaymentStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid payment status: %s", s)
	}
	return nil
}

// PaymentMethod represents how a statement was settled
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodOther    PaymentMethod = "other"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Validate() error {
	allowed := []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodTransfer,
		PaymentMethodCard,
		PaymentMethodOther,
	}
	if !lo.Contains(allowed, m) {
		return fmt.Errorf("invalid payment method: %s", m)
	}
	return nil
}

// PaymentType distinguishes the recurring monthly statement from the one-off
// installation fee statement. Part of the statement uniqueness key.
type PaymentType string

const (
	PaymentTypeMonthly      PaymentType = "monthly"
	PaymentTypeInstallation PaymentType = "installation"
)

func (t PaymentType) String() string {
	return string(t)
}

func (t PaymentType) Validate() error {
	allowed := []PaymentType{
		PaymentTypeMonthly,
		PaymentTypeInstallation,
	}
	if !lo.Contains(allowed, t) {
		return fmt.Errorf("invalid payment type: %s", t)
	}
	return nil
}
