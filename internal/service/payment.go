package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/zandres28/imvcrm/internal/api/dto"
	"github.com/zandres28/imvcrm/internal/domain/installment"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

type PaymentService interface {
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error)
	RegisterPayment(ctx context.Context, req dto.RegisterPaymentRequest) (*dto.PaymentResponse, error)
	// MarkOverduePayments is the explicit write pass that persists the overdue
	// transition for every pending statement past due. Safe to re-run.
	MarkOverduePayments(ctx context.Context) (*dto.MarkOverdueResponse, error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(p, s.Clock.Now()), nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid payment filter").
			Mark(ierr.ErrValidation)
	}

	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.PaymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	resp := &dto.ListPaymentsResponse{
		Items: make([]*dto.PaymentResponse, 0, len(payments)),
		Total: total,
	}
	for _, p := range payments {
		resp.Items = append(resp.Items, dto.NewPaymentResponse(p, now))
	}
	return resp, nil
}

// RegisterPayment settles a statement: records the method and date, marks the
// statement paid and settles the installments it billed. Extra pending
// installments handed over at the counter join the statement before settling;
// the tendered amount must then cover the statement plus the extras.
func (s *paymentService) RegisterPayment(ctx context.Context, req dto.RegisterPaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.PaymentRepo.Get(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if p.PaymentStatus == types.PaymentStatusPaid {
		return nil, ierr.NewError("statement already settled").
			WithHintf("Statement %s is already paid", p.ID).
			Mark(ierr.ErrInvalidOperation)
	}
	if p.PaymentStatus == types.PaymentStatusCancelled {
		return nil, ierr.NewError("statement is cancelled").
			WithHintf("Statement %s is cancelled and cannot be settled", p.ID).
			Mark(ierr.ErrInvalidOperation)
	}

	now := s.Clock.Now()
	paidAt := now
	if req.PaymentDate != nil {
		paidAt = *req.PaymentDate
	}
	method := req.PaymentMethod

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		extras := make([]*installment.ProductInstallment, 0, len(req.ExtraInstallmentIDs))
		extraTotal := decimal.Zero
		for _, id := range req.ExtraInstallmentIDs {
			q, err := s.InstallmentRepo.Get(ctx, id)
			if err != nil {
				return err
			}
			if q.ClientID != p.ClientID {
				return ierr.NewError("installment belongs to another client").
					WithHintf("Installment %s does not belong to client %s", q.ID, p.ClientID).
					Mark(ierr.ErrInvalidOperation)
			}
			if q.InstallmentStatus != types.InstallmentStatusPending {
				return ierr.NewError("installment is not pending").
					WithHintf("Installment %s is already %s", q.ID, q.InstallmentStatus).
					Mark(ierr.ErrInvalidOperation)
			}
			extras = append(extras, q)
			extraTotal = extraTotal.Add(q.Amount)
		}

		// The tendered amount must cover the statement plus everything
		// settled with it
		minimum := p.Amount.Add(extraTotal)
		if len(extras) > 0 && req.Amount == nil {
			return ierr.NewError("amount is required with extra installments").
				WithHintf("Settling extra installments requires the tendered amount; %s is owed", minimum).
				Mark(ierr.ErrValidation)
		}
		if req.Amount != nil && req.Amount.LessThan(minimum) {
			return ierr.NewError("tendered amount below total owed").
				WithHintf("Amount %s does not cover the %s owed", req.Amount, minimum).
				Mark(ierr.ErrValidation)
		}

		for _, q := range extras {
			q.PaymentID = &p.ID
			q.InstallmentStatus = types.InstallmentStatusPaid
			q.UpdatedAt = now
			q.UpdatedBy = types.GetUserID(ctx)
			if err := s.InstallmentRepo.Update(ctx, q); err != nil {
				return err
			}

			p.ProductInstallmentsAmount = p.ProductInstallmentsAmount.Add(q.Amount)
			p.Amount = p.Amount.Add(q.Amount)
		}

		// Settle the installments this statement billed at generation time
		linked, err := s.InstallmentRepo.ListByClient(ctx, p.ClientID)
		if err != nil {
			return err
		}
		for _, q := range linked {
			if q.PaymentID == nil || *q.PaymentID != p.ID {
				continue
			}
			if q.InstallmentStatus != types.InstallmentStatusPending {
				continue
			}
			q.InstallmentStatus = types.InstallmentStatusPaid
			q.UpdatedAt = now
			q.UpdatedBy = types.GetUserID(ctx)
			if err := s.InstallmentRepo.Update(ctx, q); err != nil {
				return err
			}
		}

		p.PaymentStatus = types.PaymentStatusPaid
		p.PaymentDate = &paidAt
		p.PaymentMethod = &method
		p.UpdatedAt = now
		p.UpdatedBy = types.GetUserID(ctx)
		return s.PaymentRepo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("registered payment",
		"payment_id", p.ID,
		"receipt", p.ReceiptNumber,
		"amount", p.Amount,
		"method", method,
	)
	return dto.NewPaymentResponse(p, now), nil
}

func (s *paymentService) MarkOverduePayments(ctx context.Context) (*dto.MarkOverdueResponse, error) {
	updated, err := s.PaymentRepo.MarkOverdue(ctx, s.Clock.Now())
	if err != nil {
		return nil, err
	}

	if updated > 0 {
		s.Logger.Infow("marked statements overdue", "count", updated)
	}
	return &dto.MarkOverdueResponse{Updated: updated}, nil
}
