package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/zandres28/imvcrm/internal/api/dto"
	"github.com/zandres28/imvcrm/internal/domain/installment"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

type ClientService interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error)
	GetClient(ctx context.Context, id string) (*dto.ClientResponse, error)
	UpdateClient(ctx context.Context, id string, req dto.UpdateClientRequest) (*dto.ClientResponse, error)
	ListClients(ctx context.Context, filter *types.QueryFilter) (*dto.ListClientsResponse, error)

	AddAdditionalService(ctx context.Context, req dto.CreateAdditionalServiceRequest) (*dto.AdditionalServiceResponse, error)
	CancelAdditionalService(ctx context.Context, id string) (*dto.AdditionalServiceResponse, error)
	ListAdditionalServices(ctx context.Context, clientID string) (*dto.ListAdditionalServicesResponse, error)

	CreateInstallmentPlan(ctx context.Context, req dto.CreateInstallmentPlanRequest) (*dto.InstallmentPlanResponse, error)
	ListInstallments(ctx context.Context, clientID string) ([]*dto.InstallmentResponse, error)
}

type clientService struct {
	ServiceParams
}

func NewClientService(params ServiceParams) ClientService {
	return &clientService{ServiceParams: params}
}

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToClient(ctx)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.ClientRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("created client", "client_id", c.ID, "document", c.Document)
	return &dto.ClientResponse{Client: c}, nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := s.ClientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ClientResponse{Client: c}, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.ClientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.City != nil {
		c.City = *req.City
	}
	c.UpdatedAt = s.Clock.Now()
	c.UpdatedBy = types.GetUserID(ctx)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.ClientRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return &dto.ClientResponse{Client: c}, nil
}

func (s *clientService) ListClients(ctx context.Context, filter *types.QueryFilter) (*dto.ListClientsResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid pagination parameters").
			Mark(ierr.ErrValidation)
	}

	clients, err := s.ClientRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ClientRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListClientsResponse{
		Items: make([]*dto.ClientResponse, 0, len(clients)),
		Total: total,
	}
	for _, c := range clients {
		resp.Items = append(resp.Items, &dto.ClientResponse{Client: c})
	}
	return resp, nil
}

func (s *clientService) AddAdditionalService(ctx context.Context, req dto.CreateAdditionalServiceRequest) (*dto.AdditionalServiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ClientRepo.Get(ctx, req.ClientID); err != nil {
		return nil, err
	}

	svc := req.ToAdditionalService(ctx)
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if err := s.AddonRepo.Create(ctx, svc); err != nil {
		return nil, err
	}

	s.Logger.Infow("added additional service",
		"service_id", svc.ID,
		"client_id", svc.ClientID,
		"cost", svc.Cost,
	)
	return &dto.AdditionalServiceResponse{AdditionalService: svc}, nil
}

func (s *clientService) CancelAdditionalService(ctx context.Context, id string) (*dto.AdditionalServiceResponse, error) {
	svc, err := s.AddonRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.Status == types.AdditionalServiceStatusCancelled {
		return nil, ierr.NewError("additional service already cancelled").
			WithHintf("Additional service %s is already cancelled", id).
			Mark(ierr.ErrInvalidOperation)
	}

	svc.Status = types.AdditionalServiceStatusCancelled
	svc.UpdatedAt = s.Clock.Now()
	svc.UpdatedBy = types.GetUserID(ctx)
	if err := s.AddonRepo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return &dto.AdditionalServiceResponse{AdditionalService: svc}, nil
}

func (s *clientService) ListAdditionalServices(ctx context.Context, clientID string) (*dto.ListAdditionalServicesResponse, error) {
	services, err := s.AddonRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListAdditionalServicesResponse{
		Items: make([]*dto.AdditionalServiceResponse, 0, len(services)),
	}
	for _, svc := range services {
		resp.Items = append(resp.Items, &dto.AdditionalServiceResponse{AdditionalService: svc})
	}
	return resp, nil
}

// CreateInstallmentPlan splits a financed sale into monthly quotas. Each quota
// is rounded to the whole currency unit and the last one absorbs the rounding
// remainder so the schedule always sums back to the sale total.
func (s *clientService) CreateInstallmentPlan(ctx context.Context, req dto.CreateInstallmentPlanRequest) (*dto.InstallmentPlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !req.TotalAmount.IsPositive() {
		return nil, ierr.NewError("invalid total amount").
			WithHint("Total amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}

	if _, err := s.ClientRepo.Get(ctx, req.ClientID); err != nil {
		return nil, err
	}

	n := req.Installments
	quota := req.TotalAmount.Div(decimal.NewFromInt(int64(n))).Round(0)

	firstDue := types.DateOnly(req.FirstDueDate)
	items := make([]*installment.ProductInstallment, 0, n)
	running := decimal.Zero
	for i := 1; i <= n; i++ {
		amount := quota
		if i == n {
			amount = req.TotalAmount.Sub(running)
		}
		if !amount.IsPositive() {
			return nil, ierr.NewError("total amount too small to split").
				WithHintf("Cannot split %s into %d installments", req.TotalAmount, n).
				Mark(ierr.ErrValidation)
		}
		running = running.Add(amount)

		item := &installment.ProductInstallment{
			ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT_INSTALLMENT),
			ClientID:          req.ClientID,
			ProductSoldID:     req.ProductSoldID,
			InstallmentNumber: i,
			Amount:            amount,
			DueDate:           types.AddClampedDate(firstDue, 0, i-1, 0),
			InstallmentStatus: types.InstallmentStatusPending,
			BaseModel:         types.GetDefaultBaseModel(ctx),
		}
		if err := item.Validate(); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		return s.InstallmentRepo.CreateBulk(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created installment plan",
		"client_id", req.ClientID,
		"product_sold_id", req.ProductSoldID,
		"installments", n,
		"total", req.TotalAmount,
	)

	resp := &dto.InstallmentPlanResponse{
		Items: make([]*dto.InstallmentResponse, 0, n),
		Total: req.TotalAmount,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, &dto.InstallmentResponse{ProductInstallment: item})
	}
	return resp, nil
}

func (s *clientService) ListInstallments(ctx context.Context, clientID string) ([]*dto.InstallmentResponse, error) {
	installments, err := s.InstallmentRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InstallmentResponse, 0, len(installments))
	for _, i := range installments {
		items = append(items, &dto.InstallmentResponse{ProductInstallment: i})
	}
	return items, nil
}
