package service

import (
	"context"

	"github.com/zandres28/imvcrm/internal/api/dto"
	"github.com/zandres28/imvcrm/internal/domain/installation"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

type InstallationService interface {
	CreateInstallation(ctx context.Context, req dto.CreateInstallationRequest) (*dto.InstallationResponse, error)
	GetInstallation(ctx context.Context, id string) (*dto.InstallationResponse, error)
	UpdateInstallation(ctx context.Context, id string, req dto.UpdateInstallationRequest) (*dto.InstallationResponse, error)
	ListInstallations(ctx context.Context, filter *types.QueryFilter) (*dto.ListInstallationsResponse, error)
	ListByClient(ctx context.Context, clientID string) (*dto.ListInstallationsResponse, error)

	SuspendInstallation(ctx context.Context, id string) (*dto.InstallationResponse, error)
	ResumeInstallation(ctx context.Context, id string) (*dto.InstallationResponse, error)
	CancelInstallation(ctx context.Context, id string, req dto.CancelInstallationRequest) (*dto.InstallationResponse, error)
}

type installationService struct {
	ServiceParams
}

func NewInstallationService(params ServiceParams) InstallationService {
	return &installationService{ServiceParams: params}
}

func (s *installationService) CreateInstallation(ctx context.Context, req dto.CreateInstallationRequest) (*dto.InstallationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ClientRepo.Get(ctx, req.ClientID); err != nil {
		return nil, err
	}
	if _, err := s.PlanRepo.Get(ctx, req.ServicePlanID); err != nil {
		return nil, err
	}

	inst := req.ToInstallation(ctx)
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if err := s.InstallationRepo.Create(ctx, inst); err != nil {
		return nil, err
	}

	s.Logger.Infow("created installation",
		"installation_id", inst.ID,
		"client_id", inst.ClientID,
		"service_plan_id", inst.ServicePlanID,
	)
	return &dto.InstallationResponse{Installation: inst}, nil
}

func (s *installationService) GetInstallation(ctx context.Context, id string) (*dto.InstallationResponse, error) {
	inst, err := s.InstallationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.InstallationResponse{Installation: inst}, nil
}

func (s *installationService) UpdateInstallation(ctx context.Context, id string, req dto.UpdateInstallationRequest) (*dto.InstallationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inst, err := s.InstallationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst.ServiceStatus == types.ServiceStatusCancelled {
		return nil, ierr.NewError("installation is cancelled").
			WithHintf("Installation %s is cancelled and cannot be edited", id).
			Mark(ierr.ErrInvalidOperation)
	}

	if req.ServicePlanID != nil {
		if _, err := s.PlanRepo.Get(ctx, *req.ServicePlanID); err != nil {
			return nil, err
		}
		inst.ServicePlanID = *req.ServicePlanID
	}
	if req.MonthlyFee != nil {
		inst.MonthlyFee = req.MonthlyFee
	}
	if req.Address != nil {
		inst.Address = *req.Address
	}
	inst.UpdatedAt = s.Clock.Now()
	inst.UpdatedBy = types.GetUserID(ctx)

	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if err := s.InstallationRepo.Update(ctx, inst); err != nil {
		return nil, err
	}
	return &dto.InstallationResponse{Installation: inst}, nil
}

func (s *installationService) ListInstallations(ctx context.Context, filter *types.QueryFilter) (*dto.ListInstallationsResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid pagination parameters").
			Mark(ierr.ErrValidation)
	}

	installations, err := s.InstallationRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toInstallationList(installations), nil
}

func (s *installationService) ListByClient(ctx context.Context, clientID string) (*dto.ListInstallationsResponse, error) {
	installations, err := s.InstallationRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return toInstallationList(installations), nil
}

func (s *installationService) SuspendInstallation(ctx context.Context, id string) (*dto.InstallationResponse, error) {
	inst, err := s.InstallationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst.ServiceStatus != types.ServiceStatusActive {
		return nil, ierr.NewError("only active installations can be suspended").
			WithHintf("Installation %s is %s", id, inst.ServiceStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	inst.ServiceStatus = types.ServiceStatusSuspended
	inst.UpdatedAt = s.Clock.Now()
	inst.UpdatedBy = types.GetUserID(ctx)
	if err := s.InstallationRepo.Update(ctx, inst); err != nil {
		return nil, err
	}

	s.Logger.Infow("suspended installation", "installation_id", inst.ID)
	return &dto.InstallationResponse{Installation: inst}, nil
}

func (s *installationService) ResumeInstallation(ctx context.Context, id string) (*dto.InstallationResponse, error) {
	inst, err := s.InstallationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst.ServiceStatus != types.ServiceStatusSuspended {
		return nil, ierr.NewError("only suspended installations can be resumed").
			WithHintf("Installation %s is %s", id, inst.ServiceStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	inst.ServiceStatus = types.ServiceStatusActive
	inst.UpdatedAt = s.Clock.Now()
	inst.UpdatedBy = types.GetUserID(ctx)
	if err := s.InstallationRepo.Update(ctx, inst); err != nil {
		return nil, err
	}

	s.Logger.Infow("resumed installation", "installation_id", inst.ID)
	return &dto.InstallationResponse{Installation: inst}, nil
}

// CancelInstallation ends service on the given date. The installation keeps
// billing through the cancellation date: a mid-month cancellation prorates the
// final statement instead of dropping it.
func (s *installationService) CancelInstallation(ctx context.Context, id string, req dto.CancelInstallationRequest) (*dto.InstallationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inst, err := s.InstallationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst.ServiceStatus == types.ServiceStatusCancelled {
		return nil, ierr.NewError("installation already cancelled").
			WithHintf("Installation %s is already cancelled", id).
			Mark(ierr.ErrInvalidOperation)
	}

	cancelledAt := types.DateOnly(req.CancelledAt)
	if cancelledAt.Before(types.DateOnly(inst.InstallationDate)) {
		return nil, ierr.NewError("cancellation before installation date").
			WithHintf("Cancellation date %s precedes installation date %s",
				cancelledAt.Format("2006-01-02"),
				inst.InstallationDate.Format("2006-01-02")).
			Mark(ierr.ErrInvalidRange)
	}

	inst.ServiceStatus = types.ServiceStatusCancelled
	inst.CancelledAt = &cancelledAt
	inst.IsActive = false
	inst.UpdatedAt = s.Clock.Now()
	inst.UpdatedBy = types.GetUserID(ctx)
	if err := s.InstallationRepo.Update(ctx, inst); err != nil {
		return nil, err
	}

	s.Logger.Infow("cancelled installation",
		"installation_id", inst.ID,
		"cancelled_at", cancelledAt.Format("2006-01-02"),
	)
	return &dto.InstallationResponse{Installation: inst}, nil
}

func toInstallationList(installations []*installation.Installation) *dto.ListInstallationsResponse {
	resp := &dto.ListInstallationsResponse{
		Items: make([]*dto.InstallationResponse, 0, len(installations)),
	}
	for _, inst := range installations {
		resp.Items = append(resp.Items, &dto.InstallationResponse{Installation: inst})
	}
	return resp
}
