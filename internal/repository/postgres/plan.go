package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/zandres28/imvcrm/internal/cache"
	"github.com/zandres28/imvcrm/internal/domain/plan"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/postgres"
	"github.com/zandres28/imvcrm/internal/types"
)

type planRepository struct {
	db    *postgres.DB
	log   *logger.Logger
	cache *cache.Cache
}

// NewPlanRepository returns a plan repository with a read-through cache; plans
// are fetched on every statement generation and change rarely.
func NewPlanRepository(db *postgres.DB, log *logger.Logger, cache *cache.Cache) plan.Repository {
	return &planRepository{db: db, log: log, cache: cache}
}

func planCacheKey(id string) string {
	return fmt.Sprintf("plan:%s", id)
}

func (r *planRepository) Create(ctx context.Context, p *plan.ServicePlan) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.NamedExecContext(ctx, `
		INSERT INTO service_plans (
			id, name, monthly_fee, installation_fee, speed_mbps,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :name, :monthly_fee, :installation_fee, :speed_mbps,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`, p)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create service plan").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.ServicePlan, error) {
	if cached, ok := r.cache.Get(planCacheKey(id)); ok {
		if p, ok := cached.(*plan.ServicePlan); ok {
			return p, nil
		}
	}

	q := r.db.GetQuerier(ctx)
	var p plan.ServicePlan
	err := q.GetContext(ctx, &p, `
		SELECT * FROM service_plans WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("service plan not found").
				WithHintf("Service plan %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get service plan").
			Mark(ierr.ErrDatabase)
	}

	r.cache.Set(planCacheKey(id), &p)
	return &p, nil
}

func (r *planRepository) Update(ctx context.Context, p *plan.ServicePlan) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.NamedExecContext(ctx, `
		UPDATE service_plans SET
			name = :name, monthly_fee = :monthly_fee,
			installation_fee = :installation_fee, speed_mbps = :speed_mbps,
			status = :status, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id`, p)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update service plan").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("service plan not found").
			WithHintf("Service plan %s does not exist", p.ID).
			Mark(ierr.ErrNotFound)
	}

	r.cache.Delete(planCacheKey(p.ID))
	return nil
}

func (r *planRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*plan.ServicePlan, error) {
	q := r.db.GetQuerier(ctx)
	plans := []*plan.ServicePlan{}
	err := q.SelectContext(ctx, &plans, `
		SELECT * FROM service_plans
		WHERE status != $1
		ORDER BY monthly_fee ASC
		LIMIT $2 OFFSET $3`,
		types.StatusDeleted, filter.GetLimit(), filter.GetOffset())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list service plans").
			Mark(ierr.ErrDatabase)
	}
	return plans, nil
}
