package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"contractflow/types"
)

// ContractRepo wraps all access to the contracts table.
type ContractRepo struct {
	db *gorm.DB
}

func NewContractRepo(db *gorm.DB) *ContractRepo {
	return &ContractRepo{db: db}
}

// Create inserts a new contract record.
func (r *ContractRepo) Create(ctx context.Context, c *types.Contract) error {
	entity, err := fromDomain(c)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(entity).Error
}

// GetByID loads one contract. A missing row maps to types.ErrNotFound.
func (r *ContractRepo) GetByID(ctx context.Context, id string) (*types.Contract, error) {
	var entity Contract
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return entity.toDomain()
}

// UpdateGuarded persists the mutable workflow fields of c, but only if the
// row's updated_at still equals prevUpdatedAt. A concurrent writer that got
// there first makes the guard fail and the caller gets types.ErrConflict
// instead of silently clobbering the newer state.
func (r *ContractRepo) UpdateGuarded(ctx context.Context, c *types.Contract, prevUpdatedAt time.Time) error {
	entity, err := fromDomain(c)
	if err != nil {
		return err
	}

	updates := map[string]any{
		"status":           entity.Status,
		"assigned_to":      entity.AssignedTo,
		"assigned_at":      entity.AssignedAt,
		"approved_by":      entity.ApprovedBy,
		"approval_comment": entity.ApprovalComment,
		"analysis":         entity.Analysis,
		"risk_level":       entity.RiskLevel,
		"updated_at":       entity.UpdatedAt,
	}

	result := r.db.WithContext(ctx).
		Model(&Contract{}).
		Where("id = ? AND updated_at = ?", c.ID, prevUpdatedAt).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the row is gone or someone updated it first.
		var count int64
		if err := r.db.WithContext(ctx).Model(&Contract{}).Where("id = ?", c.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return types.ErrNotFound
		}
		return types.ErrConflict
	}
	return nil
}

// SetDeadlineIfAbsent records a resolved deadline only when the contract does
// not already carry one. A previously resolved, concrete deadline is never
// downgraded to a re-inferred value.
func (r *ContractRepo) SetDeadlineIfAbsent(ctx context.Context, id string, deadline time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Contract{}).
		Where("id = ? AND deadline IS NULL", id).
		Update("deadline", deadline)
	return result.RowsAffected > 0, result.Error
}

// List returns contracts matching the filter, newest first.
func (r *ContractRepo) List(ctx context.Context, filter types.ListFilter) ([]*types.Contract, error) {
	tx := r.db.WithContext(ctx).Model(&Contract{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.AssignedTo != "" {
		tx = tx.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.OrganizationID != "" {
		tx = tx.Where("organization_id = ?", filter.OrganizationID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var entities []Contract
	if err := tx.Order("created_at DESC").Limit(limit).Find(&entities).Error; err != nil {
		return nil, err
	}

	out := make([]*types.Contract, 0, len(entities))
	for i := range entities {
		c, err := entities[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ListMissingDeadline finds analyzed (or later) contracts that still have no
// resolved deadline. Used by the nightly enrichment sweep.
func (r *ContractRepo) ListMissingDeadline(ctx context.Context, limit int) ([]*types.Contract, error) {
	if limit <= 0 {
		limit = 50
	}
	var entities []Contract
	err := r.db.WithContext(ctx).
		Where("deadline IS NULL AND analysis IS NOT NULL").
		Where("status IN ?", []string{
			string(types.StatusAnalyzed),
			string(types.StatusReviewed),
			string(types.StatusApproved),
		}).
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, err
	}

	out := make([]*types.Contract, 0, len(entities))
	for i := range entities {
		c, err := entities[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
