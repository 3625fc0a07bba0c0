package postgres

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"contractflow/types"
)

// Contract maps to the contracts table. The per-language analysis results are
// stored as one JSONB column keyed by language code.
type Contract struct {
	ID              string         `gorm:"column:id;primaryKey;type:uuid"`
	Title           string         `gorm:"column:title;type:varchar(255);not null"`
	Status          string         `gorm:"column:status;type:varchar(20);not null;index"`
	OrganizationID  *string        `gorm:"column:organization_id;type:uuid;index"`
	UploadedBy      string         `gorm:"column:uploaded_by;type:uuid;not null"`
	AssignedTo      *string        `gorm:"column:assigned_to;type:uuid;index"`
	ApprovedBy      *string        `gorm:"column:approved_by;type:uuid"`
	RawText         string         `gorm:"column:raw_text;type:text"`
	Analysis        datatypes.JSON `gorm:"column:analysis;type:jsonb"`
	RiskLevel       string         `gorm:"column:risk_level;type:varchar(10);index"`
	Deadline        *time.Time     `gorm:"column:deadline;index"`
	ApprovalComment string         `gorm:"column:approval_comment;type:text"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	AssignedAt      *time.Time     `gorm:"column:assigned_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

func (Contract) TableName() string {
	return "contracts"
}

func fromDomain(c *types.Contract) (*Contract, error) {
	var analysisJSON datatypes.JSON
	if len(c.Analysis) > 0 {
		raw, err := json.Marshal(c.Analysis)
		if err != nil {
			return nil, err
		}
		analysisJSON = raw
	}
	return &Contract{
		ID:              c.ID,
		Title:           c.Title,
		Status:          string(c.Status),
		OrganizationID:  c.OrganizationID,
		UploadedBy:      c.UploadedBy,
		AssignedTo:      c.AssignedTo,
		ApprovedBy:      c.ApprovedBy,
		RawText:         c.Text,
		Analysis:        analysisJSON,
		RiskLevel:       string(c.RiskLevel),
		Deadline:        c.Deadline,
		ApprovalComment: c.ApprovalComment,
		CreatedAt:       c.CreatedAt,
		AssignedAt:      c.AssignedAt,
		UpdatedAt:       c.UpdatedAt,
	}, nil
}

func (e *Contract) toDomain() (*types.Contract, error) {
	var analysis types.AnalysisSet
	if len(e.Analysis) > 0 {
		if err := json.Unmarshal(e.Analysis, &analysis); err != nil {
			return nil, err
		}
	}
	risk := types.RiskLevel(e.RiskLevel)
	if risk == "" {
		risk = types.RiskUnknown
	}
	return &types.Contract{
		ID:              e.ID,
		Title:           e.Title,
		Status:          types.Status(e.Status),
		OrganizationID:  e.OrganizationID,
		UploadedBy:      e.UploadedBy,
		AssignedTo:      e.AssignedTo,
		ApprovedBy:      e.ApprovedBy,
		Text:            e.RawText,
		Analysis:        analysis,
		RiskLevel:       risk,
		Deadline:        e.Deadline,
		ApprovalComment: e.ApprovalComment,
		CreatedAt:       e.CreatedAt,
		AssignedAt:      e.AssignedAt,
		UpdatedAt:       e.UpdatedAt,
	}, nil
}
