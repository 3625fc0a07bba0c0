package types

import "time"

// Status is the contract's position in the workflow.
type Status string

const (
	StatusUploaded Status = "uploaded"
	StatusAssigned Status = "assigned"
	StatusAnalyzed Status = "analyzed"
	StatusReviewed Status = "reviewed"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no workflow edge leaves the status.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Role of the acting user. Roles are resolved by the external user registry;
// the workflow only interprets them.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleCreator        Role = "creator"
	RoleLegalAssistant Role = "legal_assistant"
)

// Actor identifies who is performing a workflow action.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Language of an analysis result.
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)

// DefaultLanguages is the analysis language set when the caller does not pick one.
var DefaultLanguages = []Language{LangEnglish, LangArabic}

// RiskLevel is the canonical, language-independent risk tier.
type RiskLevel string

const (
	RiskUnknown RiskLevel = "unknown"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

// Rank orders risk tiers for reconciliation. Unknown sits below Low so that
// any real assessment wins over "no assessment".
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 0
	}
}

// Clauses holds the six fixed extraction fields. Fields are never empty:
// the parser substitutes a per-language "not found" sentinel for anything
// the model did not return.
type Clauses struct {
	Deadlines             string `json:"deadlines"`
	Responsibilities      string `json:"responsibilities"`
	PaymentTerms          string `json:"payment_terms"`
	Penalties             string `json:"penalties"`
	Confidentiality       string `json:"confidentiality"`
	TerminationConditions string `json:"termination_conditions"`
}

// AnalysisResult is one language's clause extraction. RiskLevel is expressed
// in that language's own vocabulary ("High" vs "عالي"); the reconciler
// translates before comparing.
type AnalysisResult struct {
	Clauses   Clauses `json:"extracted_clauses"`
	Summary   string  `json:"summary"`
	RiskLevel string  `json:"risk_level"`
}

// AnalysisSet maps language code to that language's result. The set may be
// partial while only one language has been analyzed.
type AnalysisSet map[Language]AnalysisResult

// Clone returns a shallow copy safe to mutate without touching the original.
func (s AnalysisSet) Clone() AnalysisSet {
	out := make(AnalysisSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Contract is the document entity under workflow.
type Contract struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Status          Status      `json:"status"`
	OrganizationID  *string     `json:"organization_id,omitempty"`
	UploadedBy      string      `json:"uploaded_by"`
	AssignedTo      *string     `json:"assigned_to,omitempty"`
	ApprovedBy      *string     `json:"approved_by,omitempty"`
	Text            string      `json:"-"`
	Analysis        AnalysisSet `json:"analysis,omitempty"`
	RiskLevel       RiskLevel   `json:"risk_level"`
	Deadline        *time.Time  `json:"deadline,omitempty"`
	ApprovalComment string      `json:"approval_comment,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	AssignedAt      *time.Time  `json:"assigned_at,omitempty"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ListFilter narrows contract list queries.
type ListFilter struct {
	Status         Status
	AssignedTo     string
	OrganizationID string
	Limit          int
}
