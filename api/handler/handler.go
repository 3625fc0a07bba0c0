package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contractflow/api/response"
	"contractflow/service"
	"contractflow/types"
)

type ContractHandler struct {
	workflowSvc *service.WorkflowService
}

func NewContractHandler(workflowSvc *service.WorkflowService) *ContractHandler {
	return &ContractHandler{workflowSvc: workflowSvc}
}

// actor reads the acting user from headers. Authentication itself lives in
// front of this service; assignment eligibility is re-checked against the
// persisted contract, so a forged role cannot act on someone else's file.
func actor(c *gin.Context) (types.Actor, bool) {
	a := types.Actor{
		ID:   c.GetHeader("X-User-ID"),
		Role: types.Role(c.GetHeader("X-User-Role")),
	}
	if a.ID == "" || a.Role == "" {
		response.Fail(c, http.StatusUnauthorized, "missing user identity headers")
		return a, false
	}
	return a, true
}

type uploadRequest struct {
	Title          string  `json:"title" binding:"required"`
	Text           string  `json:"text" binding:"required"`
	OrganizationID *string `json:"organization_id"`
}

func (h *ContractHandler) Upload(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request: title and text are required")
		return
	}

	contract, err := h.workflowSvc.Upload(c.Request.Context(), service.UploadRequest{
		Title:          req.Title,
		Text:           req.Text,
		OrganizationID: req.OrganizationID,
		UploadedBy:     act.ID,
	})
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, contract)
}

type assignRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required"`
}

func (h *ContractHandler) Assign(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request: assignee_id is required")
		return
	}

	contract, err := h.workflowSvc.Assign(c.Request.Context(), c.Param("id"), act, req.AssigneeID)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, contract)
}

type analyzeRequest struct {
	Languages []types.Language `json:"languages"`
}

func (h *ContractHandler) Analyze(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req analyzeRequest
	// Body is optional; missing languages default to en+ar.
	_ = c.ShouldBindJSON(&req)

	contract, err := h.workflowSvc.Analyze(c.Request.Context(), c.Param("id"), act, req.Languages)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, contract)
}

type decisionRequest struct {
	Comment string `json:"comment"`
}

func (h *ContractHandler) Approve(c *gin.Context) {
	h.decide(c, h.workflowSvc.Approve)
}

func (h *ContractHandler) Reject(c *gin.Context) {
	h.decide(c, h.workflowSvc.Reject)
}

type decideFunc func(ctx context.Context, id string, actor types.Actor, comment string) (*types.Contract, error)

func (h *ContractHandler) decide(c *gin.Context, op decideFunc) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req decisionRequest
	// Comment is optional; the workflow substitutes a default.
	_ = c.ShouldBindJSON(&req)

	contract, err := op(c.Request.Context(), c.Param("id"), act, req.Comment)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, contract)
}

func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.workflowSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, contract)
}

func (h *ContractHandler) List(c *gin.Context) {
	filter := types.ListFilter{
		Status:         types.Status(c.Query("status")),
		AssignedTo:     c.Query("assigned_to"),
		OrganizationID: c.Query("organization_id"),
	}
	contracts, err := h.workflowSvc.List(c.Request.Context(), filter)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, contracts)
}

// failWith maps domain errors to one human-readable message per action.
// Internal cause detail stays in the logs.
func failWith(c *gin.Context, err error) {
	var validationErr *types.ValidationError
	var svcErr *types.ServiceError

	switch {
	case errors.Is(err, types.ErrNotFound):
		response.Fail(c, http.StatusNotFound, "contract not found")
	case errors.Is(err, types.ErrForbidden):
		response.Fail(c, http.StatusForbidden, "you are not allowed to perform this action")
	case errors.Is(err, types.ErrInvalidTransition):
		response.Fail(c, http.StatusConflict, "this action is not possible in the contract's current status")
	case errors.Is(err, types.ErrConflict):
		response.Fail(c, http.StatusConflict, "the contract changed while you were working, please retry")
	case errors.As(err, &validationErr):
		response.Fail(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &svcErr):
		response.Fail(c, http.StatusBadGateway, "analysis failed, try again")
	default:
		response.Fail(c, http.StatusInternalServerError, "internal error")
	}
}
