package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/http/response"
	"github.com/yungbote/payerdesk/internal/pkg/dbctx"
	"github.com/yungbote/payerdesk/internal/services"
)

type PayerHandler struct {
	registry services.PayerRegistryService
}

func NewPayerHandler(registry services.PayerRegistryService) *PayerHandler {
	return &PayerHandler{registry: registry}
}

// GET /api/payers
func (h *PayerHandler) ListPayers(c *gin.Context) {
	p, err := pagination(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	page, err := h.registry.ListPayers(dbctx.Context{Ctx: c.Request.Context()}, p)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/payer_groups
func (h *PayerHandler) ListGroups(c *gin.Context) {
	p, err := pagination(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	page, err := h.registry.ListGroups(dbctx.Context{Ctx: c.Request.Context()}, p)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

// POST /api/update_pretty_name
func (h *PayerHandler) UpdatePrettyName(c *gin.Context) {
	var req registry.UpdatePrettyNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.registry.UpdatePrettyName(dbctx.Context{Ctx: c.Request.Context()}, req.PayerID, req.PrettyName); err != nil {
		response.RespondErr(c, err)
		return
	}
	respondSuccess(c)
}

// POST /api/update_group
func (h *PayerHandler) UpdateGroup(c *gin.Context) {
	var req registry.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.registry.UpdateGroup(dbctx.Context{Ctx: c.Request.Context()}, req.PayerID, req.GroupID); err != nil {
		response.RespondErr(c, err)
		return
	}
	respondSuccess(c)
}

func pagination(c *gin.Context) (services.Pagination, error) {
	return services.ParsePagination(c.Query("page"), c.Query("per_page"))
}

func respondSuccess(c *gin.Context) {
	response.RespondOK(c, registry.StatusResponse{Status: "success"})
}
