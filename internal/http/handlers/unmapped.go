package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/http/response"
	"github.com/yungbote/payerdesk/internal/pkg/dbctx"
	"github.com/yungbote/payerdesk/internal/services"
)

type UnmappedHandler struct {
	unmapped services.UnmappedService
}

func NewUnmappedHandler(unmapped services.UnmappedService) *UnmappedHandler {
	return &UnmappedHandler{unmapped: unmapped}
}

// GET /api/unmapped
func (h *UnmappedHandler) ListUnmapped(c *gin.Context) {
	p, err := pagination(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	page, err := h.unmapped.List(dbctx.Context{Ctx: c.Request.Context()}, p)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

// POST /api/map_payer
func (h *UnmappedHandler) MapPayer(c *gin.Context) {
	var req registry.MapPayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.unmapped.MapPayer(dbctx.Context{Ctx: c.Request.Context()}, req.DetailID, req.PayerID); err != nil {
		response.RespondErr(c, err)
		return
	}
	respondSuccess(c)
}
