package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/almoxsys/almoxarifado-api/internal/application/dto"
	"github.com/almoxsys/almoxarifado-api/internal/application/estoque"
	"github.com/almoxsys/almoxarifado-api/internal/infrastructure/ops"
)

// ApprovalHandler trata solicitações de retirada e sua resolução.
type ApprovalHandler struct {
	uc *estoque.ApprovalUseCase
}

// NewApprovalHandler constrói o handler.
func NewApprovalHandler(uc *estoque.ApprovalUseCase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc}
}

// CreateWithdrawal cria uma solicitação de retirada pendente.
func (h *ApprovalHandler) CreateWithdrawal(c *fiber.Ctx) error {
	userID := GetUserID(c)
	perfil := GetPerfil(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.WithdrawalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	mov, err := h.uc.CreateWithdrawalRequest(c.Context(), estoque.WithdrawalInput{
		MaterialID: in.MaterialID,
		Quantidade: in.Quantidade,
		UserID:     userID,
		Perfil:     perfil,
		Observacao: in.Observacao,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	ops.SolicitacoesCriadas.Inc()
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// ListPending lista solicitações pendentes (mais antigas primeiro).
func (h *ApprovalHandler) ListPending(c *fiber.Ctx) error {
	list, err := h.uc.ListPending(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.MovementDetailResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.ToMovementDetailResponse(d))
	}
	return c.JSON(fiber.Map{"total": len(out), "solicitacoes": out})
}

// Resolve aprova ou rejeita uma solicitação pendente, uma única vez.
func (h *ApprovalHandler) Resolve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	perfil := GetPerfil(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ResolveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	mov, err := h.uc.ResolveRequest(c.Context(), c.Params("id"), in.Decisao, userID, perfil)
	if err != nil {
		return respondDomainError(c, err)
	}
	ops.SolicitacoesResolvidas.WithLabelValues(in.Decisao).Inc()
	return c.JSON(dto.ToMovementResponse(mov))
}
