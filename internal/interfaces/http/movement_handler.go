package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/almoxsys/almoxarifado-api/internal/application/dto"
	"github.com/almoxsys/almoxarifado-api/internal/application/estoque"
	"github.com/almoxsys/almoxarifado-api/internal/application/report"
	"github.com/almoxsys/almoxarifado-api/internal/infrastructure/ops"
)

// MovementHandler trata movimentações diretas e as leituras do ledger.
type MovementHandler struct {
	apply  *estoque.ApplyMovementUseCase
	ledger *estoque.LedgerUseCase
}

// NewMovementHandler constrói o handler.
func NewMovementHandler(apply *estoque.ApplyMovementUseCase, ledger *estoque.LedgerUseCase) *MovementHandler {
	return &MovementHandler{apply: apply, ledger: ledger}
}

// ApplyDirect registra uma movimentação direta (entrada, saida, ajuste).
func (h *MovementHandler) ApplyDirect(c *fiber.Ctx) error {
	userID := GetUserID(c)
	perfil := GetPerfil(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.DirectMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	mov, material, err := h.apply.ApplyDirectMovement(c.Context(), estoque.DirectMovementInput{
		MaterialID: in.MaterialID,
		Tipo:       in.Tipo,
		Quantidade: in.Quantidade,
		UserID:     userID,
		Perfil:     perfil,
		Observacao: in.Observacao,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	ops.MovimentacoesAplicadas.WithLabelValues(mov.Tipo).Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"movimentacao": dto.ToMovementResponse(mov),
		"material":     dto.ToMaterialResponse(material),
	})
}

// parseHistoryQuery extrai filtros de histórico da query string. Datas em
// RFC3339 ou somente dia (2006-01-02).
func parseHistoryQuery(c *fiber.Ctx) (materialID string, from, to *time.Time, page dto.PageRequest, err error) {
	materialID = c.Query("material_id")
	parse := func(s string) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		if t, e := time.Parse(time.RFC3339, s); e == nil {
			return &t, nil
		}
		t, e := time.Parse("2006-01-02", s)
		if e != nil {
			return nil, e
		}
		return &t, nil
	}
	if from, err = parse(c.Query("from")); err != nil {
		return "", nil, nil, page, err
	}
	if to, err = parse(c.Query("to")); err != nil {
		return "", nil, nil, page, err
	}
	page.Limit = c.QueryInt("limit")
	page.Offset = c.QueryInt("offset")
	page.DefaultPage()
	return materialID, from, to, page, nil
}

// History lista o histórico de movimentações (mais recentes primeiro).
func (h *MovementHandler) History(c *fiber.Ctx) error {
	materialID, from, to, page, err := parseHistoryQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "datas devem ser RFC3339 ou AAAA-MM-DD"})
	}
	list, err := h.ledger.History(c.Context(), materialID, from, to, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.MovementDetailResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.ToMovementDetailResponse(d))
	}
	return c.JSON(fiber.Map{"total": len(out), "movimentacoes": out})
}

// ExportHistory baixa o histórico filtrado como planilha xlsx.
func (h *MovementHandler) ExportHistory(c *fiber.Ctx) error {
	materialID, from, to, page, err := parseHistoryQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "datas devem ser RFC3339 ou AAAA-MM-DD"})
	}
	list, err := h.ledger.History(c.Context(), materialID, from, to, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	data, err := report.MovementHistoryExcel(list)
	if err != nil {
		return respondDomainError(c, err)
	}
	fileName := fmt.Sprintf("movimentacoes_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	return c.Send(data)
}

// Reconcile audita um material: soma do ledger versus contador vivo.
func (h *MovementHandler) Reconcile(c *fiber.Ctx) error {
	result, err := h.ledger.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toReconciliationResponse(result))
}

// ReconcileAll audita todos os materiais.
func (h *MovementHandler) ReconcileAll(c *fiber.Ctx) error {
	results, err := h.ledger.ReconcileAll(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.ReconciliationResponse, 0, len(results))
	divergentes := 0
	for _, r := range results {
		if !r.Consistente {
			divergentes++
		}
		out = append(out, toReconciliationResponse(r))
	}
	return c.JSON(fiber.Map{"total": len(out), "divergentes": divergentes, "materiais": out})
}

func toReconciliationResponse(r *estoque.ReconciliationResult) *dto.ReconciliationResponse {
	return &dto.ReconciliationResponse{
		MaterialID:      r.MaterialID,
		Codigo:          r.Codigo,
		QuantidadeAtual: r.QuantidadeAtual,
		SomaLedger:      r.SomaLedger,
		Consistente:     r.Consistente,
	}
}
