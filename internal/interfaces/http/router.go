package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/almoxsys/almoxarifado-api/internal/application/auth"
	"github.com/almoxsys/almoxarifado-api/internal/application/estoque"
	"github.com/almoxsys/almoxarifado-api/internal/application/usecase"
	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	MaterialUC *usecase.MaterialUseCase
	ApplyUC    *estoque.ApplyMovementUseCase
	ApprovalUC *estoque.ApprovalUseCase
	LedgerUC   *estoque.LedgerUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra as rotas da API. O RBAC da borda espelha as páginas do
// sistema: movimentações diretas e resolução são de admin; histórico é de
// admin e consulta; qualquer perfil autenticado solicita retirada.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Materiais
	materiais := protected.Group("/materiais")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materiais.Get("/", materialHandler.List)
	materiais.Get("/abaixo-minimo", materialHandler.ListBelowMinimum)
	materiais.Get("/:id", materialHandler.GetByID)
	materiais.Post("/", RequireRole(entity.PerfilAdmin), materialHandler.Create)
	materiais.Put("/:id", RequireRole(entity.PerfilAdmin), materialHandler.Update)
	materiais.Delete("/:id", RequireRole(entity.PerfilAdmin), materialHandler.Delete)

	// Movimentações diretas + ledger
	movimentacoes := protected.Group("/movimentacoes")
	movementHandler := NewMovementHandler(deps.ApplyUC, deps.LedgerUC)
	movimentacoes.Post("/", RequireRole(entity.PerfilAdmin), movementHandler.ApplyDirect)
	movimentacoes.Get("/", RequireRole(entity.PerfilAdmin, entity.PerfilConsulta), movementHandler.History)
	movimentacoes.Get("/export", RequireRole(entity.PerfilAdmin, entity.PerfilConsulta), movementHandler.ExportHistory)
	movimentacoes.Get("/reconciliacao", RequireRole(entity.PerfilAdmin), movementHandler.ReconcileAll)
	movimentacoes.Get("/reconciliacao/:id", RequireRole(entity.PerfilAdmin), movementHandler.Reconcile)

	// Solicitações de retirada
	solicitacoes := protected.Group("/solicitacoes")
	approvalHandler := NewApprovalHandler(deps.ApprovalUC)
	solicitacoes.Post("/", approvalHandler.CreateWithdrawal)
	solicitacoes.Get("/pendentes", RequireRole(entity.PerfilAdmin), approvalHandler.ListPending)
	solicitacoes.Post("/:id/resolver", RequireRole(entity.PerfilAdmin), approvalHandler.Resolve)
}
