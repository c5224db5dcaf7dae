package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/logfarma/armazem-api/internal/application/admission"
	"github.com/logfarma/armazem-api/internal/application/auth"
	"github.com/logfarma/armazem-api/internal/application/cart"
	"github.com/logfarma/armazem-api/internal/application/storage"
	"github.com/logfarma/armazem-api/internal/domain/entity"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	LifecycleUC  *cart.LifecycleUseCase
	AdmitUC      *admission.AdmitScanUseCase
	ReviewUC     *cart.ReviewUseCase
	LedgerUC     *storage.LedgerUseCase
	Confirmation *storage.ConfirmationService
	JWTSecret    string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Carros de bipagem (qualquer papel autenticado)
	carts := protected.Group("/carts")
	cartHandler := NewCartHandler(deps.LifecycleUC, deps.AdmitUC)
	carts.Post("/", cartHandler.Create)
	carts.Get("/", cartHandler.List)
	carts.Get("/:id", cartHandler.GetByID)
	carts.Post("/:id/scans", cartHandler.Scan)
	carts.Delete("/:id/entries/:entryId", cartHandler.RemoveEntry)
	carts.Post("/:id/entries/:entryId/read", cartHandler.MarkEntryRead)
	carts.Post("/:id/finalize", cartHandler.Finalize)
	carts.Post("/:id/start-packing", cartHandler.StartPacking)

	// Conferência central (conferente ou admin)
	reviewHandler := NewReviewHandler(deps.ReviewUC)
	reviews := carts.Group("/:cartId/review", RequireRole(entity.RoleConferente, entity.RoleAdmin))
	reviews.Get("/", reviewHandler.GetByCart)
	reviews.Post("/divergence", reviewHandler.ToDivergenceReview)
	reviews.Post("/await-dispatch", reviewHandler.ToAwaitingDispatch)
	reviews.Post("/dispatch-numbers", reviewHandler.AddDispatchNumber)
	reviews.Post("/dispatch", reviewHandler.Dispatch)

	// Ledger de armazenagem
	storageHandler := NewStorageHandler(deps.LedgerUC, deps.Confirmation)
	positions := protected.Group("/positions")
	positions.Post("/", storageHandler.CreatePosition)
	positions.Get("/", storageHandler.ListPositions)
	positions.Post("/:id/block", RequireRole(entity.RoleConferente, entity.RoleAdmin), storageHandler.BlockPosition)
	positions.Post("/:id/unblock", RequireRole(entity.RoleConferente, entity.RoleAdmin), storageHandler.UnblockPosition)

	loads := protected.Group("/loads")
	loads.Post("/", storageHandler.CreateLoad)
	loads.Get("/:id/totals", storageHandler.LoadTotals)

	pallets := protected.Group("/pallets")
	pallets.Post("/", storageHandler.CreatePallet)
	pallets.Get("/:id", storageHandler.GetPallet)
	pallets.Get("/:id/suggestions", storageHandler.Suggest)

	// Protocolo de confirmação em duas bipagens
	confirmations := protected.Group("/confirmations")
	confirmations.Post("/addressing", storageHandler.StartAddressing)
	confirmations.Post("/picking", storageHandler.StartPicking)
	confirmations.Get("/:id", storageHandler.GetConfirmation)
	confirmations.Post("/:id/scan-object", storageHandler.ScanObject)
	confirmations.Post("/:id/scan-location", storageHandler.ScanLocation)
	confirmations.Delete("/:id", storageHandler.Abandon)
}
