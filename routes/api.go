package routes

import (
	apihandlers "uyekart.link/handlers/api"
	"uyekart.link/services"

	"github.com/gofiber/fiber/v2"
)

// registerAPIRoutes kart üretim ve yaşam döngüsü API rotalarını tanımlar.
// Bu rotaların önüne kimlik doğrulama koymak dış katmanın işidir; çekirdek
// yalnızca işlemleri sunar.
func registerAPIRoutes(app *fiber.App, issuance services.IIssuanceService) {
	handler := apihandlers.NewCardAPIHandler(issuance)

	api := app.Group("/api")
	api.Post("/cards", handler.IssueCard)
	api.Get("/cards", handler.ListCards)
	api.Post("/cards/:id/refresh", handler.RefreshCard)
	api.Post("/cards/:id/revoke", handler.RevokeCard)
	api.Post("/cards/:id/expire", handler.ExpireCard)
	api.Get("/memberships/:id/cards", handler.ListMembershipCards)
}
