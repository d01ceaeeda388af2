package routes

import (
	apihandlers "uyekart.link/handlers/api"
	publichandlers "uyekart.link/handlers/public"
	"uyekart.link/services"

	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes kimlik doğrulamasız public rotaları tanımlar:
// paket indirme, JSON doğrulama ve karekoddan açılan doğrulama sayfası.
func registerPublicRoutes(app *fiber.App, issuance services.IIssuanceService, verification services.IVerificationService) {
	cardHandler := apihandlers.NewCardAPIHandler(issuance)
	verifyHandler := publichandlers.NewVerifyHandler(verification)

	app.Get("/passes/:serial.pkpass", cardHandler.DownloadPass)
	app.Get("/api/verify/:token", verifyHandler.VerifyJSON)
	app.Get("/v/:token", verifyHandler.VerifyPage)
}
