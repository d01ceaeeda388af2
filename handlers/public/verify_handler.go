package handlers

import (
	"uyekart.link/services"

	"github.com/gofiber/fiber/v2"
)

// VerifyHandler public, kimlik doğrulamasız doğrulama isteklerini yönetir.
// Uç nokta her zaman 200 döner; geçerlilik gövdede bildirilir ki durum kodu
// üzerinden varlık sızıntısı olmasın. Hız sınırlama dış katmanın (reverse
// proxy) sorumluluğundadır.
type VerifyHandler struct {
	service services.IVerificationService
}

// NewVerifyHandler yeni bir VerifyHandler örneği oluşturur.
func NewVerifyHandler(service services.IVerificationService) *VerifyHandler {
	return &VerifyHandler{service: service}
}

// VerifyJSON GET /api/verify/:token — asgari geçerlilik izdüşümünü JSON döner.
func (h *VerifyHandler) VerifyJSON(c *fiber.Ctx) error {
	token := c.Params("token")
	result := h.service.Verify(c.UserContext(), token)
	return c.Status(fiber.StatusOK).JSON(result)
}

// VerifyPage GET /v/:token — karekod tarayan kişiye gösterilen HTML sayfası.
func (h *VerifyHandler) VerifyPage(c *fiber.Ctx) error {
	token := c.Params("token")
	result := h.service.Verify(c.UserContext(), token)

	return c.Render("public/verify", fiber.Map{
		"Title":  "Üyelik Doğrulama",
		"Result": result,
	})
}
