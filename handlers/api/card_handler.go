package handlers

import (
	"errors"

	"uyekart.link/configs/configslog"
	"uyekart.link/pkg/gwallet"
	"uyekart.link/pkg/passkit"
	"uyekart.link/pkg/queryparams"
	"uyekart.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CardAPIHandler kart üretim ve yaşam döngüsü API isteklerini yönetir.
type CardAPIHandler struct {
	service services.IIssuanceService
}

// NewCardAPIHandler yeni bir CardAPIHandler örneği oluşturur.
func NewCardAPIHandler(service services.IIssuanceService) *CardAPIHandler {
	return &CardAPIHandler{service: service}
}

// issueCardRequest POST /api/cards isteğinin gövdesi.
type issueCardRequest struct {
	MembershipID uint   `json:"membership_id"`
	CardType     string `json:"card_type"`
}

// IssueCard üyelik için kart üretir. İkinci çağrı aynı kartı döndürür (idempotent).
func (h *CardAPIHandler) IssueCard(c *fiber.Ctx) error {
	var req issueCardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
	}

	card, err := h.service.IssueCard(c.UserContext(), req.MembershipID, req.CardType)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":            card.ID,
		"card_type":     card.CardType,
		"reference_url": card.ReferenceURL,
		"status":        card.Status,
		"expires_at":    card.ExpiresAt,
	})
}

// ListCards kartları sayfalayarak listeler (yönetim API'si).
func (h *CardAPIHandler) ListCards(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		configslog.Log.Warn("ListCards: Query parse error", zap.Error(err))
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetCardsPaginated(params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// ListMembershipCards bir üyeliğe ait kartları listeler.
func (h *CardAPIHandler) ListMembershipCards(c *fiber.Ctx) error {
	membershipID, err := c.ParamsInt("id")
	if err != nil || membershipID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz üyelik ID"})
	}

	cards, err := h.service.GetCardsForMembership(c.UserContext(), uint(membershipID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": cards})
}

// RefreshCard kartı üyeliğin güncel geçerlilik aralığıyla yeniden üretir.
func (h *CardAPIHandler) RefreshCard(c *fiber.Ctx) error {
	cardID, err := c.ParamsInt("id")
	if err != nil || cardID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz kart ID"})
	}

	card, err := h.service.RefreshCard(c.UserContext(), uint(cardID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":            card.ID,
		"card_type":     card.CardType,
		"reference_url": card.ReferenceURL,
		"status":        card.Status,
		"expires_at":    card.ExpiresAt,
	})
}

// RevokeCard kartı iptal eder.
func (h *CardAPIHandler) RevokeCard(c *fiber.Ctx) error {
	cardID, err := c.ParamsInt("id")
	if err != nil || cardID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz kart ID"})
	}

	if err := h.service.RevokeCard(c.UserContext(), uint(cardID)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExpireCard kartı süresi dolmuş olarak işaretler (dış toplu işin tetiği).
func (h *CardAPIHandler) ExpireCard(c *fiber.Ctx) error {
	cardID, err := c.ParamsInt("id")
	if err != nil || cardID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz kart ID"})
	}

	if err := h.service.ExpireCard(c.UserContext(), uint(cardID)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPass .pkpass paketini indirir.
func (h *CardAPIHandler) DownloadPass(c *fiber.Ctx) error {
	serial := c.Params("serial")

	data, err := h.service.GetPassBundle(c.UserContext(), serial)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.apple.pkpass")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+serial+`.pkpass"`)
	return c.Send(data)
}

// respondError hata taksonomisini HTTP durum kodlarına çevirir. Beş tür de
// ayırt edilir; hiçbiri sessizce yutulmaz.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Error()})
	}

	var notFoundErr services.NotFoundError
	if errors.As(err, &notFoundErr) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundErr.Error()})
	}

	var externalErr *gwallet.ExternalServiceError
	if errors.As(err, &externalErr) {
		configslog.Log.Error("Uzak cüzdan servisi hatası", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "cüzdan servisi şu anda ulaşılamıyor"})
	}

	var signingErr *passkit.SigningError
	if errors.As(err, &signingErr) {
		// Konfigürasyon sorunu: operatör ilgisi gerekir.
		configslog.Log.Error("İmzalama altyapısı hatası", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "kart imzalama başarısız"})
	}

	var archiveErr *passkit.ArchiveError
	if errors.As(err, &archiveErr) {
		configslog.Log.Error("Paket arşivi hatası", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "kart paketi oluşturulamadı"})
	}

	configslog.Log.Error("Beklenmeyen servis hatası", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "beklenmeyen bir hata oluştu"})
}
