package handlers

import (
	"net/http"

	"gearguard-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// WarrantyAlertHandler handles the bulk warranty alert operation
type WarrantyAlertHandler struct {
	alertService service.WarrantyAlertServiceInterface
}

// NewWarrantyAlertHandler creates a new warranty alert handler
func NewWarrantyAlertHandler(alertService service.WarrantyAlertServiceInterface) *WarrantyAlertHandler {
	return &WarrantyAlertHandler{alertService: alertService}
}

// SendAlerts handles POST /equipment/warranty-alerts
// @Summary Send warranty alerts
// @Description Posts a warranty alert message on each selected piece of equipment and notifies its technician
// @Tags equipment
// @Accept json
// @Produce json
// @Param selection body service.WarrantyAlertRequest true "Equipment selection and template"
// @Success 200 {object} service.WarrantyAlertResponse "Number of equipment processed"
// @Failure 400 {object} ErrorResponse "Empty selection"
// @Failure 404 {object} ErrorResponse "Equipment or template not found"
// @Security BearerAuth
// @Router /equipment/warranty-alerts [post]
func (h *WarrantyAlertHandler) SendAlerts(c *gin.Context) {
	var req service.WarrantyAlertRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.alertService.Send(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PreviewAlert handles POST /equipment/warranty-alerts/preview
// @Summary Preview a warranty alert
// @Description Renders the template for the first selected piece of equipment without sending anything
// @Tags equipment
// @Accept json
// @Produce json
// @Param selection body service.WarrantyAlertRequest true "Equipment selection and template"
// @Success 200 {object} notify.Message "Rendered subject and body"
// @Failure 400 {object} ErrorResponse "Empty selection"
// @Failure 404 {object} ErrorResponse "Equipment or template not found"
// @Security BearerAuth
// @Router /equipment/warranty-alerts/preview [post]
func (h *WarrantyAlertHandler) PreviewAlert(c *gin.Context) {
	var req service.WarrantyAlertRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.alertService.Preview(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}
