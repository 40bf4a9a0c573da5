// internal/api/handlers/reporte_handler.go
package handlers

import (
	"github.com/AvantikaTIC/depuracionContable/internal/api/responses"
	"github.com/AvantikaTIC/depuracionContable/internal/core/reporte"
	"github.com/gin-gonic/gin"
)

// ReporteHandler atiende el envío del resumen de facturación electrónica.
type ReporteHandler struct {
	service reporte.Service
}

func NewReporteHandler(service reporte.Service) *ReporteHandler {
	return &ReporteHandler{service: service}
}

// HandleEnviarCorreo genera el resumen con los últimos datos procesados y
// lo envía por correo.
func (h *ReporteHandler) HandleEnviarCorreo(c *gin.Context) {
	resultado, err := h.service.EnviarReporte(c.Request.Context())
	if err != nil {
		responses.Business(c, err)
		return
	}

	mensaje := "Correo enviado exitosamente"
	if resultado.TotalesDiferentes {
		mensaje += " con archivos Excel adjuntos (diferencia detectada)"
	}
	responses.OK(c, mensaje, resultado)
}
