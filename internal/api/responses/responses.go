// internal/api/responses/responses.go
package responses

import (
	"errors"
	"net/http"

	"github.com/AvantikaTIC/depuracionContable/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// InitLogger configura el logger estructurado global de la API.
func InitLogger() {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	logger = l
}

// Logger devuelve el logger de la API.
func Logger() *zap.Logger {
	return logger
}

// OK responde con el sobre uniforme de éxito.
func OK(c *gin.Context, mensaje string, data any) {
	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": mensaje,
		"data":    data,
	})
}

// Error responde con el sobre uniforme de error.
func Error(c *gin.Context, status int, mensaje string, detalles ...string) {
	cuerpo := gin.H{
		"status":  status,
		"message": mensaje,
	}
	if len(detalles) > 0 {
		cuerpo["details"] = detalles
	}
	c.JSON(status, cuerpo)
}

// Business mapea un error del servicio al sobre uniforme: los errores de
// dominio salen con su mensaje legible; los inesperados se registran con
// detalle completo y salen con un mensaje genérico, sin filtrar internals.
func Business(c *gin.Context, err error) {
	be := domain.AsBusiness(err, "Error interno del servidor")

	var (
		schema     *domain.SchemaError
		vacio      *domain.EmptyResultError
		derivacion *domain.DerivationError
		sinDatos   *domain.NoDataError
	)
	switch {
	case errors.As(be, &schema), errors.As(be, &vacio),
		errors.As(be, &derivacion), errors.As(be, &sinDatos):
		Error(c, http.StatusBadRequest, be.Mensaje)
		return
	}

	logger.Error("error al atender la solicitud",
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err),
	)
	Error(c, http.StatusInternalServerError, be.Mensaje)
}
