// internal/api/handlers/depuracion_handler.go
package handlers

import (
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/AvantikaTIC/depuracionContable/internal/api/responses"
	"github.com/AvantikaTIC/depuracionContable/internal/core/depuracion"
	"github.com/gin-gonic/gin"
)

// DepuracionHandler atiende la carga y depuración de los archivos DIAN y
// DMS.
type DepuracionHandler struct {
	service depuracion.Service
}

func NewDepuracionHandler(service depuracion.Service) *DepuracionHandler {
	return &DepuracionHandler{service: service}
}

// HandleProcesarDian procesa el exporte de facturación electrónica DIAN.
func (h *DepuracionHandler) HandleProcesarDian(c *gin.Context) {
	archivo, nombre, ok := abrirArchivo(c)
	if !ok {
		return
	}
	defer archivo.Close()

	resultado, err := h.service.ProcesarArchivoDian(c.Request.Context(), archivo, nombre)
	if err != nil {
		responses.Business(c, err)
		return
	}

	mensaje := fmt.Sprintf("Archivo procesado exitosamente. %d registros procesados de %d originales.",
		resultado.TotalRegistrosFiltrados, resultado.TotalRegistrosOriginales)
	responses.OK(c, mensaje, gin.H{
		"total_registros_originales": resultado.TotalRegistrosOriginales,
		"total_registros_filtrados":  resultado.TotalRegistrosFiltrados,
		"tipo_archivo":               "dian",
		"nombre_archivo_original":    resultado.NombreArchivoOriginal,
		"nombre_archivo_procesado":   resultado.NombreArchivoProcesado,
		"archivo_procesado":          base64.StdEncoding.EncodeToString(resultado.ArchivoProcesado),
	})
}

// HandleProcesarDms procesa el exporte contable del DMS.
func (h *DepuracionHandler) HandleProcesarDms(c *gin.Context) {
	archivo, nombre, ok := abrirArchivo(c)
	if !ok {
		return
	}
	defer archivo.Close()

	resultado, err := h.service.ProcesarArchivoDms(c.Request.Context(), archivo, nombre)
	if err != nil {
		responses.Business(c, err)
		return
	}

	mensaje := fmt.Sprintf("Archivo DMS procesado exitosamente. %d registros procesados.",
		resultado.TotalRegistrosFiltrados)
	responses.OK(c, mensaje, gin.H{
		"total_registros":          resultado.TotalRegistrosFiltrados,
		"tipo_archivo":             "dms",
		"nombre_archivo_original":  resultado.NombreArchivoOriginal,
		"nombre_archivo_procesado": resultado.NombreArchivoProcesado,
		"archivo_procesado":        base64.StdEncoding.EncodeToString(resultado.ArchivoProcesado),
	})
}

func abrirArchivo(c *gin.Context) (multipart.File, string, bool) {
	header, err := c.FormFile("archivo")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Archivo no encontrado o inválido")
		return nil, "", false
	}
	archivo, err := header.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "No fue posible abrir el archivo")
		return nil, "", false
	}
	return archivo, header.Filename, true
}
