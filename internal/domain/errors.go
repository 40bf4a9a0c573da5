// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// SchemaError indica columnas requeridas ausentes en el archivo. Reporta
// todas las faltantes de una sola vez, no la primera.
type SchemaError struct {
	Faltantes []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("el archivo no contiene las columnas requeridas: %s", strings.Join(e.Faltantes, ", "))
}

// EmptyResultError indica que un paso de filtrado dejó cero filas.
type EmptyResultError struct {
	Mensaje string
}

func (e *EmptyResultError) Error() string { return e.Mensaje }

// DerivationError indica que el cálculo de una columna derivada falló en
// una fila concreta. Fila es el índice base cero dentro del dataset.
type DerivationError struct {
	Columna string
	Fila    int
	Err     error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("error al calcular la columna %q en la fila %d: %v", e.Columna, e.Fila, e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }

// NoDataError indica que se pidió el reporte sin datos procesados en
// ninguna categoría.
type NoDataError struct{}

func (e *NoDataError) Error() string {
	return "no hay datos procesados disponibles para enviar"
}

// PersistenceError envuelve una falla del almacén de snapshots. Siempre va
// acompañada del rollback de cualquier estado parcial.
type PersistenceError struct {
	Operacion string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("error de persistencia en %s: %v", e.Operacion, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// RenderError envuelve una falla al serializar un dataset a Excel.
type RenderError struct {
	Etiqueta string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("error al generar Excel de %s: %v", e.Etiqueta, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// DeliveryError envuelve una falla del colaborador de entrega de correo.
// No se reintenta en este núcleo.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("error al enviar correo: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// BusinessError es el error uniforme que cruza el borde de cada operación
// pública: lleva un mensaje legible y nunca expone detalle interno.
type BusinessError struct {
	Mensaje string
	Err     error
}

func (e *BusinessError) Error() string { return e.Mensaje }

func (e *BusinessError) Unwrap() error { return e.Err }

// NewBusinessError construye el error de negocio uniforme.
func NewBusinessError(mensaje string, err error) *BusinessError {
	return &BusinessError{Mensaje: mensaje, Err: err}
}

// AsBusiness convierte cualquier error en el error de negocio uniforme.
// Los errores de dominio conservan su mensaje; los inesperados reciben el
// mensaje por defecto y cargan la causa para que el borde HTTP la registre
// sin exponerla al llamador.
func AsBusiness(err error, porDefecto string) *BusinessError {
	var be *BusinessError
	if errors.As(err, &be) {
		return be
	}
	if EsErrorDeDominio(err) {
		return &BusinessError{Mensaje: err.Error(), Err: err}
	}
	return &BusinessError{Mensaje: porDefecto, Err: err}
}

// EsErrorDeDominio reporta si err pertenece a la taxonomía de errores del
// dominio.
func EsErrorDeDominio(err error) bool {
	var (
		schema       *SchemaError
		vacio        *EmptyResultError
		derivacion   *DerivationError
		sinDatos     *NoDataError
		persistencia *PersistenceError
		render       *RenderError
		entrega      *DeliveryError
	)
	switch {
	case errors.As(err, &schema),
		errors.As(err, &vacio),
		errors.As(err, &derivacion),
		errors.As(err, &sinDatos),
		errors.As(err, &persistencia),
		errors.As(err, &render),
		errors.As(err, &entrega):
		return true
	}
	return false
}
