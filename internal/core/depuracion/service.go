// internal/core/depuracion/service.go
package depuracion

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/AvantikaTIC/depuracionContable/internal/core/dataset"
	"github.com/AvantikaTIC/depuracionContable/internal/core/excel"
	"github.com/AvantikaTIC/depuracionContable/internal/domain"
	"github.com/AvantikaTIC/depuracionContable/internal/storage/snapshots"
)

// Service aplica las reglas de depuración a los exportes DIAN y DMS,
// persiste el snapshot resultante y devuelve el archivo procesado.
type Service interface {
	ProcesarArchivoDian(ctx context.Context, archivo io.Reader, nombreArchivo string) (*domain.ResultadoProceso, error)
	ProcesarArchivoDms(ctx context.Context, archivo io.Reader, nombreArchivo string) (*domain.ResultadoProceso, error)
}

type service struct {
	store snapshots.Store
	ahora func() time.Time
}

// NewService crea el servicio de depuración sobre el store de snapshots.
func NewService(store snapshots.Store) Service {
	return &service{store: store, ahora: time.Now}
}

// ProcesarArchivoDian procesa el exporte de facturación electrónica de la
// DIAN: valida el esquema, filtra por tipo de documento y NIT emisor,
// deriva Tipo-Folio, Subtotal y Saldo2, y guarda el snapshot activo.
func (s *service) ProcesarArchivoDian(ctx context.Context, archivo io.Reader, nombreArchivo string) (*domain.ResultadoProceso, error) {
	resultado, err := s.procesarDian(ctx, archivo, nombreArchivo)
	if err != nil {
		return nil, domain.AsBusiness(err, "Error al procesar archivo Excel")
	}
	return resultado, nil
}

// ProcesarArchivoDms procesa el exporte contable del DMS: valida el
// esquema y deriva tipo_doc_desc_tipo y Saldo2 sin filtrar filas.
func (s *service) ProcesarArchivoDms(ctx context.Context, archivo io.Reader, nombreArchivo string) (*domain.ResultadoProceso, error) {
	resultado, err := s.procesarDms(ctx, archivo, nombreArchivo)
	if err != nil {
		return nil, domain.AsBusiness(err, "Error al procesar archivo DMS")
	}
	return resultado, nil
}

func (s *service) procesarDian(ctx context.Context, archivo io.Reader, nombreArchivo string) (*domain.ResultadoProceso, error) {
	ds, err := excel.ReadFile(archivo, nombreArchivo)
	if err != nil {
		return nil, fmt.Errorf("falla al leer el archivo: %w", err)
	}
	totalOriginales := ds.Len()

	if err := ds.ValidateColumns(columnasRequeridasDian); err != nil {
		return nil, err
	}

	filtrado := ds.Filter(func(f dataset.Row) bool {
		return tiposDocumentoValidos[dataset.String(f["Tipo de documento"])]
	})
	if filtrado.Len() == 0 {
		return nil, &domain.EmptyResultError{Mensaje: "No se encontraron registros con los tipos de documento válidos"}
	}

	filtrado = filtrado.Filter(func(f dataset.Row) bool {
		nit, ok := dataset.Float(f["NIT Emisor"])
		return ok && nit == nitEmisorAvantika
	})
	if filtrado.Len() == 0 {
		return nil, &domain.EmptyResultError{Mensaje: fmt.Sprintf("No se encontraron registros con el NIT Emisor %d", nitEmisorAvantika)}
	}

	filtrado, err = filtrado.WithDerived(columnaTipoFolio, func(f dataset.Row) (any, error) {
		return calcularTipoFolio(dataset.String(f["Prefijo"]), dataset.String(f["Folio"])), nil
	})
	if err != nil {
		return nil, err
	}

	filtrado, err = filtrado.WithDerived(columnaSubtotal, func(f dataset.Row) (any, error) {
		return numeroCelda(f["Total"]) - numeroCelda(f["IVA"]), nil
	})
	if err != nil {
		return nil, err
	}

	filtrado, err = filtrado.WithDerived(columnaSaldo2, func(f dataset.Row) (any, error) {
		return calcularSaldoDian(dataset.String(f["Prefijo"]), numeroCelda(f[columnaSubtotal])), nil
	})
	if err != nil {
		return nil, err
	}

	return s.finalizar(ctx, domain.CategoriaDian, filtrado, nombreArchivo, totalOriginales)
}

func (s *service) procesarDms(ctx context.Context, archivo io.Reader, nombreArchivo string) (*domain.ResultadoProceso, error) {
	ds, err := excel.ReadFile(archivo, nombreArchivo)
	if err != nil {
		return nil, fmt.Errorf("falla al leer el archivo: %w", err)
	}

	if err := ds.ValidateColumns(columnasRequeridasDms); err != nil {
		return nil, err
	}

	ds, err = ds.WithDerived(columnaTipoDocDesc, func(f dataset.Row) (any, error) {
		return dataset.String(f[columnaTipoDocto]) + " " + dataset.String(f[columnaNumeroDocto]), nil
	})
	if err != nil {
		return nil, err
	}

	ds, err = ds.WithDerived(columnaSaldo2, func(f dataset.Row) (any, error) {
		return calcularSaldoDms(dataset.String(f[columnaTipoDocto]), numeroCelda(f[columnaSaldoPeriodo])), nil
	})
	if err != nil {
		return nil, err
	}

	return s.finalizar(ctx, domain.CategoriaDms, ds, nombreArchivo, ds.Len())
}

// finalizar genera el Excel de salida, arma el payload y lo guarda como
// snapshot activo (desactivando el anterior en la misma transacción).
func (s *service) finalizar(ctx context.Context, categoria domain.Categoria, ds *dataset.Dataset, nombreArchivo string, totalOriginales int) (*domain.ResultadoProceso, error) {
	salida, err := excel.Render(ds, "Datos Procesados")
	if err != nil {
		return nil, err
	}

	payload := domain.SnapshotPayload{
		TotalRegistrosOriginales: totalOriginales,
		TotalRegistrosFiltrados:  ds.Len(),
		NombreArchivoOriginal:    nombreArchivo,
		FechaProcesamiento:       s.ahora().Format(time.RFC3339),
		Registros:                ds.Records(),
	}
	if _, err := s.store.Save(ctx, categoria, payload); err != nil {
		return nil, err
	}

	return &domain.ResultadoProceso{
		Categoria:                categoria,
		TotalRegistrosOriginales: totalOriginales,
		TotalRegistrosFiltrados:  ds.Len(),
		NombreArchivoOriginal:    nombreArchivo,
		NombreArchivoProcesado:   nombreProcesado(nombreArchivo),
		ArchivoProcesado:         salida,
	}, nil
}

// nombreProcesado deriva el nombre del archivo de salida:
// "reporte.xlsx" -> "reporte_procesado.xlsx".
func nombreProcesado(nombreArchivo string) string {
	base := nombreArchivo
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base + "_procesado.xlsx"
}

// numeroCelda coerciona una celda a float64 propagando NaN para celdas
// nulas o no numéricas, como lo hacían las fórmulas de la hoja original.
func numeroCelda(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	f, ok := dataset.Float(v)
	if !ok {
		return math.NaN()
	}
	return f
}
