// internal/core/reporte/service.go
package reporte

import (
	"context"
	"math"
	"sort"

	"github.com/AvantikaTIC/depuracionContable/internal/config"
	"github.com/AvantikaTIC/depuracionContable/internal/core/dataset"
	"github.com/AvantikaTIC/depuracionContable/internal/core/excel"
	"github.com/AvantikaTIC/depuracionContable/internal/core/notify"
	"github.com/AvantikaTIC/depuracionContable/internal/domain"
	"github.com/AvantikaTIC/depuracionContable/internal/storage/snapshots"
)

// toleranciaConciliacion absorbe el ruido de punto flotante al comparar
// los totales DIAN y DMS.
const toleranciaConciliacion = 0.01

const asuntoReporte = "Resumen de Facturación Electrónica - DIAN y DMS"

// mapeoTiposDms traduce el código de documento del DMS a la etiqueta DIAN
// equivalente; los códigos sin mapeo conservan su valor crudo.
var mapeoTiposDms = map[string]string{
	"FC": "Factura electrónica",
	"DV": "Nota de crédito electrónica",
}

// Service arma y envía el resumen de conciliación de facturación
// electrónica a partir de los últimos snapshots activos de cada categoría.
type Service interface {
	EnviarReporte(ctx context.Context) (*domain.ResultadoReporte, error)
}

type service struct {
	store  snapshots.Store
	mailer notify.Mailer
	cfg    config.ReporteConfig
}

// NewService crea el servicio de reporte.
func NewService(store snapshots.Store, mailer notify.Mailer, cfg config.ReporteConfig) Service {
	return &service{store: store, mailer: mailer, cfg: cfg}
}

// EnviarReporte consulta los últimos datos procesados de DIAN y DMS,
// genera las tablas HTML agrupadas por tipo de documento, evalúa la
// discrepancia entre totales y entrega el correo; con discrepancia van
// adjuntos los datos completos de cada categoría.
func (s *service) EnviarReporte(ctx context.Context) (*domain.ResultadoReporte, error) {
	resultado, err := s.enviar(ctx)
	if err != nil {
		return nil, domain.AsBusiness(err, "Error al enviar correo")
	}
	return resultado, nil
}

func (s *service) enviar(ctx context.Context) (*domain.ResultadoReporte, error) {
	snapDian, tieneDian, err := s.store.GetLatestActive(ctx, domain.CategoriaDian)
	if err != nil {
		return nil, err
	}
	snapDms, tieneDms, err := s.store.GetLatestActive(ctx, domain.CategoriaDms)
	if err != nil {
		return nil, err
	}
	if !tieneDian && !tieneDms {
		return nil, &domain.NoDataError{}
	}

	var (
		dsDian, dsDms           *dataset.Dataset
		seccionDian, seccionDms *seccion
	)
	if tieneDian {
		dsDian = datasetDesdeRegistros(snapDian.Datos.Registros)
		seccionDian = agruparDian(dsDian)
	}
	if tieneDms {
		dsDms, err = prepararDms(snapDms.Datos.Registros)
		if err != nil {
			return nil, err
		}
		seccionDms = agruparDms(dsDms)
	}

	html := generarHTML(seccionDian, seccionDms)

	var totalDian, totalDms float64
	if seccionDian != nil {
		totalDian = seccionDian.totalValor
	}
	if seccionDms != nil {
		totalDms = seccionDms.totalValor
	}

	// La discrepancia solo se evalúa cuando ambas fuentes reportan valor.
	diferentes := totalDian != 0 && totalDms != 0 &&
		math.Abs(totalDian-totalDms) > toleranciaConciliacion

	var adjuntos []notify.Adjunto
	if diferentes {
		if dsDian != nil {
			contenido, err := excel.Render(dsDian, "Datos DIAN")
			if err != nil {
				return nil, err
			}
			adjuntos = append(adjuntos, notify.Adjunto{Nombre: "Datos_DIAN.xlsx", Contenido: contenido})
		}
		if dsDms != nil {
			contenido, err := excel.Render(dsDms, "Datos DMS")
			if err != nil {
				return nil, err
			}
			adjuntos = append(adjuntos, notify.Adjunto{Nombre: "Datos_DMS.xlsx", Contenido: contenido})
		}
	}

	asunto := asuntoReporte
	if diferentes {
		asunto += " ⚠️ DIFERENCIA DETECTADA"
	}

	if err := s.mailer.Enviar(ctx, notify.Mensaje{
		Para:       s.cfg.Destinatarios,
		Copia:      s.cfg.Copia,
		Asunto:     asunto,
		CuerpoHTML: html,
		Adjuntos:   adjuntos,
	}); err != nil {
		return nil, err
	}

	return &domain.ResultadoReporte{
		Destinatarios:     s.cfg.Destinatarios,
		Copia:             s.cfg.Copia,
		TieneDatosDian:    tieneDian,
		TieneDatosDms:     tieneDms,
		TotalesDiferentes: diferentes,
		TotalDian:         totalDian,
		TotalDms:          totalDms,
		ArchivosAdjuntos:  len(adjuntos),
	}, nil
}

// datasetDesdeRegistros reconstruye un dataset desde el payload de un
// snapshot. El orden de filas se preserva; las columnas se ordenan
// alfabéticamente porque el JSON no conserva el orden original.
func datasetDesdeRegistros(registros []map[string]any) *dataset.Dataset {
	claves := make(map[string]bool)
	for _, r := range registros {
		for k := range r {
			claves[k] = true
		}
	}
	columnas := make([]string, 0, len(claves))
	for k := range claves {
		columnas = append(columnas, k)
	}
	sort.Strings(columnas)

	filas := make([]dataset.Row, len(registros))
	for i, r := range registros {
		filas[i] = dataset.Row(r)
	}
	return dataset.New(columnas, filas)
}

// prepararDms reconstruye el dataset DMS y agrega la columna
// "Tipo de documento" mapeando el código crudo a su etiqueta.
func prepararDms(registros []map[string]any) (*dataset.Dataset, error) {
	ds := datasetDesdeRegistros(registros)
	return ds.WithDerived("Tipo de documento", func(f dataset.Row) (any, error) {
		codigo := dataset.String(f["Tipo Docto."])
		if etiqueta, ok := mapeoTiposDms[codigo]; ok {
			return etiqueta, nil
		}
		return codigo, nil
	})
}

// seccion es una tabla del resumen: grupos ordenados y totales generales.
type seccion struct {
	titulo         string
	grupos         []domain.GrupoReporte
	totalValor     float64
	totalRegistros int
}

// agruparDian agrupa por tipo de documento contando todas las filas.
func agruparDian(ds *dataset.Dataset) *seccion {
	return armarSeccion("DIAN FACTURACION ELECTRONICA", ds.GroupBy("Tipo de documento", "Saldo2"))
}

// agruparDms agrupa por tipo de documento contando documentos distintos
// (tipo_doc_desc_tipo), deduplicando las líneas contables de un mismo
// documento. Esta asimetría frente a DIAN es intencional.
func agruparDms(ds *dataset.Dataset) *seccion {
	return armarSeccion("FACTURACION ELECTRONICA DMS CONTABLE",
		ds.GroupByDistinct("Tipo de documento", "Saldo2", "tipo_doc_desc_tipo"))
}

func armarSeccion(titulo string, grupos map[string]dataset.Grupo) *seccion {
	tipos := make([]string, 0, len(grupos))
	for tipo := range grupos {
		tipos = append(tipos, tipo)
	}
	sort.Strings(tipos)

	sec := &seccion{titulo: titulo}
	for _, tipo := range tipos {
		g := grupos[tipo]
		sec.grupos = append(sec.grupos, domain.GrupoReporte{
			TipoDocumento: tipo,
			Registros:     g.Registros,
			Valor:         g.Valor,
		})
		sec.totalValor += g.Valor
		sec.totalRegistros += g.Registros
	}
	return sec
}
