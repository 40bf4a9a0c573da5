// internal/domain/models.go
package domain

import "time"

// Categoria identifica la fuente de los datos depurados.
// Los valores numéricos coinciden con la columna `categoria` de la tabla
// contabilidad_datos_depuracion (1=DIAN, 2=DMS).
type Categoria int

const (
	CategoriaDian Categoria = 1
	CategoriaDms  Categoria = 2
)

func (c Categoria) String() string {
	switch c {
	case CategoriaDian:
		return "DIAN"
	case CategoriaDms:
		return "DMS"
	}
	return "DESCONOCIDA"
}

// SnapshotPayload es el cuerpo JSON persistido por cada corrida de
// depuración. Para DMS no hay filtrado, así que ambos totales coinciden.
type SnapshotPayload struct {
	TotalRegistrosOriginales int              `json:"total_registros_originales"`
	TotalRegistrosFiltrados  int              `json:"total_registros_filtrados"`
	NombreArchivoOriginal    string           `json:"nombre_archivo_original"`
	FechaProcesamiento       string           `json:"fecha_procesamiento"`
	Registros                []map[string]any `json:"registros"`
}

// Snapshot es una corrida persistida. A lo sumo un snapshot por categoría
// puede estar activo; los anteriores quedan como histórico consultable.
type Snapshot struct {
	ID        int64
	Categoria Categoria
	Datos     SnapshotPayload
	Activo    bool
	CreadoEn  time.Time
}

// ResultadoProceso es la respuesta de procesar un archivo DIAN o DMS.
type ResultadoProceso struct {
	Categoria                Categoria `json:"-"`
	TotalRegistrosOriginales int       `json:"total_registros_originales"`
	TotalRegistrosFiltrados  int       `json:"total_registros_filtrados"`
	NombreArchivoOriginal    string    `json:"nombre_archivo_original"`
	NombreArchivoProcesado   string    `json:"nombre_archivo_procesado"`
	ArchivoProcesado         []byte    `json:"-"`
}

// GrupoReporte es una fila de las tablas del resumen: un tipo de documento
// con su número de registros y la suma de Saldo2.
type GrupoReporte struct {
	TipoDocumento string
	Registros     int
	Valor         float64
}

// ResultadoReporte resume el envío del correo de conciliación.
type ResultadoReporte struct {
	Destinatarios     []string `json:"destinatarios"`
	Copia             []string `json:"copia"`
	TieneDatosDian    bool     `json:"tiene_datos_dian"`
	TieneDatosDms     bool     `json:"tiene_datos_dms"`
	TotalesDiferentes bool     `json:"totales_diferentes"`
	TotalDian         float64  `json:"total_dian"`
	TotalDms          float64  `json:"total_dms"`
	ArchivosAdjuntos  int      `json:"archivos_adjuntos"`
}
