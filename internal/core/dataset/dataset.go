// internal/core/dataset/dataset.go
package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/AvantikaTIC/depuracionContable/internal/domain"
)

// Row es una fila: columna -> valor escalar (float64, string, nil).
type Row map[string]any

// Dataset es una tabla en memoria con orden de filas preservado. Las
// operaciones devuelven datasets nuevos; las filas no se mutan.
type Dataset struct {
	columnas []string
	filas    []Row
}

func New(columnas []string, filas []Row) *Dataset {
	return &Dataset{columnas: columnas, filas: filas}
}

func (d *Dataset) Len() int { return len(d.filas) }

func (d *Dataset) Columnas() []string {
	out := make([]string, len(d.columnas))
	copy(out, d.columnas)
	return out
}

// Filas expone las filas en orden. Los mapas devueltos no deben mutarse.
func (d *Dataset) Filas() []Row { return d.filas }

// ValidateColumns verifica que todas las columnas requeridas existan.
// Reporta todas las faltantes de una vez en un SchemaError.
func (d *Dataset) ValidateColumns(requeridas []string) error {
	presentes := make(map[string]bool, len(d.columnas))
	for _, c := range d.columnas {
		presentes[c] = true
	}
	var faltantes []string
	for _, c := range requeridas {
		if !presentes[c] {
			faltantes = append(faltantes, c)
		}
	}
	if len(faltantes) > 0 {
		return &domain.SchemaError{Faltantes: faltantes}
	}
	return nil
}

// Filter devuelve un dataset nuevo con las filas que cumplen el predicado.
// Un resultado vacío es un valor válido; el llamador decide si es error.
func (d *Dataset) Filter(pred func(Row) bool) *Dataset {
	var filas []Row
	for _, f := range d.filas {
		if pred(f) {
			filas = append(filas, f)
		}
	}
	return &Dataset{columnas: d.columnas, filas: filas}
}

// WithDerived aplica fn a cada fila y agrega el resultado como columna
// nueva. La función es total: cualquier falla aborta la operación completa
// con un DerivationError que identifica la fila.
func (d *Dataset) WithDerived(nombre string, fn func(Row) (any, error)) (*Dataset, error) {
	filas := make([]Row, len(d.filas))
	for i, f := range d.filas {
		valor, err := fn(f)
		if err != nil {
			return nil, &domain.DerivationError{Columna: nombre, Fila: i, Err: err}
		}
		copia := make(Row, len(f)+1)
		for k, v := range f {
			copia[k] = v
		}
		copia[nombre] = valor
		filas[i] = copia
	}
	columnas := d.columnas
	if !contiene(columnas, nombre) {
		columnas = append(d.Columnas(), nombre)
	}
	return &Dataset{columnas: columnas, filas: filas}, nil
}

// Grupo es el agregado por clave: suma de la columna de valor y número de
// registros.
type Grupo struct {
	Valor     float64
	Registros int
}

// GroupBy agrupa por la columna clave y acumula {sum(valor), count}. Las
// filas con clave nula se descartan; valores nulos o NaN suman 0, igual
// que la fórmula histórica de la hoja de cálculo.
func (d *Dataset) GroupBy(clave, valor string) map[string]Grupo {
	grupos := make(map[string]Grupo)
	for _, f := range d.filas {
		k, ok := claveGrupo(f[clave])
		if !ok {
			continue
		}
		g := grupos[k]
		g.Registros++
		g.Valor += sumable(f[valor])
		grupos[k] = g
	}
	return grupos
}

// GroupByDistinct agrupa como GroupBy pero Registros cuenta valores
// distintos de la columna `distinta` dentro de cada grupo, deduplicando
// documentos de varias líneas.
func (d *Dataset) GroupByDistinct(clave, valor, distinta string) map[string]Grupo {
	grupos := make(map[string]Grupo)
	vistos := make(map[string]map[string]bool)
	for _, f := range d.filas {
		k, ok := claveGrupo(f[clave])
		if !ok {
			continue
		}
		g := grupos[k]
		g.Valor += sumable(f[valor])
		if vistos[k] == nil {
			vistos[k] = make(map[string]bool)
		}
		id := String(f[distinta])
		if !vistos[k][id] {
			vistos[k][id] = true
			g.Registros++
		}
		grupos[k] = g
	}
	return grupos
}

// Records devuelve las filas en orden como mapas serializables: NaN y
// valores ausentes quedan normalizados a nil explícito.
func (d *Dataset) Records() []map[string]any {
	out := make([]map[string]any, len(d.filas))
	for i, f := range d.filas {
		reg := make(map[string]any, len(d.columnas))
		for _, c := range d.columnas {
			v := f[c]
			if fv, ok := v.(float64); ok && math.IsNaN(fv) {
				v = nil
			}
			reg[c] = v
		}
		out[i] = reg
	}
	return out
}

// Float coerciona un valor de celda a float64. Acepta números y cadenas
// numéricas; NaN y valores no numéricos reportan ok=false.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String coerciona un valor de celda a su representación textual. Los
// números enteros no arrastran decimales (12345.0 -> "12345").
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func claveGrupo(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return "", false
	}
	return String(v), true
}

func sumable(v any) float64 {
	f, ok := Float(v)
	if !ok {
		return 0
	}
	return f
}

func contiene(cols []string, nombre string) bool {
	for _, c := range cols {
		if c == nombre {
			return true
		}
	}
	return false
}
