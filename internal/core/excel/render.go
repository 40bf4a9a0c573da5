// internal/core/excel/render.go
package excel

import (
	"math"

	"github.com/AvantikaTIC/depuracionContable/internal/core/dataset"
	"github.com/AvantikaTIC/depuracionContable/internal/domain"
	"github.com/xuri/excelize/v2"
)

const anchoMaximoColumna = 50

// Render serializa un dataset a un .xlsx con el formato institucional:
// encabezado verde 00B050, Calibri 11 en negrita blanca, centrado, con
// bordes finos, y anchos de columna ajustados al contenido con tope de 50.
// El resultado es determinista para un mismo dataset.
func Render(d *dataset.Dataset, hoja string) ([]byte, error) {
	datos, err := render(d, hoja)
	if err != nil {
		return nil, &domain.RenderError{Etiqueta: hoja, Err: err}
	}
	return datos, nil
}

func render(d *dataset.Dataset, hoja string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hoja); err != nil {
		return nil, err
	}

	columnas := d.Columnas()
	encabezado := make([]any, len(columnas))
	for i, c := range columnas {
		encabezado[i] = c
	}
	if err := f.SetSheetRow(hoja, "A1", &encabezado); err != nil {
		return nil, err
	}

	for i, fila := range d.Filas() {
		celdas := make([]any, len(columnas))
		for j, c := range columnas {
			celdas[j] = valorCelda(fila[c])
		}
		inicio, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(hoja, inicio, &celdas); err != nil {
			return nil, err
		}
	}

	if err := estilizarEncabezado(f, hoja, len(columnas)); err != nil {
		return nil, err
	}
	if err := ajustarAnchos(f, d, hoja, columnas); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func estilizarEncabezado(f *excelize.File, hoja string, numColumnas int) error {
	estilo, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00B050"}},
		Font: &excelize.Font{Family: "Calibri", Size: 11, Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	fin, err := excelize.CoordinatesToCellName(numColumnas, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(hoja, "A1", fin, estilo)
}

func ajustarAnchos(f *excelize.File, d *dataset.Dataset, hoja string, columnas []string) error {
	for i, col := range columnas {
		maxLargo := len([]rune(col))
		for _, fila := range d.Filas() {
			if l := len([]rune(dataset.String(fila[col]))); l > maxLargo {
				maxLargo = l
			}
		}
		ancho := float64(maxLargo + 2)
		if ancho > anchoMaximoColumna {
			ancho = anchoMaximoColumna
		}
		letra, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(hoja, letra, letra, ancho); err != nil {
			return err
		}
	}
	return nil
}

func valorCelda(v any) any {
	// Los nulos y los flotantes no representables se escriben como celda
	// vacía, igual que en el payload persistido.
	if v == nil {
		return nil
	}
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}
