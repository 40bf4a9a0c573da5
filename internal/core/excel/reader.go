// internal/core/excel/reader.go
package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AvantikaTIC/depuracionContable/internal/core/dataset"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ReadFile carga un archivo tabular según su extensión. Los exportes de la
// DIAN y del DMS llegan normalmente como .xlsx; se aceptan también .xls
// heredados y .csv separados por punto y coma en ISO8859-1.
func ReadFile(r io.Reader, nombreArchivo string) (*dataset.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(nombreArchivo))
	switch ext {
	case ".xlsx":
		return readXLSX(r)
	case ".xls":
		return readXLS(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, fmt.Errorf("formato de archivo no soportado: %s", ext)
	}
}

func readXLSX(r io.Reader) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return nil, fmt.Errorf("el archivo no contiene hojas")
	}
	filas, err := f.GetRows(hojas[0])
	if err != nil {
		return nil, err
	}
	return fromStringRows(filas)
}

func readXLS(r io.Reader) (*dataset.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		// Algunos sistemas exportan .xlsx con extensión .xls.
		if ds, errX := readXLSX(bytes.NewReader(data)); errX == nil {
			return ds, nil
		}
		return nil, err
	}

	hojas := workbook.GetSheets()
	if len(hojas) == 0 {
		return nil, fmt.Errorf("el archivo no contiene hojas")
	}
	var filas [][]string
	for _, row := range hojas[0].GetRows() {
		var fila []string
		for _, cell := range row.GetCols() {
			fila = append(fila, cell.GetString())
		}
		filas = append(filas, fila)
	}
	return fromStringRows(filas)
}

func readCSV(r io.Reader) (*dataset.Dataset, error) {
	decoder := charmap.ISO8859_1.NewDecoder()
	reader := csv.NewReader(transform.NewReader(r, decoder))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	filas, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromStringRows(filas)
}

// fromStringRows arma el dataset tomando la primera fila como encabezado.
// Las celdas numéricas se tipan como float64; las vacías quedan nulas.
func fromStringRows(filas [][]string) (*dataset.Dataset, error) {
	if len(filas) == 0 {
		return nil, fmt.Errorf("el archivo está vacío")
	}

	var columnas []string
	for _, c := range filas[0] {
		columnas = append(columnas, strings.TrimSpace(c))
	}

	var registros []dataset.Row
	for _, fila := range filas[1:] {
		reg := make(dataset.Row, len(columnas))
		vacia := true
		for i, col := range columnas {
			var valor any
			if i < len(fila) {
				valor = parseCelda(fila[i])
			}
			if valor != nil {
				vacia = false
			}
			reg[col] = valor
		}
		if vacia {
			continue
		}
		registros = append(registros, reg)
	}

	return dataset.New(columnas, registros), nil
}

func parseCelda(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// ParseFloat acepta los literales "NaN" e "Inf"; una celda con ese
	// texto sigue siendo texto.
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}
