package excel

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/AvantikaTIC/depuracionContable/internal/core/dataset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Un dataset serializado con Render debe leerse de vuelta con las mismas
// filas, columnas y valores.
func TestRenderReadFileIdaYVuelta(t *testing.T) {
	original := dataset.New(
		[]string{"Tipo-Folio", "Subtotal", "Saldo2", "Nota"},
		[]dataset.Row{
			{"Tipo-Folio": "FC 55", "Subtotal": 100.5, "Saldo2": 100.5, "Nota": "aprobado"},
			{"Tipo-Folio": "DV 77", "Subtotal": 200.0, "Saldo2": -200.0, "Nota": nil},
		},
	)

	datos, err := Render(original, "Datos Procesados")
	if err != nil {
		t.Fatalf("no esperaba error al renderizar: %v", err)
	}
	if len(datos) == 0 {
		t.Fatalf("render vacío")
	}

	leido, err := ReadFile(bytes.NewReader(datos), "procesado.xlsx")
	if err != nil {
		t.Fatalf("no esperaba error al leer: %v", err)
	}

	if leido.Len() != original.Len() {
		t.Fatalf("filas = %d, esperaba %d", leido.Len(), original.Len())
	}
	cols := leido.Columnas()
	esperadas := original.Columnas()
	if len(cols) != len(esperadas) {
		t.Fatalf("columnas = %v, esperaba %v", cols, esperadas)
	}
	for i := range cols {
		if cols[i] != esperadas[i] {
			t.Errorf("columna %d = %q, esperaba %q", i, cols[i], esperadas[i])
		}
	}

	primera := leido.Filas()[0]
	if primera["Tipo-Folio"] != "FC 55" {
		t.Errorf("Tipo-Folio = %v", primera["Tipo-Folio"])
	}
	if primera["Subtotal"] != 100.5 {
		t.Errorf("Subtotal = %v, esperaba 100.5 numérico", primera["Subtotal"])
	}
	segunda := leido.Filas()[1]
	if segunda["Saldo2"] != -200.0 {
		t.Errorf("Saldo2 = %v, esperaba -200", segunda["Saldo2"])
	}
	// La celda vacía vuelve como nulo, no como cadena vacía.
	if segunda["Nota"] != nil {
		t.Errorf("Nota = %v, esperaba nil", segunda["Nota"])
	}
}

// Los flotantes no representables (una celda de origen vacía que se
// propagó por una derivación) salen como celdas vacías en el archivo
// generado, igual que en el payload persistido.
func TestRenderNormalizaFlotantesNoRepresentables(t *testing.T) {
	ds := dataset.New(
		[]string{"Tipo-Folio", "Subtotal", "Saldo2"},
		[]dataset.Row{
			{"Tipo-Folio": "FC 55", "Subtotal": math.NaN(), "Saldo2": math.Inf(1)},
		},
	)

	datos, err := Render(ds, "Datos Procesados")
	if err != nil {
		t.Fatalf("no esperaba error al renderizar: %v", err)
	}
	leido, err := ReadFile(bytes.NewReader(datos), "procesado.xlsx")
	if err != nil {
		t.Fatalf("no esperaba error al leer: %v", err)
	}
	if leido.Len() != 1 {
		t.Fatalf("filas = %d, esperaba 1", leido.Len())
	}

	fila := leido.Filas()[0]
	if fila["Subtotal"] != nil {
		t.Errorf("Subtotal = %v, esperaba celda vacía (nil)", fila["Subtotal"])
	}
	if fila["Saldo2"] != nil {
		t.Errorf("Saldo2 = %v, esperaba celda vacía (nil)", fila["Saldo2"])
	}
	if fila["Tipo-Folio"] != "FC 55" {
		t.Errorf("Tipo-Folio = %v, las demás celdas no deben alterarse", fila["Tipo-Folio"])
	}
}

// ParseFloat acepta "NaN" e "Inf" como números; una celda con ese texto
// debe conservarse como texto para no contaminar el payload JSON.
func TestReadFileLiteralesNaNInf(t *testing.T) {
	contenido := "Detalle;Nota\nNaN;Inf\n"

	ds, err := ReadFile(strings.NewReader(contenido), "exporte.csv")
	if err != nil {
		t.Fatalf("no esperaba error: %v", err)
	}
	if ds.Len() != 1 {
		t.Fatalf("filas = %d, esperaba 1", ds.Len())
	}

	fila := ds.Filas()[0]
	if fila["Detalle"] != "NaN" {
		t.Errorf("Detalle = %v (%T), esperaba la cadena NaN", fila["Detalle"], fila["Detalle"])
	}
	if fila["Nota"] != "Inf" {
		t.Errorf("Nota = %v (%T), esperaba la cadena Inf", fila["Nota"], fila["Nota"])
	}
}

// Los CSV heredados llegan en ISO8859-1 separados por punto y coma.
func TestReadFileCSV(t *testing.T) {
	contenido := "Año;Valor;Detalle\nÑandú;100.5;texto\n;;\n"
	codificado, _, err := transform.String(charmap.ISO8859_1.NewEncoder(), contenido)
	if err != nil {
		t.Fatalf("no pude codificar el contenido de prueba: %v", err)
	}

	ds, err := ReadFile(strings.NewReader(codificado), "exporte.csv")
	if err != nil {
		t.Fatalf("no esperaba error: %v", err)
	}

	cols := ds.Columnas()
	if len(cols) != 3 || cols[0] != "Año" {
		t.Fatalf("columnas = %v", cols)
	}
	// La fila completamente vacía se descarta.
	if ds.Len() != 1 {
		t.Fatalf("filas = %d, esperaba 1", ds.Len())
	}
	fila := ds.Filas()[0]
	if fila["Año"] != "Ñandú" {
		t.Errorf("Año = %v, la decodificación ISO8859-1 falló", fila["Año"])
	}
	if fila["Valor"] != 100.5 {
		t.Errorf("Valor = %v, esperaba 100.5 numérico", fila["Valor"])
	}
}

func TestReadFileFormatoNoSoportado(t *testing.T) {
	_, err := ReadFile(strings.NewReader("datos"), "exporte.txt")
	if err == nil {
		t.Fatalf("esperaba error por extensión no soportada")
	}
	if !strings.Contains(err.Error(), ".txt") {
		t.Errorf("el error debe nombrar la extensión: %v", err)
	}
}
