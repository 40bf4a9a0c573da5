package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/AvantikaTIC/depuracionContable/internal/domain"
)

func TestValidateColumns(t *testing.T) {
	ds := New([]string{"A", "B"}, nil)

	t.Run("completas", func(t *testing.T) {
		if err := ds.ValidateColumns([]string{"A", "B"}); err != nil {
			t.Fatalf("no esperaba error: %v", err)
		}
	})

	// Debe reportar todas las columnas faltantes, no solo la primera.
	t.Run("reporta todas las faltantes", func(t *testing.T) {
		err := ds.ValidateColumns([]string{"A", "C", "D"})
		var se *domain.SchemaError
		if !errors.As(err, &se) {
			t.Fatalf("esperaba SchemaError, obtuve %v", err)
		}
		if len(se.Faltantes) != 2 || se.Faltantes[0] != "C" || se.Faltantes[1] != "D" {
			t.Errorf("faltantes = %v, esperaba [C D]", se.Faltantes)
		}
	})
}

func TestFilter(t *testing.T) {
	ds := New([]string{"n"}, []Row{{"n": 1.0}, {"n": 2.0}, {"n": 3.0}})

	pares := ds.Filter(func(f Row) bool {
		v, _ := Float(f["n"])
		return math.Mod(v, 2) == 0
	})
	if pares.Len() != 1 {
		t.Fatalf("Len = %d, esperaba 1", pares.Len())
	}
	if ds.Len() != 3 {
		t.Errorf("el dataset original no debe mutar")
	}

	// Un resultado vacío es un valor válido, no un error.
	vacio := ds.Filter(func(Row) bool { return false })
	if vacio.Len() != 0 {
		t.Errorf("Len = %d, esperaba 0", vacio.Len())
	}
}

func TestWithDerived(t *testing.T) {
	ds := New([]string{"base"}, []Row{{"base": 10.0}, {"base": 20.0}})

	t.Run("agrega la columna a todas las filas", func(t *testing.T) {
		doble, err := ds.WithDerived("doble", func(f Row) (any, error) {
			v, _ := Float(f["base"])
			return v * 2, nil
		})
		if err != nil {
			t.Fatalf("no esperaba error: %v", err)
		}
		cols := doble.Columnas()
		if cols[len(cols)-1] != "doble" {
			t.Errorf("columnas = %v, esperaba 'doble' al final", cols)
		}
		if v := doble.Filas()[1]["doble"]; v != 40.0 {
			t.Errorf("doble = %v, esperaba 40", v)
		}
		if _, ok := ds.Filas()[0]["doble"]; ok {
			t.Errorf("las filas originales no deben mutar")
		}
	})

	// La derivación es total: una falla en cualquier fila aborta la
	// operación completa e identifica la fila.
	t.Run("falla identifica la fila", func(t *testing.T) {
		falla := errors.New("valor inválido")
		_, err := ds.WithDerived("x", func(f Row) (any, error) {
			v, _ := Float(f["base"])
			if v == 20.0 {
				return nil, falla
			}
			return v, nil
		})
		var de *domain.DerivationError
		if !errors.As(err, &de) {
			t.Fatalf("esperaba DerivationError, obtuve %v", err)
		}
		if de.Fila != 1 {
			t.Errorf("Fila = %d, esperaba 1", de.Fila)
		}
		if !errors.Is(err, falla) {
			t.Errorf("debe envolver la causa")
		}
	})
}

func TestGroupBy(t *testing.T) {
	ds := New([]string{"tipo", "valor"}, []Row{
		{"tipo": "FC", "valor": 100.0},
		{"tipo": "FC", "valor": 50.0},
		{"tipo": "DV", "valor": math.NaN()},
		{"tipo": nil, "valor": 999.0},
	})

	grupos := ds.GroupBy("tipo", "valor")

	// La clave nula se descarta, como en la agrupación histórica.
	if len(grupos) != 2 {
		t.Fatalf("grupos = %d, esperaba 2", len(grupos))
	}
	if g := grupos["FC"]; g.Registros != 2 || g.Valor != 150.0 {
		t.Errorf("FC = %+v, esperaba {150 2}", g)
	}
	// NaN suma 0 pero la fila sí cuenta.
	if g := grupos["DV"]; g.Registros != 1 || g.Valor != 0.0 {
		t.Errorf("DV = %+v, esperaba {0 1}", g)
	}
}

func TestGroupByDistinct(t *testing.T) {
	// Dos líneas contables de un mismo documento cuentan como un registro.
	ds := New([]string{"tipo", "valor", "doc"}, []Row{
		{"tipo": "Factura electrónica", "valor": 30.0, "doc": "FC 001"},
		{"tipo": "Factura electrónica", "valor": 70.0, "doc": "FC 001"},
		{"tipo": "Factura electrónica", "valor": 10.0, "doc": "FC 002"},
	})

	grupos := ds.GroupByDistinct("tipo", "valor", "doc")
	g := grupos["Factura electrónica"]
	if g.Registros != 2 {
		t.Errorf("Registros = %d, esperaba 2 (documentos distintos)", g.Registros)
	}
	if g.Valor != 110.0 {
		t.Errorf("Valor = %v, esperaba 110 (todas las líneas suman)", g.Valor)
	}
}

func TestRecords(t *testing.T) {
	ds := New([]string{"a", "b"}, []Row{{"a": math.NaN(), "b": "x"}})

	regs := ds.Records()
	if len(regs) != 1 {
		t.Fatalf("registros = %d, esperaba 1", len(regs))
	}
	// NaN se normaliza a nulo explícito para la serialización JSON.
	if regs[0]["a"] != nil {
		t.Errorf("a = %v, esperaba nil", regs[0]["a"])
	}
	if regs[0]["b"] != "x" {
		t.Errorf("b = %v, esperaba x", regs[0]["b"])
	}
}

func TestCoerciones(t *testing.T) {
	if v, ok := Float("  890101977 "); !ok || v != 890101977 {
		t.Errorf("Float cadena numérica = %v %v", v, ok)
	}
	if _, ok := Float("abc"); ok {
		t.Errorf("Float no debe aceptar texto")
	}
	if _, ok := Float(math.NaN()); ok {
		t.Errorf("Float no debe aceptar NaN")
	}
	// ParseFloat acepta los literales "NaN" e "Inf"; aquí no son números.
	if _, ok := Float("NaN"); ok {
		t.Errorf("Float no debe aceptar la cadena NaN")
	}
	if _, ok := Float("Inf"); ok {
		t.Errorf("Float no debe aceptar la cadena Inf")
	}
	// Los folios leídos como número no arrastran decimales.
	if s := String(12345.0); s != "12345" {
		t.Errorf("String(12345.0) = %q", s)
	}
	if s := String(nil); s != "" {
		t.Errorf("String(nil) = %q", s)
	}
}
