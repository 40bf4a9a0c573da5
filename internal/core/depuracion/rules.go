// internal/core/depuracion/rules.go
package depuracion

// nitEmisorAvantika es el único emisor cuyas declaraciones procesa este
// sistema.
const nitEmisorAvantika = 890101977

// Columnas derivadas que agregan las reglas de depuración.
const (
	columnaTipoFolio    = "Tipo-Folio"
	columnaSubtotal     = "Subtotal"
	columnaSaldo2       = "Saldo2"
	columnaTipoDocDesc  = "tipo_doc_desc_tipo"
	columnaTipoDocto    = "Tipo Docto."
	columnaNumeroDocto  = "Número Docto."
	columnaSaldoPeriodo = "Saldo Periodo"
)

// columnasRequeridasDian es el esquema exacto del exporte de facturación
// electrónica de la DIAN. Cualquier cambio del exporte se refleja aquí.
var columnasRequeridasDian = []string{
	"Tipo de documento", "CUFE/CUDE", "Folio", "Prefijo", "Divisa",
	"Forma de Pago", "Medio de Pago", "Fecha Emisión", "Fecha Recepción",
	"NIT Emisor", "Nombre Emisor", "NIT Receptor", "Nombre Receptor",
	"IVA", "ICA", "IC", "INC", "Timbre", "INC Bolsas", "IN Carbono",
	"IN Combustibles", "IC Datos", "ICL", "INPP", "IBUA", "ICUI",
	"Rete IVA", "Rete Renta", "Rete ICA", "Total", "Estado", "Grupo",
}

// columnasRequeridasDms es el esquema exacto del exporte contable del DMS.
var columnasRequeridasDms = []string{
	"Cuenta Nivel 10", "Descripción Cuenta", "Tipo Docto.", "Descripción Tipo",
	"Número Docto.", "Mes Docto.", "Fecha Docto.", "Tercero", "Nombre Tercero",
	"Centro de Costo", "Descripción Centro", "Débito", "Crédito", "Saldo Periodo",
	"Base", "Débito Niif", "Crédito Niif", "Saldo Periodo Niif", "Explicación",
}

// tiposDocumentoValidos son los únicos tipos de documento DIAN que entran
// a la conciliación.
var tiposDocumentoValidos = map[string]bool{
	"Factura electrónica":                 true,
	"Factura electrónica de contingencia": true,
	"Nota de crédito electrónica":         true,
}

// calcularTipoFolio arma el identificador compuesto del documento DIAN.
// Fórmula de hoja: SI(Prefijo="CRD","FC",SI(Prefijo="DV","DV",0)) & " " & Folio.
func calcularTipoFolio(prefijo, folio string) string {
	switch prefijo {
	case "CRD":
		return "FC " + folio
	case "DV":
		return "DV " + folio
	default:
		return "0 " + folio
	}
}

// calcularSaldoDian aplica el signo contable al subtotal DIAN: el prefijo
// de crédito conserva el signo natural, DV lo invierte y cualquier otro
// prefijo vale cero.
func calcularSaldoDian(prefijo string, subtotal float64) float64 {
	switch prefijo {
	case "CRD":
		return subtotal
	case "DV":
		return -subtotal
	default:
		return 0
	}
}

// calcularSaldoDms aplica el signo contable al saldo del periodo DMS.
// A diferencia de la regla DIAN, FC y DV invierten el signo por igual:
// es una regla del dominio, no un error de copia.
func calcularSaldoDms(tipoDocto string, saldoPeriodo float64) float64 {
	switch tipoDocto {
	case "FC", "DV":
		return -saldoPeriodo
	default:
		return 0
	}
}
