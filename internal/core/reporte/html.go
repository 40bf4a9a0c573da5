// internal/core/reporte/html.go
package reporte

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// impresora formatea valores monetarios con separador de miles y dos
// decimales, como las tablas históricas del resumen.
var impresora = message.NewPrinter(language.English)

func formatearValor(v float64) string {
	return impresora.Sprintf("%.2f", v)
}

const encabezadoHTML = `<html>
<head>
<style>
    body {
        font-family: Arial, sans-serif;
        padding: 20px;
    }
    h2 {
        color: #2c3e50;
        border-bottom: 3px solid #3498db;
        padding-bottom: 10px;
        margin-top: 30px;
    }
    table {
        width: 100%;
        border-collapse: collapse;
        margin: 20px 0;
        box-shadow: 0 2px 8px rgba(0,0,0,0.1);
    }
    th {
        background-color: #00B050;
        color: white;
        padding: 12px;
        text-align: left;
        font-weight: bold;
    }
    td {
        padding: 10px;
        border-bottom: 1px solid #ddd;
    }
    tr:nth-child(even) {
        background-color: #f8f9fa;
    }
    tr:hover {
        background-color: #e3f2fd;
    }
    .total-row {
        background-color: #e8f5e9 !important;
        font-weight: bold;
    }
    .number {
        text-align: right;
    }
</style>
</head>
<body>
<h1 style="color: #2c3e50;">Resumen de Facturación Electrónica</h1>
`

// generarHTML concatena una tabla por cada sección presente, cada una con
// su fila de total general en negrita.
func generarHTML(secciones ...*seccion) string {
	var b strings.Builder
	b.WriteString(encabezadoHTML)
	for _, sec := range secciones {
		if sec == nil || len(sec.grupos) == 0 {
			continue
		}
		escribirSeccion(&b, sec)
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func escribirSeccion(b *strings.Builder, sec *seccion) {
	fmt.Fprintf(b, "<h2>%s</h2>\n", html.EscapeString(sec.titulo))
	b.WriteString(`<table>
<thead>
<tr>
    <th>Tipo de documento</th>
    <th class="number">N° de registros</th>
    <th class="number">Valor</th>
</tr>
</thead>
<tbody>
`)
	for _, g := range sec.grupos {
		fmt.Fprintf(b, `<tr>
    <td>%s</td>
    <td class="number">%d</td>
    <td class="number">%s</td>
</tr>
`, html.EscapeString(g.TipoDocumento), g.Registros, formatearValor(g.Valor))
	}
	fmt.Fprintf(b, `<tr class="total-row">
    <td><strong>Total general</strong></td>
    <td class="number"><strong>%d</strong></td>
    <td class="number"><strong>%s</strong></td>
</tr>
</tbody>
</table>
`, sec.totalRegistros, formatearValor(sec.totalValor))
}
