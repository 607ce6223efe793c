package infra

// pdf.go renders the closure ticket of a cash register session with
// go-pdf/fpdf. The layout follows the thermal-receipt width used at the
// kiosks: header, session data, POS and lunch breakdowns, manual movements,
// expected vs declared cash and the signature lines.
//
// The output file is saved to storagePath/cierre_{sesion_id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	ticketWidth  = 80.0
	ticketHeight = 200.0
	ticketMargin = 4.0
)

// GenerarCierrePDF writes the closure ticket for c and returns the file path.
// loc is the site's time zone used to print the timestamps.
func GenerarCierrePDF(s *model.SesionCaja, c *model.CierreCaja, storagePath string, loc *time.Location) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("cierre_%s.pdf", c.SesionID))

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: ticketWidth, Ht: ticketHeight},
	})
	pdf.SetMargins(ticketMargin, ticketMargin, ticketMargin)
	pdf.SetAutoPageBreak(true, ticketMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	contentW := ticketWidth - 2*ticketMargin
	labelW := contentW * 0.65
	amountW := contentW - labelW

	line := func() {
		pdf.Ln(1)
		pdf.Line(ticketMargin, pdf.GetY(), ticketWidth-ticketMargin, pdf.GetY())
		pdf.Ln(1)
	}
	row := func(label string, v decimal.Decimal) {
		pdf.CellFormat(labelW, 4, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(amountW, 4, "S/ "+v.StringFixed(2), "", 1, "R", false, 0, "")
	}
	section := func(title string) {
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(contentW, 5, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, tr("Kiosco Escolar"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	titulo := "Cierre de Caja"
	if c.Forzado {
		titulo = "Cierre de Caja (FORZADO)"
	}
	pdf.CellFormat(contentW, 5, tr(titulo), "", 1, "C", false, 0, "")
	line()

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr("Sesión: "+s.ID.String()[:8]), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Apertura: "+s.OpenedAt.In(loc).Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	if s.ClosedAt != nil {
		pdf.CellFormat(contentW, 4, tr("Cierre: "+s.ClosedAt.In(loc).Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	}
	line()

	section("Punto de venta")
	row("Efectivo", c.PosEfectivo)
	row("Tarjeta", c.PosTarjeta)
	row("Yape", c.PosYape)
	row("Yape QR", c.PosYapeQR)
	row("Crédito", c.PosCredito)
	if !c.PosMixtoEfectivo.Add(c.PosMixtoTarjeta).Add(c.PosMixtoYape).IsZero() {
		row("Mixto (efectivo)", c.PosMixtoEfectivo)
		row("Mixto (tarjeta)", c.PosMixtoTarjeta)
		row("Mixto (yape)", c.PosMixtoYape)
	}
	pdf.SetFont("Helvetica", "B", 7)
	row("Total POS", c.PosTotal)

	section("Almuerzos")
	row("Efectivo", c.AlmuerzoEfectivo)
	row("Tarjeta", c.AlmuerzoTarjeta)
	row("Yape", c.AlmuerzoYape)
	row("Crédito", c.AlmuerzoCredito)
	pdf.SetFont("Helvetica", "B", 7)
	row("Total almuerzos", c.AlmuerzoTotal)
	line()

	section("Caja")
	row("Monto inicial", c.MontoInicial)
	row("Ingresos", c.TotalIngresos)
	row("Egresos", c.TotalEgresos.Neg())
	row("Ventas en efectivo", c.TotalEfectivo)
	pdf.SetFont("Helvetica", "B", 8)
	row("Esperado", c.EsperadoFinal)
	row("Declarado", c.RealFinal)
	row("Diferencia", c.Diferencia)
	pdf.SetFont("Helvetica", "", 7)
	row("Total ventas", c.TotalVentas)

	if c.Notas != nil && *c.Notas != "" {
		line()
		pdf.MultiCell(contentW, 4, tr("Notas: "+*c.Notas), "", "L", false)
	}

	pdf.Ln(10)
	half := contentW/2 - 2
	pdf.CellFormat(half, 4, "________________", "", 0, "C", false, 0, "")
	pdf.CellFormat(4, 4, "", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 4, "________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(half, 4, tr("Cajero"), "", 0, "C", false, 0, "")
	pdf.CellFormat(4, 4, "", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 4, tr("Administración"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
