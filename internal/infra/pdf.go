package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"rutaventas/internal/model"

	"github.com/go-pdf/fpdf"
)

// ReceiptFileName is the file name of the receipt for a public sale.
func ReceiptFileName(v *model.VentaPublico) string {
	return fmt.Sprintf("venta_publico_%s.pdf", v.ID)
}

// GenerateVentaPublicoPDF renders a thermal-receipt sized PDF for a public sale
// into storagePath and returns the file path.
func GenerateVentaPublicoPDF(v *model.VentaPublico, vendedor string, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, ReceiptFileName(v))

	// 80mm roll; height grows with the number of lines.
	height := 70.0 + 5.0*float64(len(v.Detalles))
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, "Venta al publico", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Comprobante no fiscal", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.CellFormat(contentW, 4, "Venta: "+v.ID.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Vendedor: "+vendedor), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, v.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	colNombre := contentW * 0.46
	colCant := contentW * 0.16
	colPrecio := contentW * 0.18
	colSub := contentW * 0.20

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(colNombre, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCant, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(colPrecio, 5, "P.Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colSub, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range v.Detalles {
		nombre := []rune(d.NombreProducto)
		if len(nombre) > 24 {
			nombre = append(nombre[:23], '.')
		}
		pdf.CellFormat(colNombre, 5, tr(string(nombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(colCant, 5, d.Cantidad.String(), "", 0, "C", false, 0, "")
		pdf.CellFormat(colPrecio, 5, "$"+d.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colSub, 5, "$"+d.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colNombre+colCant+colPrecio, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(colSub, 6, "$"+v.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Pago: "+v.MetodoPago, "", 1, "L", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Gracias por su compra", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
