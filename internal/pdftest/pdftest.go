// Package pdftest builds tiny but structurally valid PDFs for tests: correct
// xref offsets, one content stream per page, A4 media boxes.
package pdftest

import (
	"fmt"
	"strings"
)

// BuildPDF returns a PDF with pageCount pages. Each page carries a short
// text stream so validators see well-formed content.
func BuildPDF(pageCount int) []byte {
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	// Object numbering: 1 catalog, 2 page tree, 3 font, then for page i
	// (0-based): 4+2i page, 5+2i contents.
	objCount := 3 + 2*pageCount
	offsets := make([]int, objCount+1)

	writeObj := func(num int, body string) {
		offsets[num] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, pageCount)
	for i := 0; i < pageCount; i++ {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), pageCount))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i := 0; i < pageCount; i++ {
		pageNum := 4 + 2*i
		contentNum := 5 + 2*i
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>",
			contentNum))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 770 Td (page %d) Tj ET", i+1)
		writeObj(contentNum, fmt.Sprintf(
			"<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", objCount+1)
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= objCount; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		objCount+1, xrefOffset)

	return []byte(b.String())
}
