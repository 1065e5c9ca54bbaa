// Package zugferd baut das Hybridformat: die XRechnung-XML wird als
// Dateianhang "factur-x.xml" in das Rechnungs-PDF eingebettet, sodass
// eine Datei sowohl menschen- als auch maschinenlesbar ist.
package zugferd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// AttachmentName ist der im Container erwartete Name der XML-Beilage.
const AttachmentName = "factur-x.xml"

// PdfcpuEmbedder implementiert export.ZUGFeRDEmbedder mit pdfcpu.
type PdfcpuEmbedder struct{}

// NewPdfcpuEmbedder erzeugt den Embedder.
func NewPdfcpuEmbedder() *PdfcpuEmbedder { return &PdfcpuEmbedder{} }

// Embed hängt die XML an das PDF an und liefert die Bytes des Containers.
// pdfcpu arbeitet dateibasiert; die Zwischendateien leben in einem
// temporären Verzeichnis, das am Ende komplett verschwindet.
func (e *PdfcpuEmbedder) Embed(ctx context.Context, pdf []byte, xml []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("zugferd: leeres pdf")
	}
	if len(xml) == 0 {
		return nil, fmt.Errorf("zugferd: leere xml")
	}

	dir, err := os.MkdirTemp("", "zugferd-*")
	if err != nil {
		return nil, fmt.Errorf("zugferd: arbeitsverzeichnis anlegen: %w", err)
	}
	defer os.RemoveAll(dir)

	inFile := filepath.Join(dir, "invoice.pdf")
	xmlFile := filepath.Join(dir, AttachmentName)
	outFile := filepath.Join(dir, "invoice-zugferd.pdf")

	if err := os.WriteFile(inFile, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("zugferd: pdf schreiben: %w", err)
	}
	if err := os.WriteFile(xmlFile, xml, 0o600); err != nil {
		return nil, fmt.Errorf("zugferd: xml schreiben: %w", err)
	}

	if err := api.AddAttachmentsFile(inFile, outFile, []string{xmlFile}, false, nil); err != nil {
		return nil, fmt.Errorf("zugferd: anhang einbetten: %w", err)
	}

	out, err := os.ReadFile(outFile)
	if err != nil {
		return nil, fmt.Errorf("zugferd: ergebnis lesen: %w", err)
	}
	return out, nil
}
