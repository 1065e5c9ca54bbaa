package zugferd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	maroto "github.com/johnfercher/maroto/v2"
)

// minimalPDF erzeugt ein kleines, gültiges PDF als Trägerdokument.
func minimalPDF(t *testing.T) []byte {
	t.Helper()
	m := maroto.New()
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Rechnung RE-2025-0042"))))
	doc, err := m.Generate()
	require.NoError(t, err)
	return doc.GetBytes()
}

func TestEmbed_AttachesXML(t *testing.T) {
	xml := []byte(`<?xml version="1.0" encoding="UTF-8"?><rsm:CrossIndustryInvoice xmlns:rsm="urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"/>`)

	out, err := NewPdfcpuEmbedder().Embed(context.Background(), minimalPDF(t), xml)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	attachments, err := api.Attachments(bytes.NewReader(out), nil)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Contains(t, attachments[0].FileName, AttachmentName)
}

func TestEmbed_RejectsEmptyInputs(t *testing.T) {
	e := NewPdfcpuEmbedder()

	_, err := e.Embed(context.Background(), nil, []byte("<x/>"))
	assert.Error(t, err)

	_, err = e.Embed(context.Background(), minimalPDF(t), nil)
	assert.Error(t, err)
}

func TestEmbed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := NewPdfcpuEmbedder().Embed(ctx, minimalPDF(t), []byte("<x/>"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
