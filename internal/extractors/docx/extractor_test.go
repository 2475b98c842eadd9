package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const documentBody = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Lead with </w:t></w:r><w:r><w:t>purpose.</w:t></w:r></w:p>
    <w:p></w:p>
    <w:p><w:r><w:t>Plan the week.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtract_JoinsParagraphs(t *testing.T) {
	data := buildDocx(t, map[string]string{"word/document.xml": documentBody})

	out, err := New().Extract(context.Background(), "lesson.docx", data)

	require.NoError(t, err)
	assert.Equal(t, domain.KindText, out.Kind)
	assert.Equal(t, "Lead with purpose.\n\nPlan the week.", out.Text)
	assert.Equal(t, MIMEType, out.MIMEType)
}

func TestExtract_NotAZip(t *testing.T) {
	_, err := New().Extract(context.Background(), "old.doc", []byte{0xD0, 0xCF, 0x11, 0xE0})
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestExtract_MissingDocumentPart(t *testing.T) {
	data := buildDocx(t, map[string]string{"docProps/core.xml": "<x/>"})

	_, err := New().Extract(context.Background(), "a.docx", data)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestExtract_MalformedXML(t *testing.T) {
	data := buildDocx(t, map[string]string{"word/document.xml": "<w:document><w:body>"})

	_, err := New().Extract(context.Background(), "a.docx", data)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestExtensions(t *testing.T) {
	assert.ElementsMatch(t, []string{"doc", "docx"}, New().Extensions())
	assert.Equal(t, domain.KindText, New().Kind())
}
