package httputil

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentDisposition(t *testing.T) {
	rr := httptest.NewRecorder()

	Attachment(rr, "application/pdf", "工時週報_2026-08-24.pdf", []byte("%PDF-1.4"))

	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, "8", rr.Header().Get("Content-Length"))

	disposition := rr.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, `filename="export.pdf"`, "ASCII fallback keeps the extension")

	decoded, err := url.PathUnescape(disposition)
	require.NoError(t, err)
	assert.Contains(t, decoded, "filename*=UTF-8''工時週報_2026-08-24.pdf")
}

func TestAttachmentFallbackPerFormat(t *testing.T) {
	for _, tc := range []struct {
		filename string
		want     string
	}{
		{"全公司_工時報表_2026-08-24_2026-08-30.csv", `filename="export.csv"`},
		{"工時月報_2026-08.xlsx", `filename="export.xlsx"`},
	} {
		rr := httptest.NewRecorder()
		Attachment(rr, "application/octet-stream", tc.filename, nil)
		assert.Contains(t, rr.Header().Get("Content-Disposition"), tc.want)
	}
}
