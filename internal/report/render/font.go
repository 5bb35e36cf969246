package render

import (
	"os"
	"sync"

	"github.com/go-pdf/fpdf"
	"github.com/worklog/worklog-backend/pkg/logger"
)

const fallbackFont = "Helvetica"

// FontLoader loads the CJK font file once and attaches it to every PDF
// document. When the file cannot be read, exports keep working with the
// built-in font; CJK glyphs degrade but nothing aborts.
type FontLoader struct {
	path   string
	name   string
	logger *logger.Logger

	once sync.Once
	data []byte
	ok   bool
}

// NewFontLoader creates a font loader for the configured font file
func NewFontLoader(path, name string, log *logger.Logger) *FontLoader {
	return &FontLoader{
		path:   path,
		name:   name,
		logger: log,
	}
}

func (f *FontLoader) load() {
	data, err := os.ReadFile(f.path)
	if err != nil {
		f.logger.Warn().Err(err).Str("path", f.path).Msg("report font unavailable, using fallback font")
		return
	}
	f.data = data
	f.ok = true
}

// Attach registers the font on the document and returns the family name to
// use. The font file is read once per process.
func (f *FontLoader) Attach(pdf *fpdf.Fpdf) string {
	f.once.Do(f.load)
	if !f.ok {
		return fallbackFont
	}
	pdf.AddUTF8FontFromBytes(f.name, "", f.data)
	return f.name
}
