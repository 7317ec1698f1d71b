package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Text decodes every page of the PDF and concatenates the page texts with
// newline separators. A page yielding no extractable text contributes an
// empty string; only a document that cannot be opened at all is an error.
func Text(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b bytes.Buffer
	for i := 1; i <= reader.NumPage(); i++ {
		if i > 1 {
			b.WriteString("\n")
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
	}

	return b.String(), nil
}
