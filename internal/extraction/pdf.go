package extraction

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

func extractPDF(data []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	return collectPages(reader.NumPage(), func(i int) (string, error) {
		page := reader.Page(i)
		if page.V.IsNull() {
			return "", nil
		}
		return page.GetPlainText(nil)
	}), nil
}

// collectPages joins the text of pages 1..n. A page that errors or panics
// contributes nothing.
func collectPages(n int, pageText func(i int) (string, error)) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		text := safePage(i, pageText)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	}
	return sb.String()
}

func safePage(i int, pageText func(i int) (string, error)) (text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[extraction] page %d: recovered from panic: %v", i, r)
			text = ""
		}
	}()

	text, err := pageText(i)
	if err != nil {
		log.Printf("[extraction] page %d: %v", i, err)
		return ""
	}
	return text
}
