// Package extraction reads resume text out of uploaded documents.
package extraction

import (
	"path/filepath"
	"strings"
)

// Supported MIME types.
const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionMIME = map[string]string{
	".txt":  MIMEText,
	".text": MIMEText,
	".md":   MIMEText,
	".pdf":  MIMEPDF,
	".docx": MIMEDOCX,
}

// DetectMIME resolves the document type from its declared MIME type, falling
// back to the file extension when the declared type is empty or generic.
func DetectMIME(name, mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch mime {
	case MIMEText, MIMEPDF, MIMEDOCX:
		return mime
	}
	return extensionMIME[strings.ToLower(filepath.Ext(name))]
}

// ExtractText returns the text of a document. name is used for type
// detection and error messages. Plain text is returned as uploaded so it
// matches exactly like pasted text; PDF and DOCX output goes through
// CleanText to undo layout spacing.
func ExtractText(name, mime string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Source: name, Message: "document is empty"}
	}

	var (
		text string
		err  error
	)
	switch kind := DetectMIME(name, mime); kind {
	case MIMEText:
		if strings.TrimSpace(string(data)) == "" {
			return "", &ExtractionError{Source: name, Message: "no text found in document"}
		}
		return string(data), nil
	case MIMEPDF:
		text, err = extractPDF(data)
	case MIMEDOCX:
		text, err = extractDOCX(data)
	default:
		return "", &ExtractionError{Source: name, Message: "unsupported file type " + describeType(name, mime)}
	}
	if err != nil {
		return "", &ExtractionError{Source: name, Message: "unreadable document", Cause: err}
	}

	text = CleanText(text)
	if text == "" {
		return "", &ExtractionError{Source: name, Message: "no text found in document"}
	}
	return text, nil
}

func describeType(name, mime string) string {
	if mime != "" {
		return "(" + mime + ")"
	}
	if ext := filepath.Ext(name); ext != "" {
		return "(" + ext + ")"
	}
	return "(unknown)"
}
