package resume

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

var (
	spaceRuns   = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRuns = regexp.MustCompile(`\n+`)
)

// ExtractText converts a staged PDF document to plain text.
func ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}

	return normalizeWhitespace(buf.String()), nil
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = newlineRuns.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
