// detect.go - Erkennung des GGUF-Formats anhand der Magic Bytes
// Hauptfunktionen: DetectContentType
package llamacpp

import (
	"bytes"
	"io"
	"os"
)

var ggufMagic = []byte("GGUF")

// DetectContentType erkennt GGUF-Inhalte an den ersten vier Bytes
func DetectContentType(b []byte) string {
	if bytes.HasPrefix(b, ggufMagic) {
		return "gguf"
	}
	return "unknown"
}

// DetectFileContentType liest die Magic Bytes einer Datei
func DetectFileContentType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 4)
	if _, err := io.ReadFull(f, buf); err != nil {
		return "unknown", nil
	}

	return DetectContentType(buf), nil
}
