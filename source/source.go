// Package source reads deck files from disk and prepares them for package
// deck: it decodes the file's character encoding, strips a byte order mark
// and normalises line endings to '\n'.
package source

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Encoding string

const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingLatin1 Encoding = "latin1"
	EncodingUTF16  Encoding = "utf-16"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// ParseEncoding accepts the common spellings of the supported encodings.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1, nil
	case "utf16", "utf-16":
		return EncodingUTF16, nil
	default:
		return "", fmt.Errorf("unknown encoding %q", s)
	}
}

// Decode converts data to UTF-8. UTF-8 input is returned with any BOM
// removed and invalid bytes left alone so the deck reader can report them.
func Decode(data []byte, enc Encoding) ([]byte, error) {
	switch enc {
	case "", EncodingUTF8:
		return bytes.TrimPrefix(data, utf8BOM), nil
	case EncodingLatin1:
		out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decode latin1: %w", err)
		}
		return out, nil
	case EncodingUTF16:
		// Little endian unless the BOM says otherwise.
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		if err != nil {
			return nil, fmt.Errorf("decode utf-16: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", enc)
	}
}

// Normalize converts "\r\n" and lone '\r' line endings to '\n'.
func Normalize(data []byte) []byte {
	if bytes.IndexByte(data, '\r') < 0 {
		return data
	}
	out := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(out, []byte("\r"), []byte("\n"))
}

// Prepare decodes and normalises raw file content.
func Prepare(data []byte, enc Encoding) ([]byte, error) {
	decoded, err := Decode(data, enc)
	if err != nil {
		return nil, err
	}
	return Normalize(decoded), nil
}

// ReadFile reads and prepares the deck at path.
func ReadFile(path string, enc Encoding) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return Prepare(data, enc)
}
