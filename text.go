package bundlebase

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/saintfish/chardet"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// UTF8 is the encoding used for text when none is given.
var UTF8 encoding.Encoding = unicode.UTF8

// LookupEncoding returns the character encoding called name, using
// WHATWG/IANA labels such as "utf-8", "latin1" or "shift_jis".
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %q", name)
	}
	return enc, nil
}

// DetectEncoding guesses the character encoding of data.  It falls
// back to UTF-8 when nothing better can be found.
func DetectEncoding(data []byte) encoding.Encoding {
	if utf8.Valid(data) {
		return UTF8
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return UTF8
	}
	enc, err := htmlindex.Get(strings.ToLower(result.Charset))
	if err != nil {
		log.Debugf("no encoding for detected charset %s: %v", result.Charset, err)
		return UTF8
	}
	return enc
}

// EncodeText converts text to bytes in enc.  A nil enc means UTF-8.
// Runes that enc cannot represent are an error.
func EncodeText(text string, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		enc = UTF8
	}
	if enc == UTF8 {
		if !utf8.ValidString(text) {
			return nil, errors.New("text is not valid utf-8")
		}
		return []byte(text), nil
	}
	return enc.NewEncoder().Bytes([]byte(text))
}

// DecodeText converts data in enc to a string.  A nil enc means the
// encoding is detected from the data.
func DecodeText(data []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		enc = DetectEncoding(data)
	}
	if enc == UTF8 {
		if !utf8.Valid(data) {
			return "", errors.New("data is not valid utf-8")
		}
		return string(data), nil
	}
	buf, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
