package detect

import (
	"errors"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// ErrUndetermined indicates the detector produced no usable charset label.
// Callers fall back to UTF-8 rather than abort; Decode applies that policy.
var ErrUndetermined = errors.New("encoding undetermined")

// fallbackLabel is the charset assumed when detection or resolution fails.
const fallbackLabel = "utf-8"

// Document carries decoded report text together with the label of the
// encoding that actually produced it.
type Document struct {
	Text     string
	Encoding string
}

// Detect returns the best-guess charset label for raw bytes. It is a pure
// function of its input. Empty input or a detector miss fails with
// ErrUndetermined.
func Detect(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", ErrUndetermined
	}
	best, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || best == nil || best.Charset == "" {
		return "", ErrUndetermined
	}
	return best.Charset, nil
}

// Decode detects the charset of raw bytes and decodes them to UTF-8 text.
// The top guess is always accepted; when detection fails or the label cannot
// be resolved to a decoder, the bytes are read as UTF-8 instead and the
// reported label says so. Invalid sequences decode to U+FFFD, so a lossy
// result never corrupts more than the offending bytes.
func Decode(raw []byte) (Document, error) {
	label, err := Detect(raw)
	if err != nil {
		return utf8Document(raw), nil
	}
	enc := resolve(label)
	if enc == nil {
		return utf8Document(raw), nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		// Last resort: keep what UTF-8 makes of the bytes.
		return utf8Document(raw), nil
	}
	return Document{Text: stripBOM(string(out)), Encoding: label}, nil
}

// resolve maps a detector label to a decoder, trying the WHATWG index first
// and the IANA registry second. Returns nil when the label is unknown.
func resolve(label string) encoding.Encoding {
	if enc, err := htmlindex.Get(label); err == nil {
		return enc
	}
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc
	}
	return nil
}

func utf8Document(raw []byte) Document {
	text := strings.ToValidUTF8(string(raw), "�")
	return Document{Text: stripBOM(text), Encoding: fallbackLabel}
}

// stripBOM drops a leading byte-order mark left behind by decoders that do
// not consume it.
func stripBOM(text string) string {
	return strings.TrimPrefix(text, "\uFEFF")
}
