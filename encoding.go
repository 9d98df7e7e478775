package commutative

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// Encoding names a text representation of a byte buffer
type Encoding string

const (
	UTF8   Encoding = "utf8"
	Hex    Encoding = "hex"
	Base64 Encoding = "base64"
)

// ParseEncoding accepts "utf8" (or "utf-8"), "hex" and "base64", ignoring case.
// An empty name returns the empty Encoding, which means "use the default" wherever an Encoding is accepted
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "utf8", "utf-8":
		return UTF8, nil
	case "hex":
		return Hex, nil
	case "base64":
		return Base64, nil
	default:
		return "", errors.Wrapf(ErrInvalidEncoding, "unsupported encoding %q", name)
	}
}

func (enc Encoding) decode(s string) ([]byte, error) {
	switch enc {
	case UTF8:
		return []byte(s), nil
	case Hex:
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidArgument, "malformed hex: %s", err)
		}
		return b, nil
	case Base64:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidArgument, "malformed base64: %s", err)
		}
		return b, nil
	default:
		return nil, errors.Wrapf(ErrInvalidEncoding, "unsupported encoding %q", string(enc))
	}
}

// EncodeString renders b in the given encoding. An empty Encoding means hex
func EncodeString(b []byte, enc Encoding) (string, error) {
	switch enc {
	case "", Hex:
		return hex.EncodeToString(b), nil
	case Base64:
		return base64.StdEncoding.EncodeToString(b), nil
	case UTF8:
		return string(b), nil
	default:
		return "", errors.Wrapf(ErrInvalidEncoding, "unsupported encoding %q", string(enc))
	}
}
