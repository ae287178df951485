package mint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/websession/pkg/session"
	"github.com/dmitrymomot/websession/pkg/session/sessiontest"
)

// Format selects how results are printed.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatHeader prints a Cookie request header line.
	FormatHeader Format = "header"
	// FormatValue prints the bare token.
	FormatValue Format = "value"
)

var ErrUnknownFormat = errors.New("mint.unknown_format")

// ParseFormat validates an --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatHeader, FormatValue:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// WriteCookie prints c in format.
func WriteCookie(w io.Writer, format Format, c sessiontest.Cookie) error {
	switch format {
	case FormatHeader:
		_, err := fmt.Fprintf(w, "Cookie: %s\n", c.Header())
		return err
	case FormatValue:
		_, err := fmt.Fprintln(w, c.Value)
		return err
	default:
		return encode(w, format, c)
	}
}

// WriteRecord prints rec in format. Header and value formats print the
// user ID, which is what shell scripts usually want.
func WriteRecord(w io.Writer, format Format, rec session.Record) error {
	switch format {
	case FormatHeader, FormatValue:
		_, err := fmt.Fprintln(w, rec.UserID)
		return err
	default:
		return encode(w, format, rec)
	}
}

func encode(w io.Writer, format Format, v any) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
