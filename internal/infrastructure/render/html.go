package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// HTMLSerializer renders ContractData to a standalone HTML document. Output
// depends only on its input, so the same data always yields the same bytes.
type HTMLSerializer struct {
	tmpl *template.Template
}

func NewHTMLSerializer() (*HTMLSerializer, error) {
	tmpl, err := template.New("contract.html.tmpl").
		Option("missingkey=error").
		Funcs(templateFuncs()).
		ParseFS(templateFS, "templates/contract.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse contract template: %w", err)
	}
	return &HTMLSerializer{tmpl: tmpl}, nil
}

// MustNewHTMLSerializer panics if the embedded template does not parse.
func MustNewHTMLSerializer() *HTMLSerializer {
	s, err := NewHTMLSerializer()
	if err != nil {
		panic(err)
	}
	return s
}

// Serialize renders data. Absent values appear as explicit placeholder
// tokens, never as blanks.
func (s *HTMLSerializer) Serialize(data domainContract.ContractData) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeRenderFailed, "failed to serialize contract html")
	}
	return buf.String(), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"orNS":         func(s string) string { return orToken(s, domainContract.NotSpecified) },
		"orTBD":        func(s string) string { return orToken(s, domainContract.ToBeDetermined) },
		"notSpecified": func() string { return domainContract.NotSpecified },
		"date":         formatDate,
		"dateTime":     formatDateTime,
		"money":        formatMoney,
		"percent":      formatPercent,
		"yesNo":        yesNo,
		"months":       func(n int) string { return pluralize(n, "month", domainContract.NotSpecified) },
		"count":        quantity,
	}
}

func orToken(s, token string) string {
	if strings.TrimSpace(s) == "" {
		return token
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return domainContract.ToBeDetermined
	}
	return t.UTC().Format("2 January 2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return domainContract.NotSpecified
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}

// formatMoney renders 2500000 as "2,500,000.00 EGP".
func formatMoney(d decimal.Decimal, currency string) string {
	if d.IsZero() {
		return domainContract.ToBeDetermined
	}
	fixed := d.Abs().StringFixed(2)
	whole, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		whole, frac = fixed[:i], fixed[i:]
	}
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	if currency = strings.TrimSpace(currency); currency != "" {
		b.WriteByte(' ')
		b.WriteString(currency)
	}
	return b.String()
}

func formatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}

func yesNo(b bool) string {
	if b {
		return "Authorized"
	}
	return "Not authorized"
}

// quantity renders an assembled count. Zero is an explicit value here; the
// assembler fills unset counts with their defaults.
func quantity(n int, unit string) string {
	if n == 0 {
		return "0 " + unit + "s"
	}
	return pluralize(n, unit, domainContract.NotSpecified)
}

func pluralize(n int, unit, zero string) string {
	switch {
	case n <= 0:
		return zero
	case n == 1:
		return "1 " + unit
	default:
		return fmt.Sprintf("%d %ss", n, unit)
	}
}

//Personal.AI order the ending
