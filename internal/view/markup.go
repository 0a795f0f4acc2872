package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"moneyviz/internal/format"
	"moneyviz/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Markup renders page fragments from the embedded templates and markdown.
type Markup struct {
	tmpl     *template.Template
	goldmark goldmark.Markdown
}

// NewMarkup parses the fragment templates.
func NewMarkup() (*Markup, error) {
	tmpl, err := template.New("fragments").Funcs(template.FuncMap{
		"currency":      func(v float64) string { return format.FormatCurrency(v) },
		"ratio":         func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
		"date":          displayDate,
		"typeClass":     typeClass,
		"signed":        signedAmount,
		"change":        changeClass,
		"changePercent": changePercent,
		"css":           func(s string) template.CSS { return template.CSS(s) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	return &Markup{tmpl: tmpl, goldmark: md}, nil
}

// Render executes the named fragment.
func (m *Markup) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Markdown converts markdown to HTML.
func (m *Markup) Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := m.goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// EmptyState is the placeholder for lists with nothing in them.
type EmptyState struct {
	Icon        string
	Title       string
	Description string
}

// AccountGroup is the accounts of one asset type.
type AccountGroup struct {
	Type     string
	Total    float64
	Accounts []models.Account
}

// RatioView is the financial ratios panel.
type RatioView struct {
	models.Ratios
	SavingsClass   string
	EmergencyClass string
	EmergencyText  string
}

// NewRatioView grades r: a positive savings rate is good, an emergency fund
// of six months or more is good and the capped value reads as sufficient.
func NewRatioView(r models.Ratios) RatioView {
	v := RatioView{Ratios: r, SavingsClass: "metric-value text-danger", EmergencyClass: "metric-value text-warning"}
	if r.SavingsRate > 0 {
		v.SavingsClass = "metric-value text-success"
	}
	switch {
	case r.EmergencyFundSufficient():
		v.EmergencyText = "充足"
		v.EmergencyClass = "metric-value text-success"
	default:
		v.EmergencyText = strconv.FormatFloat(r.EmergencyFundMonths, 'f', 1, 64) + "个月"
		if r.EmergencyFundMonths >= 6 {
			v.EmergencyClass = "metric-value text-success"
		}
	}
	return v
}

func displayDate(s string) string {
	t, err := format.ParseDate(s)
	if err != nil {
		return s
	}
	return format.FormatDate(t, format.LayoutISO)
}

func typeClass(txType string) string {
	if txType == models.TxIncome {
		return "income"
	}
	return "expense"
}

func signedAmount(t models.Transaction) string {
	if t.Type == models.TxIncome {
		return "+" + format.FormatCurrency(t.Amount, format.CurrencyOptions{FractionDigits: 2})
	}
	return "-" + format.FormatCurrency(t.Amount, format.CurrencyOptions{FractionDigits: 2})
}

func changeClass(a models.Account) string {
	if a.Balance > a.InitialBalance {
		return "positive"
	}
	return "negative"
}

func changePercent(a models.Account) string {
	if a.InitialBalance <= 0 {
		return "0%"
	}
	return strconv.FormatFloat((a.Balance-a.InitialBalance)/a.InitialBalance*100, 'f', 1, 64) + "%"
}
