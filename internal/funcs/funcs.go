package funcs

import (
	"fmt"
	"strings"
	"time"

	"github.com/cradoe/remitflow/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

var TemplateFuncs = map[string]any{
	// Time functions
	"now":        time.Now,
	"formatTime": formatTime,

	// String functions
	"upper":    func(v any) string { return strings.ToUpper(fmt.Sprint(v)) },
	"lower":    strings.ToLower,
	"truncate": truncate,

	// Money functions
	"formatAmount": FormatAmount,
}

func formatTime(format string, t time.Time) string {
	return t.Format(format)
}

func truncate(n int, s string) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// FormatAmount renders a as rupees with Indian digit grouping, e.g. ₹1,25,000.00.
func FormatAmount(a models.Amount) string {
	return "₹" + printer.Sprint(number.Decimal(a.Float64(), number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
