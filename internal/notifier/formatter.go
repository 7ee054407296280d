package notifier

import (
	"fmt"
	"html"
	"strings"

	"DiamondQuest/internal/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Diamonds renders an amount with thousands separators, e.g. "1,000 diamonds".
func Diamonds(n int64) string {
	if n == 1 {
		return "1 diamond"
	}
	return printer.Sprintf("%d diamonds", n)
}

var variantIcons = map[model.ToastVariant]string{
	model.ToastSuccess:     "✅",
	model.ToastInfo:        "ℹ️",
	model.ToastWarning:     "⚠️",
	model.ToastDestructive: "❌",
}

// FormatToast renders a toast as a Telegram HTML message.
func FormatToast(t model.Toast) string {
	var b strings.Builder
	if icon, ok := variantIcons[t.Variant]; ok {
		b.WriteString(icon)
		b.WriteString(" ")
	}
	b.WriteString(fmt.Sprintf("<b>%s</b>", html.EscapeString(t.Title)))
	if t.Message != "" {
		b.WriteString("\n")
		b.WriteString(html.EscapeString(t.Message))
	}
	return b.String()
}

// FormatRollover is the message sent when the daily activities reset.
func FormatRollover(day string, balance int64) string {
	return printer.Sprintf("New day (%s): daily chest, lucky spin and diamond rush are ready. Balance: %s.",
		day, Diamonds(balance))
}
