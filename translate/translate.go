// Package translate formats user-visible messages for the locale of the
// current user.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FALLBACK_LOCALE is used when the user's locales cannot be determined.
const FALLBACK_LOCALE = "en-US"

var printer *message.Printer

func init() {
	printer = NewPrinter()
}

// NewPrinter creates a message printer matching the user's preferred locales.
func NewPrinter() *message.Printer {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("rvsoc: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{FALLBACK_LOCALE}
	}

	tag := message.MatchLanguage(locales...)
	if tag == language.Und {
		tag = language.MustParse(FALLBACK_LOCALE)
	}

	return message.NewPrinter(tag)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
