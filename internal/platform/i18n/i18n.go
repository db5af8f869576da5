// Package i18n resolves the site locale and formats localized labels and
// prices.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/solvefurniture/storefront/internal/platform/i18n/catalog"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is the ISO 4217 code prices are listed in.
const DefaultCurrency = "NOK"

var (
	loadOnce sync.Once
	loaded   *catalog.Catalog
	loadErr  error
)

// Catalog loads the embedded catalog and registers it with x/text once per
// process.
func Catalog() (*catalog.Catalog, error) {
	loadOnce.Do(func() {
		c, err := catalog.Embedded()
		if err != nil {
			loadErr = err
			return
		}
		if err := c.Register(); err != nil {
			loadErr = err
			return
		}
		loaded = c
	})
	return loaded, loadErr
}

// Localizer renders labels and prices for one locale.
type Localizer struct {
	tag     language.Tag
	unit    currency.Unit
	printer *message.Printer
}

// New returns a localizer for the supported locale closest to locale and the
// ISO currency code. Empty values select the defaults.
func New(locale, currencyCode string) (*Localizer, error) {
	c, err := Catalog()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	tag := Resolve(c, locale)

	currencyCode = strings.TrimSpace(currencyCode)
	if currencyCode == "" {
		currencyCode = DefaultCurrency
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", currencyCode, err)
	}
	return &Localizer{tag: tag, unit: unit, printer: message.NewPrinter(tag)}, nil
}

// Resolve matches locale against the catalog locales. Unknown or empty
// locales resolve to the base locale.
func Resolve(c *catalog.Catalog, locale string) language.Tag {
	supported := c.Tags()
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return supported[0]
	}
	requested, err := language.Parse(locale)
	if err != nil {
		return supported[0]
	}
	_, index, confidence := language.NewMatcher(supported).Match(requested)
	if confidence == language.No {
		return supported[0]
	}
	return supported[index]
}

// Tag returns the resolved locale.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Lang returns the BCP 47 string for the html lang attribute.
func (l *Localizer) Lang() string {
	return l.tag.String()
}

// T returns the message for key.
func (l *Localizer) T(key string) string {
	return l.printer.Sprintf(key)
}

// Price formats amount in the configured currency, rounded to the currency's
// standard precision: "NOK 1,299.00" in en-US.
func (l *Localizer) Price(amount decimal.Decimal) string {
	scale, _ := currency.Standard.Rounding(l.unit)
	rounded := amount.Round(int32(scale)).InexactFloat64()
	return l.printer.Sprintf("%s %v", l.unit.String(), number.Decimal(rounded, number.Scale(scale)))
}
