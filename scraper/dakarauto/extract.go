package dakarauto

import (
	"errors"
	"strings"
	"unicode"

	"dakar-auto-scraper/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Selectors for the listing cards on dakar-auto.com result pages.
const (
	listingSelector   = "div.listings-cards__list-item"
	titleSelector     = "h2.listing-card__header__title"
	priceSelector     = "h3.listing-card__header__price"
	suburbSelector    = "span.town-suburb"
	provinceSelector  = "span.province"
	attributeSelector = "li.listing-card__attribute"
	ownerSelector     = `a[style*="#0f3081"]`
)

const (
	currencySuffix   = "F CFA"
	mileageUnit      = "km"
	addressSeparator = ", "
)

var (
	transmissionWords = []string{"Automatique", "Manuelle", "Automatic", "Manual"}
	fuelWords         = []string{"Essence", "Diesel", "Gasoline", "Petrol"}
	ownerPrefixes     = []string{"Par ", "By "}
)

// ErrNoTitle means the card has no title header at all; such a card is
// not a listing and is skipped.
var ErrNoTitle = errors.New("listing card has no title header")

var (
	// Non-breaking, narrow and thin spaces become ordinary spaces.
	spaceFolder = runes.Map(func(r rune) rune {
		if unicode.Is(unicode.Zs, r) {
			return ' '
		}
		return r
	})
	spaceRemover = runes.Remove(runes.In(unicode.Zs))
)

// NormalizeSpace folds every space separator to ' ', collapses runs and
// trims both ends. It is idempotent.
func NormalizeSpace(s string) string {
	folded, _, err := transform.String(spaceFolder, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(folded), " ")
}

// compactNumber drops digit-group separators from values such as
// "5 000 000". Text that is not purely digits and spaces is returned as is.
func compactNumber(s string) string {
	if s == "" || strings.TrimFunc(s, func(r rune) bool { return unicode.IsDigit(r) || unicode.IsSpace(r) }) != "" {
		return s
	}
	compact, _, err := transform.String(spaceRemover, s)
	if err != nil {
		return s
	}
	return compact
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func ptr(s string) *string { return &s }

func textOf(sel *goquery.Selection) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}
	return NormalizeSpace(sel.First().Text()), true
}

// Extract pulls the listing fields out of one card. Missing elements leave
// their field nil; only a card without a title header is an error.
func Extract(card *goquery.Selection) (models.Listing, error) {
	header := card.Find(titleSelector)
	if header.Length() == 0 {
		return models.Listing{}, ErrNoTitle
	}

	var l models.Listing
	if title, ok := textOf(header.First().Find("a")); ok && title != "" {
		tokens := strings.Fields(title)
		l.Brand = ptr(tokens[0])
		if last := tokens[len(tokens)-1]; isDigits(last) {
			l.Year = ptr(last)
		}
	}

	if price, ok := textOf(card.Find(priceSelector)); ok {
		price = strings.TrimSpace(strings.ReplaceAll(price, currencySuffix, ""))
		l.Price = ptr(compactNumber(price))
	}

	suburb, hasSuburb := textOf(card.Find(suburbSelector))
	province, hasProvince := textOf(card.Find(provinceSelector))
	if hasSuburb && hasProvince {
		l.Address = ptr(suburb + addressSeparator + province)
	}

	card.Find(attributeSelector).Each(func(_ int, chip *goquery.Selection) {
		text := NormalizeSpace(chip.Text())
		switch {
		case strings.Contains(text, mileageUnit):
			if l.Mileage == nil {
				l.Mileage = ptr(compactNumber(strings.TrimSpace(strings.ReplaceAll(text, mileageUnit, ""))))
			}
		case containsAny(text, transmissionWords):
			if l.Transmission == nil {
				l.Transmission = ptr(text)
			}
		case containsAny(text, fuelWords):
			if l.Fuel == nil {
				l.Fuel = ptr(text)
			}
		}
	})

	if owner, ok := textOf(card.Find(ownerSelector)); ok {
		for _, prefix := range ownerPrefixes {
			owner = strings.TrimPrefix(owner, prefix)
		}
		l.Owner = ptr(strings.TrimSpace(owner))
	}

	return l, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
