package dakarauto

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

type card struct {
	title    string
	noHeader bool
	noAnchor bool
	price    string
	suburb   string
	province string
	chips    []string
	owner    string
}

func (c card) html() string {
	var b strings.Builder
	b.WriteString(`<div class="listings-cards__list-item">`)
	switch {
	case c.noHeader:
	case c.noAnchor:
		b.WriteString(`<h2 class="listing-card__header__title"></h2>`)
	default:
		fmt.Fprintf(&b, `<h2 class="listing-card__header__title"><a href="/annonce/1">%s</a></h2>`, c.title)
	}
	if c.price != "" {
		fmt.Fprintf(&b, `<h3 class="listing-card__header__price">%s</h3>`, c.price)
	}
	if c.suburb != "" {
		fmt.Fprintf(&b, `<span class="town-suburb">%s</span>`, c.suburb)
	}
	if c.province != "" {
		fmt.Fprintf(&b, `<span class="province">%s</span>`, c.province)
	}
	if len(c.chips) > 0 {
		b.WriteString(`<ul>`)
		for _, chip := range c.chips {
			fmt.Fprintf(&b, `<li class="listing-card__attribute"><i class="icon"></i>%s</li>`, chip)
		}
		b.WriteString(`</ul>`)
	}
	if c.owner != "" {
		fmt.Fprintf(&b, `<a href="/vendeur/1" style="color:#0f3081; text-decoration: none;">%s</a>`, c.owner)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func pageHTML(cards ...card) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body><div class="listings-cards">`)
	for _, c := range cards {
		b.WriteString(c.html())
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func parseCard(t *testing.T, c card) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML(c)))
	require.NoError(t, err)
	sel := doc.Find(listingSelector)
	require.Equal(t, 1, sel.Length())
	return sel
}

func fullCar() card {
	return card{
		title:    "Toyota Corolla 2018",
		price:    "5\u202f000\u202f000\u00a0F CFA",
		suburb:   " Sacré Coeur ",
		province: "Dakar",
		chips:    []string{"120\u202f000 km", "Automatique", "Essence"},
		owner:    "Par Auto Plus",
	}
}
