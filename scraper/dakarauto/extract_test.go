package dakarauto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deref(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestExtract_FullCard(t *testing.T) {
	l, err := Extract(parseCard(t, fullCar()))
	require.NoError(t, err)

	assert.Equal(t, "Toyota", deref(l.Brand))
	assert.Equal(t, "2018", deref(l.Year))
	assert.Equal(t, "5000000", deref(l.Price))
	assert.Equal(t, "Sacré Coeur, Dakar", deref(l.Address))
	assert.Equal(t, "120000", deref(l.Mileage))
	assert.Equal(t, "Automatique", deref(l.Transmission))
	assert.Equal(t, "Essence", deref(l.Fuel))
	assert.Equal(t, "Auto Plus", deref(l.Owner))
}

func TestExtract_Title(t *testing.T) {
	cases := []struct {
		name  string
		title string
		brand any
		year  any
	}{
		{name: "brand and year", title: "Toyota Corolla 2018", brand: "Toyota", year: "2018"},
		{name: "no trailing year", title: "Toyota Corolla", brand: "Toyota", year: nil},
		{name: "non-breaking spaces", title: "\u00a0Peugeot\u00a0208\u202f2020 ", brand: "Peugeot", year: "2020"},
		{name: "mixed last token", title: "Kia Rio 2019A", brand: "Kia", year: nil},
		{name: "single token", title: "Hyundai", brand: "Hyundai", year: nil},
		{name: "empty title", title: "   ", brand: nil, year: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := Extract(parseCard(t, card{title: tc.title}))
			require.NoError(t, err)
			assert.Equal(t, tc.brand, deref(l.Brand))
			assert.Equal(t, tc.year, deref(l.Year))
		})
	}
}

func TestExtract_Price(t *testing.T) {
	cases := []struct {
		raw  string
		want any
	}{
		{raw: "5 000 000\u00a0F CFA", want: "5000000"},
		{raw: "5\u202f000\u202f000 F CFA", want: "5000000"},
		{raw: "  750000 F CFA  ", want: "750000"},
		{raw: "Prix sur demande", want: "Prix sur demande"},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			l, err := Extract(parseCard(t, card{title: "Renault Clio 2015", price: tc.raw}))
			require.NoError(t, err)
			assert.Equal(t, tc.want, deref(l.Price))
		})
	}

	l, err := Extract(parseCard(t, card{title: "Renault Clio 2015"}))
	require.NoError(t, err)
	assert.Nil(t, l.Price)
}

func TestExtract_AddressNeedsBothParts(t *testing.T) {
	l, err := Extract(parseCard(t, card{title: "Ford Focus", suburb: "Almadies"}))
	require.NoError(t, err)
	assert.Nil(t, l.Address)

	l, err = Extract(parseCard(t, card{title: "Ford Focus", province: "Thiès"}))
	require.NoError(t, err)
	assert.Nil(t, l.Address)
}

func TestExtract_Chips(t *testing.T) {
	l, err := Extract(parseCard(t, card{
		title: "Nissan Patrol 2012",
		chips: []string{"Diesel", "Manual", "80 000 km", "Essence", "Automatique"},
	}))
	require.NoError(t, err)

	assert.Equal(t, "80000", deref(l.Mileage))
	assert.Equal(t, "Manual", deref(l.Transmission))
	assert.Equal(t, "Diesel", deref(l.Fuel))
}

func TestExtract_MissingOptionalElements(t *testing.T) {
	l, err := Extract(parseCard(t, card{title: "Yamaha"}))
	require.NoError(t, err)

	assert.Equal(t, "Yamaha", deref(l.Brand))
	assert.Nil(t, l.Price)
	assert.Nil(t, l.Address)
	assert.Nil(t, l.Mileage)
	assert.Nil(t, l.Transmission)
	assert.Nil(t, l.Fuel)
	assert.Nil(t, l.Owner)
}

func TestExtract_Owner(t *testing.T) {
	for _, raw := range []string{"Par Garage Ndiaye", "By Garage Ndiaye", "  Garage\u00a0Ndiaye "} {
		l, err := Extract(parseCard(t, card{title: "BMW X5", owner: raw}))
		require.NoError(t, err)
		assert.Equal(t, "Garage Ndiaye", deref(l.Owner), raw)
	}
}

func TestExtract_NoTitleHeaderIsSkipped(t *testing.T) {
	_, err := Extract(parseCard(t, card{noHeader: true, price: "1 000 F CFA"}))
	require.ErrorIs(t, err, ErrNoTitle)
}

func TestExtract_HeaderWithoutAnchorKeepsOtherFields(t *testing.T) {
	l, err := Extract(parseCard(t, card{noAnchor: true, price: "1 000 F CFA", owner: "Par Moussa"}))
	require.NoError(t, err)

	assert.Nil(t, l.Brand)
	assert.Nil(t, l.Year)
	assert.Equal(t, "1000", deref(l.Price))
	assert.Equal(t, "Moussa", deref(l.Owner))
}

func TestNormalizeSpace_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"  plain  text ",
		"5\u202f000\u00a0F CFA",
		"\u2009thin\u2009space\u2009",
		"tabs\tand\nnewlines",
		"Sacré Coeur",
	}
	for _, in := range inputs {
		once := NormalizeSpace(in)
		assert.Equal(t, once, NormalizeSpace(once), "input %q", in)
		assert.NotContains(t, once, "\u00a0")
		assert.NotContains(t, once, "\u202f")
	}
	assert.Equal(t, "5 000 F CFA", NormalizeSpace("5\u202f000\u00a0F CFA"))
}
