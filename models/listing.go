package models

// Field names one column of the universal output field set.
type Field string

const (
	FieldBrand        Field = "brand"
	FieldYear         Field = "year"
	FieldPrice        Field = "price"
	FieldAddress      Field = "address"
	FieldMileage      Field = "mileage"
	FieldTransmission Field = "transmission"
	FieldFuel         Field = "fuel"
	FieldOwner        Field = "owner"

	// FieldGearbox is accepted as a schema column name and means FieldTransmission.
	FieldGearbox Field = "gearbox"
)

// UniversalFields is the canonical column order used by every schema and by the combined table.
var UniversalFields = []Field{
	FieldBrand,
	FieldYear,
	FieldPrice,
	FieldAddress,
	FieldMileage,
	FieldTransmission,
	FieldFuel,
	FieldOwner,
}

// Canonical resolves column aliases.
func (f Field) Canonical() Field {
	if f == FieldGearbox {
		return FieldTransmission
	}
	return f
}

// Listing is what the extractor recovered from one advertisement card.
// A nil field means the card did not carry the matching element.
type Listing struct {
	Brand        *string
	Year         *string
	Price        *string
	Address      *string
	Mileage      *string
	Transmission *string
	Fuel         *string
	Owner        *string
}

// Value returns the listing value for f. The boolean is false when f is
// not part of the universal field set.
func (l Listing) Value(f Field) (*string, bool) {
	switch f.Canonical() {
	case FieldBrand:
		return l.Brand, true
	case FieldYear:
		return l.Year, true
	case FieldPrice:
		return l.Price, true
	case FieldAddress:
		return l.Address, true
	case FieldMileage:
		return l.Mileage, true
	case FieldTransmission:
		return l.Transmission, true
	case FieldFuel:
		return l.Fuel, true
	case FieldOwner:
		return l.Owner, true
	}
	return nil, false
}

// Record is one assembled row, aligned one-to-one with a schema's columns.
type Record []*string

// String returns the value at i, or "" when it is null.
func (r Record) String(i int) string {
	if i < 0 || i >= len(r) || r[i] == nil {
		return ""
	}
	return *r[i]
}
