package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrColumnMismatch  = errors.New("row does not match schema columns")
)

// PagePlaceholder is substituted with the page number in endpoint templates.
const PagePlaceholder = "{page}"

var (
	leadingFields  = []Field{FieldBrand, FieldYear, FieldPrice, FieldAddress}
	optionalFields = []Field{FieldMileage, FieldTransmission, FieldFuel}
)

// CategorySchema describes one category: where its pages live and which
// columns its rows carry. Columns must not change during a run.
type CategorySchema struct {
	Name     string
	Endpoint string
	Columns  []Field
}

// NewCategorySchema builds a schema whose columns are the leading fields,
// the given optional fields in canonical order, and owner.
func NewCategorySchema(name, endpoint string, optional ...Field) CategorySchema {
	wanted := make(map[Field]bool, len(optional))
	for _, f := range optional {
		wanted[f.Canonical()] = true
	}

	columns := append([]Field{}, leadingFields...)
	for _, f := range optionalFields {
		if wanted[f] {
			columns = append(columns, f)
		}
	}
	columns = append(columns, FieldOwner)

	return CategorySchema{Name: name, Endpoint: endpoint, Columns: columns}
}

// Has reports whether the schema defines a column for f.
func (s CategorySchema) Has(f Field) bool {
	f = f.Canonical()
	for _, c := range s.Columns {
		if c.Canonical() == f {
			return true
		}
	}
	return false
}

// PageURL substitutes page into the endpoint template.
func (s CategorySchema) PageURL(page int) string {
	return strings.ReplaceAll(s.Endpoint, PagePlaceholder, strconv.Itoa(page))
}

// Assemble builds the row for one listing. A row that does not line up
// with the schema columns is rejected with ErrColumnMismatch.
func (s CategorySchema) Assemble(l Listing) (Record, error) {
	row := Record{l.Brand, l.Year, l.Price, l.Address}
	for _, f := range optionalFields {
		if !s.Has(f) {
			continue
		}
		v, _ := l.Value(f)
		row = append(row, v)
	}
	row = append(row, l.Owner)

	if len(row) != len(s.Columns) {
		return nil, fmt.Errorf("%w: category %s has %d columns, row has %d",
			ErrColumnMismatch, s.Name, len(s.Columns), len(row))
	}
	return row, nil
}

func (s CategorySchema) validate() error {
	if s.Name == "" {
		return errors.New("schema has no name")
	}
	if !strings.Contains(s.Endpoint, PagePlaceholder) {
		return fmt.Errorf("schema %s: endpoint %q has no %s placeholder", s.Name, s.Endpoint, PagePlaceholder)
	}
	if len(s.Columns) < len(leadingFields)+1 {
		return fmt.Errorf("schema %s: too few columns", s.Name)
	}
	for i, f := range leadingFields {
		if s.Columns[i] != f {
			return fmt.Errorf("schema %s: column %d is %q, want %q", s.Name, i, s.Columns[i], f)
		}
	}
	if s.Columns[len(s.Columns)-1] != FieldOwner {
		return fmt.Errorf("schema %s: last column must be %q", s.Name, FieldOwner)
	}
	return nil
}

// Registry is the fixed set of categories known to the scraper.
type Registry struct {
	order  []string
	byName map[string]CategorySchema
}

func NewRegistry(schemas ...CategorySchema) (*Registry, error) {
	r := &Registry{byName: make(map[string]CategorySchema, len(schemas))}
	for _, s := range schemas {
		if err := s.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", s.Name)
		}
		r.byName[s.Name] = s
		r.order = append(r.order, s.Name)
	}
	return r, nil
}

// DefaultRegistry returns the cars, motorcycles and rentals schemas rooted at baseURL.
func DefaultRegistry(baseURL string) *Registry {
	base := strings.TrimRight(baseURL, "/")
	r, err := NewRegistry(
		NewCategorySchema("cars", base+"/senegal/voitures-4?&page="+PagePlaceholder,
			FieldMileage, FieldTransmission, FieldFuel),
		NewCategorySchema("motorcycles", base+"/senegal/motos-and-scooters-3?&page="+PagePlaceholder,
			FieldMileage),
		NewCategorySchema("rentals", base+"/senegal/location-de-voitures-19?&page="+PagePlaceholder),
	)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(name string) (CategorySchema, error) {
	s, ok := r.byName[name]
	if !ok {
		return CategorySchema{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return s, nil
}

// Names returns category names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
