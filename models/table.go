package models

// Termination records why a category's paging loop stopped.
type Termination string

const (
	TerminationPageLimit      Termination = "page_limit"
	TerminationNoListings     Termination = "no_listings"
	TerminationTransportError Termination = "transport_error"
	TerminationCancelled      Termination = "cancelled"
)

type ScrapeStats struct {
	Pages       int
	Listings    int
	Skipped     int
	Discarded   int
	Termination Termination
	// LastStatus is the HTTP status of the page that ended pagination, if any.
	LastStatus int
}

// CategoryTable holds the rows scraped for one category. Every row has
// exactly len(Columns) values.
type CategoryTable struct {
	Category string
	Columns  []Field
	Rows     []Record
	Stats    ScrapeStats
}

type CombinedRow struct {
	Category string
	Values   Record
}

// CombinedTable is the outer-join union of several category tables.
// Values in each row line up with Columns; a category that lacks a
// column gets null there.
type CombinedTable struct {
	Categories []string
	Columns    []Field
	Rows       []CombinedRow
	Stats      map[string]ScrapeStats
}

// Combine merges tables in the given order.
func Combine(tables ...CategoryTable) CombinedTable {
	present := make(map[Field]bool)
	for _, t := range tables {
		for _, c := range t.Columns {
			present[c.Canonical()] = true
		}
	}

	combined := CombinedTable{Stats: make(map[string]ScrapeStats, len(tables))}
	index := make(map[Field]int)
	for _, f := range UniversalFields {
		if present[f] {
			index[f] = len(combined.Columns)
			combined.Columns = append(combined.Columns, f)
		}
	}

	for _, t := range tables {
		combined.Categories = append(combined.Categories, t.Category)
		combined.Stats[t.Category] = t.Stats

		for _, row := range t.Rows {
			values := make(Record, len(combined.Columns))
			for i, c := range t.Columns {
				j, ok := index[c.Canonical()]
				if !ok || i >= len(row) {
					continue
				}
				values[j] = row[i]
			}
			combined.Rows = append(combined.Rows, CombinedRow{Category: t.Category, Values: values})
		}
	}
	return combined
}

// Column returns the position of f in the combined columns, or -1.
func (t CombinedTable) Column(f Field) int {
	f = f.Canonical()
	for i, c := range t.Columns {
		if c == f {
			return i
		}
	}
	return -1
}
