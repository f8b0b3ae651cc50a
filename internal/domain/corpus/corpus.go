package corpus

import "fmt"

// Record is a single referenceable document (immutable value object).
type Record struct {
	ref      string
	title    string
	titleURL string
}

// NewRecord creates a corpus record. The ref is stored as read; normalization
// happens when the dataset index is built.
func NewRecord(ref, title, titleURL string) Record {
	return Record{ref: ref, title: title, titleURL: titleURL}
}

// Ref returns the raw reference key.
func (r Record) Ref() string { return r.ref }

// Title returns the document title.
func (r Record) Title() string { return r.title }

// TitleURL returns the document URL.
func (r Record) TitleURL() string { return r.titleURL }

// Corpus is an ordered set of records. Row position is the identifier used to
// index into the similarity matrix.
type Corpus struct {
	records []Record
}

// New creates a corpus from records. The slice is copied.
func New(records []Record) Corpus {
	cp := make([]Record, len(records))
	copy(cp, records)
	return Corpus{records: cp}
}

// Len returns the number of records.
func (c Corpus) Len() int { return len(c.records) }

// At returns the record at row i.
func (c Corpus) At(i int) (Record, error) {
	if i < 0 || i >= len(c.records) {
		return Record{}, fmt.Errorf("row %d out of range [0, %d)", i, len(c.records))
	}
	return c.records[i], nil
}

// Each calls fn for every record in row order until fn returns false.
func (c Corpus) Each(fn func(row int, r Record) bool) {
	for i, r := range c.records {
		if !fn(i, r) {
			return
		}
	}
}
