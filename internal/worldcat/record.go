package worldcat

import (
	"encoding/xml"
	"fmt"
	"io"
)

// FieldTag is a MARC numeric field designator.
type FieldTag string

// Field tags consumed by the resolver.
const (
	TagTitle       FieldTag = "245"
	TagISBN        FieldTag = "020"
	TagAuthor      FieldTag = "100"
	TagAddedAuthor FieldTag = "700"
	TagAbstract    FieldTag = "520"
)

// Record is a bibliographic record with its datafields indexed by tag.
// The index is built once when the record is parsed; lookups after that
// are plain map reads against known tags.
type Record struct {
	fields map[FieldTag][]string
}

type xmlRecord struct {
	Datafields []xmlDatafield `xml:"datafield"`
}

type xmlDatafield struct {
	Tag       string        `xml:"tag,attr"`
	Subfields []xmlSubfield `xml:"subfield"`
}

type xmlSubfield struct {
	Value string `xml:",chardata"`
}

// ParseRecord decodes a MARC-XML record and builds the tag index. Each
// datafield contributes the value of its first subfield, matching the
// upstream record layout where subfield "a" leads.
func ParseRecord(r io.Reader) (*Record, error) {
	var doc xmlRecord
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}

	fields := make(map[FieldTag][]string, len(doc.Datafields))
	for _, df := range doc.Datafields {
		if len(df.Subfields) == 0 {
			continue
		}
		tag := FieldTag(df.Tag)
		fields[tag] = append(fields[tag], df.Subfields[0].Value)
	}
	return &Record{fields: fields}, nil
}

// First returns the first value of a singular field, or "" when the
// record has no such field.
func (r *Record) First(tag FieldTag) string {
	values := r.fields[tag]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// All returns every value of a repeatable field, in record order.
func (r *Record) All(tag FieldTag) []string {
	return r.fields[tag]
}
