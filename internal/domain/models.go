// Package domain holds the publication model shared by the ingestion
// pipeline, the cache store, and the management API.
package domain

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Publication is one catalog entry resolved from the feed.
//
// Title and ISBNs carry normalization rules; use SetTitle and SetISBNs
// instead of assigning the fields directly.
type Publication struct {
	ID          int         `json:"id" db:"id"`
	OCLCNumber  string      `json:"oclc_number" db:"oclc"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description,omitempty" db:"description"`
	Authors     []string    `json:"authors"`
	ISBNs       []string    `json:"isbns"`
	CoverImage  image.Image `json:"-"`
}

// SetTitle stores the title in title case regardless of source casing.
// The caser is built per call: cases.Caser carries internal transform
// state and must not be shared across the concurrent resolver tasks.
func (p *Publication) SetTitle(title string) {
	p.Title = cases.Title(language.AmericanEnglish).String(title)
}

// SetAuthors stores the credited authors, primary author first.
// Blank entries are dropped so a record with no 100 field yields a
// list that starts at the first added entry.
func (p *Publication) SetAuthors(primary string, added []string) {
	authors := make([]string, 0, len(added)+1)
	if strings.TrimSpace(primary) != "" {
		authors = append(authors, primary)
	}
	for _, a := range added {
		if strings.TrimSpace(a) != "" {
			authors = append(authors, a)
		}
	}
	p.Authors = authors
}

// SetISBNs stores the ISBN list with each value truncated at its first
// whitespace, dropping qualifier text such as "(pbk.)". Blank source
// values are dropped.
func (p *Publication) SetISBNs(isbns []string) {
	cleaned := make([]string, 0, len(isbns))
	for _, isbn := range isbns {
		fields := strings.Fields(isbn)
		if len(fields) == 0 {
			continue
		}
		cleaned = append(cleaned, fields[0])
	}
	p.ISBNs = cleaned
}

// AuthorLine returns the credited authors joined for display.
func (p *Publication) AuthorLine() string {
	return strings.Join(p.Authors, ", ")
}

func (p *Publication) String() string {
	isbn := ""
	if len(p.ISBNs) > 0 {
		isbn = p.ISBNs[0]
	}
	return fmt.Sprintf("Publication<Title: %s, ISBN: %s>", p.Title, isbn)
}
