package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"image"
	"image/png"

	"github.com/cesargomez89/bookwall/internal/domain"
)

type publicationRow struct {
	ID          int            `db:"id"`
	OCLC        string         `db:"oclc"`
	Title       string         `db:"title"`
	ISBNs       sql.NullString `db:"isbns"`
	Description sql.NullString `db:"description"`
	Cover       []byte         `db:"cover"`
}

type authorRow struct {
	ID     int    `db:"id"`
	Author string `db:"author"`
}

// Refresh replaces the entire store contents with the given
// publications: both tables are emptied, then one row per publication
// is inserted with ids 0..n-1 in input order, plus one authors row per
// author occurrence. The replace runs in a single transaction so
// readers never observe a half-repopulated store.
func (db *DB) Refresh(pubs []domain.Publication) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin refresh: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec("DELETE FROM publications"); err != nil {
		return fmt.Errorf("failed to clear publications: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM authors"); err != nil {
		return fmt.Errorf("failed to clear authors: %w", err)
	}

	for i, pub := range pubs {
		isbns, err := json.Marshal(pub.ISBNs)
		if err != nil {
			return fmt.Errorf("failed to encode isbns for %s: %w", pub.OCLCNumber, err)
		}

		_, err = tx.Exec(
			`INSERT INTO publications (id, oclc, title, isbns, description, cover) VALUES (?, ?, ?, ?, ?, ?)`,
			i,
			pub.OCLCNumber,
			pub.Title,
			string(isbns),
			sql.NullString{String: pub.Description, Valid: pub.Description != ""},
			encodeCover(pub.CoverImage),
		)
		if err != nil {
			return fmt.Errorf("failed to insert publication %s: %w", pub.OCLCNumber, err)
		}

		for _, author := range pub.Authors {
			if _, err := tx.Exec(`INSERT INTO authors (id, author) VALUES (?, ?)`, i, author); err != nil {
				return fmt.Errorf("failed to insert author for %s: %w", pub.OCLCNumber, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit refresh: %w", err)
	}
	return nil
}

// ReadAll returns every persisted publication in refresh order with its
// authors reattached. A cover blob that fails to decode yields a
// publication with no cover rather than an error.
func (db *DB) ReadAll() ([]domain.Publication, error) {
	var rows []publicationRow
	if err := db.Select(&rows, `SELECT id, oclc, title, isbns, description, cover FROM publications ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to read publications: %w", err)
	}

	authorsByID, err := db.readAuthors()
	if err != nil {
		return nil, err
	}

	pubs := make([]domain.Publication, 0, len(rows))
	for _, row := range rows {
		pub := domain.Publication{
			ID:          row.ID,
			OCLCNumber:  row.OCLC,
			Title:       row.Title,
			Description: row.Description.String,
			Authors:     authorsByID[row.ID],
			CoverImage:  decodeCover(row.Cover),
		}
		if row.ISBNs.Valid {
			_ = json.Unmarshal([]byte(row.ISBNs.String), &pub.ISBNs)
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

// ReadCover returns the encoded cover blob for one resequenced id.
func (db *DB) ReadCover(id int) ([]byte, error) {
	var cover []byte
	if err := db.Get(&cover, `SELECT cover FROM publications WHERE id = ?`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cover %d: %w", id, err)
	}
	return cover, nil
}

// Count returns the number of persisted publications.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM publications`); err != nil {
		return 0, fmt.Errorf("failed to count publications: %w", err)
	}
	return n, nil
}

func (db *DB) readAuthors() (map[int][]string, error) {
	var rows []authorRow
	if err := db.Select(&rows, `SELECT id, author FROM authors ORDER BY rowid`); err != nil {
		return nil, fmt.Errorf("failed to read authors: %w", err)
	}

	byID := make(map[int][]string)
	for _, row := range rows {
		byID[row.ID] = append(byID[row.ID], row.Author)
	}
	return byID, nil
}

// encodeCover serializes a cover to a PNG blob. A publication without a
// cover stores an empty blob.
func encodeCover(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// decodeCover deserializes a stored cover blob. Decode failures are
// treated as no cover.
func decodeCover(blob []byte) image.Image {
	if len(blob) == 0 {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil
	}
	return img
}
