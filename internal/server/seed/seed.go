// Package seed loads the paint catalog from a JSON file, either local or in
// S3-compatible object storage, and upserts it into the paints table.
package seed

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// Record is one catalog entry in the seed file.
type Record struct {
	Brand     string `json:"brand" validate:"required,max=64"`
	Range     string `json:"range" validate:"required,max=64"`
	Name      string `json:"name" validate:"required,max=128"`
	Hex       string `json:"hex" validate:"required"`
	PaintType string `json:"paint_type" validate:"max=32"`
}

// Result counts rows written by Apply.
type Result struct {
	Inserted int
	Updated  int
}

var validate = validator.New()

// Parse decodes a JSON array of records and validates every entry. The first
// invalid record aborts the whole file.
func Parse(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, common.NewValidationError("invalid seed file: %v", err)
	}

	for i := range records {
		r := &records[i]
		r.Brand = strings.TrimSpace(r.Brand)
		r.Range = strings.TrimSpace(r.Range)
		r.Name = strings.TrimSpace(r.Name)
		r.Hex = strings.TrimSpace(r.Hex)

		if err := validate.Struct(r); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return nil, common.NewValidationError("record %d: field %s failed %q", i, verrs[0].Field(), verrs[0].Tag())
			}
			return nil, err
		}
		if !models.ValidHex(r.Hex) {
			return nil, common.NewValidationError("record %d: invalid hex %q", i, r.Hex)
		}
	}
	return records, nil
}

type Seeder struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSeeder(db *sql.DB, m repomanager.RepositoryManager) *Seeder {
	return &Seeder{db: db, repomanager: m}
}

// Apply upserts records on (brand, range, name) in a single transaction.
func (s *Seeder) Apply(ctx context.Context, records []Record) (Result, error) {
	var res Result
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Paints(tx)
		for _, r := range records {
			p := &models.Paint{Brand: r.Brand, Range: r.Range, Name: r.Name, Hex: r.Hex, PaintType: r.PaintType}
			inserted, err := repo.Upsert(ctx, p)
			if err != nil {
				return fmt.Errorf("upsert %s/%s/%s: %w", r.Brand, r.Range, r.Name, err)
			}
			if inserted {
				res.Inserted++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
