package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chantier/backend/internal/domain/quote"
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// quoteTotalHT computes a quote's HT total from its persisted lines. Used by
// amount range filters and the dashboard sums, which must not load every
// aggregate into memory.
const quoteTotalHT = "(SELECT COALESCE(SUM(quote_lines.montant_ht), 0) FROM quote_lines " +
	"JOIN quote_lots ON quote_lines.lot_id = quote_lots.id " +
	"WHERE quote_lots.quote_id = quotes.id)"

// GormQuoteRepository implements QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by ID with its lots, lines and cost entries
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	var q quote.Quote
	if err := r.preloaded(ctx).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByNumber finds a quote by its number
func (r *GormQuoteRepository) FindByNumber(ctx context.Context, number string) (*quote.Quote, error) {
	var q quote.Quote
	if err := r.preloaded(ctx).Where("number = ?", number).First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// ExistsByNumber checks if a quote number is already taken
func (r *GormQuoteRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&quote.Quote{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search finds quotes matching the filter, paginated. The result carries the
// full aggregate of each match so callers can derive totals.
func (r *GormQuoteRepository) Search(ctx context.Context, filter quote.SearchFilter) ([]quote.Quote, error) {
	var quotes []quote.Quote
	query := r.applyFilter(r.preloaded(ctx).Model(&quote.Quote{}), filter)

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Count counts quotes matching the same filter set as Search
func (r *GormQuoteRepository) Count(ctx context.Context, filter quote.SearchFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&quote.Quote{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns per-status quote counts
func (r *GormQuoteRepository) CountByStatus(ctx context.Context) (map[quote.QuoteStatus]int64, error) {
	var rows []struct {
		Status quote.QuoteStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&quote.Quote{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[quote.QuoteStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// SumHTByStatus returns per-status HT totals
func (r *GormQuoteRepository) SumHTByStatus(ctx context.Context) (map[quote.QuoteStatus]decimal.Decimal, error) {
	var rows []struct {
		Status quote.QuoteStatus
		Total  decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&quote.Quote{}).
		Select("status, COALESCE(SUM("+quoteTotalHT+"), 0) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[quote.QuoteStatus]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Status] = row.Total
	}
	return sums, nil
}

// Save creates or updates a quote with its lots, lines and cost entries.
// Children removed from the aggregate are deleted so the persisted tree
// always mirrors the in-memory one.
func (r *GormQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lots").Save(q).Error; err != nil {
			return err
		}

		lotIDs := make([]uuid.UUID, len(q.Lots))
		for i := range q.Lots {
			lotIDs[i] = q.Lots[i].ID
		}
		if err := deleteOrphans(tx, &quote.QuoteLot{}, "quote_id = ?", q.ID, lotIDs); err != nil {
			return err
		}

		for i := range q.Lots {
			lot := &q.Lots[i]
			lot.QuoteID = q.ID
			if err := tx.Omit("Lines").Save(lot).Error; err != nil {
				return err
			}

			lineIDs := make([]uuid.UUID, len(lot.Lines))
			for j := range lot.Lines {
				lineIDs[j] = lot.Lines[j].ID
			}
			if err := deleteOrphans(tx, &quote.QuoteLine{}, "lot_id = ?", lot.ID, lineIDs); err != nil {
				return err
			}

			for j := range lot.Lines {
				line := &lot.Lines[j]
				line.LotID = lot.ID
				if err := tx.Omit("CostEntries").Save(line).Error; err != nil {
					return err
				}

				entryIDs := make([]uuid.UUID, len(line.CostEntries))
				for k := range line.CostEntries {
					entryIDs[k] = line.CostEntries[k].ID
				}
				if err := deleteOrphans(tx, &quote.CostEntry{}, "line_id = ?", line.ID, entryIDs); err != nil {
					return err
				}

				for k := range line.CostEntries {
					line.CostEntries[k].LineID = line.ID
					if err := tx.Save(&line.CostEntries[k]).Error; err != nil {
						return err
					}
				}
			}
		}

		return nil
	})
}

// GenerateNumber generates the next quote number for the current year,
// DEV-<year>-<sequence> with a zero-padded three digit sequence.
func (r *GormQuoteRepository) GenerateNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("DEV-%d-", time.Now().Year())

	var last string
	err := r.db.WithContext(ctx).
		Model(&quote.Quote{}).
		Select("number").
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		seq, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("malformed quote number %q: %w", last, err)
		}
		next = seq + 1
	}

	return fmt.Sprintf("%s%03d", prefix, next), nil
}

func (r *GormQuoteRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Lots", func(db *gorm.DB) *gorm.DB { return db.Order("quote_lots.code ASC") }).
		Preload("Lots.Lines", func(db *gorm.DB) *gorm.DB { return db.Order("quote_lines.created_at ASC") }).
		Preload("Lots.Lines.CostEntries")
}

func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter quote.SearchFilter) *gorm.DB {
	if filter.ClientName != "" {
		query = query.Where("LOWER(client_name) LIKE ?", "%"+strings.ToLower(filter.ClientName)+"%")
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("quotes.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("quotes.created_at <= ?", *filter.CreatedTo)
	}
	if filter.MinHT != nil {
		query = query.Where(quoteTotalHT+" >= ?", *filter.MinHT)
	}
	if filter.MaxHT != nil {
		query = query.Where(quoteTotalHT+" <= ?", *filter.MaxHT)
	}
	if filter.CommercialID != nil {
		query = query.Where("commercial_id = ?", *filter.CommercialID)
	}
	if filter.ConducteurID != nil {
		query = query.Where("conducteur_id = ?", *filter.ConducteurID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(number) LIKE ? OR LOWER(client_name) LIKE ? OR LOWER(object) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	return query
}

// deleteOrphans removes child rows of a parent that are no longer part of the
// aggregate being saved.
func deleteOrphans(tx *gorm.DB, model interface{}, parentCond string, parentID uuid.UUID, keep []uuid.UUID) error {
	if len(keep) > 0 {
		return tx.Where(parentCond+" AND id NOT IN ?", parentID, keep).Delete(model).Error
	}
	return tx.Where(parentCond, parentID).Delete(model).Error
}

// Ensure GormQuoteRepository implements QuoteRepository
var _ quote.QuoteRepository = (*GormQuoteRepository)(nil)
