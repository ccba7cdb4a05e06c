package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tripplanner/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valLat(c *domain.Coords) any {
	if c == nil {
		return nil
	}
	return c.Lat
}

func valLng(c *domain.Coords) any {
	if c == nil {
		return nil
	}
	return c.Lng
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// SaveItinerary stores the full itinerary as a JSON document plus one row per
// segment, replacing any previous snapshot with the same id.
func (r *Repo) SaveItinerary(ctx context.Context, it domain.Itinerary) error {
	doc, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encode itinerary %s: %w", it.ID, err)
	}
	start, err := time.Parse("2006-01-02", it.StartDate)
	if err != nil {
		return fmt.Errorf("itinerary %s: bad start date %q: %w", it.ID, it.StartDate, err)
	}
	hotel := ""
	if it.Hotel != nil {
		hotel = it.Hotel.Name
	}
	created := it.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertItinerarySQL,
		it.ID,
		it.Destination,
		start,
		len(it.Days),
		string(it.Energy),
		string(it.SpendingStyle),
		valStr(hotel),
		it.Compliance.Score,
		len(it.Violations),
		string(doc),
		created,
	); err != nil {
		return fmt.Errorf("upsert itinerary %s: %w", it.ID, err)
	}
	if _, err := tx.ExecContext(ctx, deleteSegmentsSQL, it.ID); err != nil {
		return fmt.Errorf("clear segments %s: %w", it.ID, err)
	}

	var values []string
	var args []any // 10 params per row
	for d, day := range it.Days {
		for p, s := range day.Segments {
			values = append(values, "(?,?,?,?,?,?,?,?,?,?)")
			args = append(args,
				it.ID,
				d+1,
				p,
				s.Name,
				string(s.Category),
				valStr(string(s.Meal)),
				s.DurationMin,
				s.TravelTimeMin,
				valLat(s.Coords),
				valLng(s.Coords),
			)
		}
	}
	if len(values) > 0 {
		if _, err := tx.ExecContext(ctx, insertSegmentsPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert segments %s: %w", it.ID, err)
		}
	}
	return tx.Commit()
}

func (r *Repo) GetItinerary(ctx context.Context, id string) (domain.Itinerary, error) {
	var doc []byte
	if err := r.db.QueryRowContext(ctx, getItinerarySQL, id).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Itinerary{}, domain.ErrNotFound
		}
		return domain.Itinerary{}, err
	}
	var it domain.Itinerary
	if err := json.Unmarshal(doc, &it); err != nil {
		return domain.Itinerary{}, fmt.Errorf("decode itinerary %s: %w", id, err)
	}
	return it, nil
}

func (r *Repo) ListItineraries(ctx context.Context, q domain.ItineraryQuery) ([]domain.ItinerarySummary, error) {
	rows, err := r.db.QueryContext(ctx, listItinerariesSQL, q.Destination, q.Destination, q.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ItinerarySummary{}
	for rows.Next() {
		var (
			s      domain.ItinerarySummary
			start  time.Time
			energy string
			hotel  sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Destination, &start, &s.Days, &energy, &hotel, &s.ComplianceScore, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.StartDate = start.Format("2006-01-02")
		s.Energy = domain.Energy(energy)
		if hotel.Valid {
			s.HotelName = hotel.String
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
