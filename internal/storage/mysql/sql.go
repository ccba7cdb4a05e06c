package mysql

const upsertItinerarySQL = `
INSERT INTO itineraries
  (id, destination, start_date, day_count, energy, spending_style, hotel_name, compliance_score, violations, document, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  destination      = VALUES(destination),
  start_date       = VALUES(start_date),
  day_count        = VALUES(day_count),
  energy           = VALUES(energy),
  spending_style   = VALUES(spending_style),
  hotel_name       = VALUES(hotel_name),
  compliance_score = VALUES(compliance_score),
  violations       = VALUES(violations),
  document         = VALUES(document),
  updated_at       = CURRENT_TIMESTAMP
`

const deleteSegmentsSQL = `DELETE FROM itinerary_segments WHERE itinerary_id = ?`

const insertSegmentsPrefix = "INSERT INTO itinerary_segments\n" +
	"  (itinerary_id, day_no, position, name, category, meal_type, duration_min, travel_time_min, lat, lng)\nVALUES "

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getItinerarySQL = `SELECT document FROM itineraries WHERE id = ?`

const listItinerariesSQL = `
SELECT id, destination, start_date, day_count, energy, hotel_name, compliance_score, created_at
FROM itineraries
WHERE (? = '' OR destination = ?)
ORDER BY created_at DESC, id
LIMIT ?
`
