package remote

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
)

// RecordStore writes incident records to a remote Postgres table keyed
// by incident ID. Inserts are idempotent via ON CONFLICT DO NOTHING, so
// replaying a publish for the same incident never duplicates a record.
type RecordStore struct {
	db    *sql.DB
	table string
}

func NewRecordStore(db *sql.DB, table string) *RecordStore {
	return &RecordStore{db: db, table: table}
}

// Insert stores one incident row. Coordinates travel as text and the
// freshly created record always starts in status NEW; state transitions
// are the dashboard's concern.
func (r *RecordStore) Insert(ctx context.Context, incident *domain.Incident, evidenceURL, deviceID string) error {
	sm := incident.Sample
	pos := sm.Position

	query := fmt.Sprintf(`INSERT INTO %s
		(incident_id, ts, latitude, longitude, altitude, pm25, gas_resistance,
		 temperature, fire_confidence, fire_source, severity,
		 gps_satellites, gps_fix_type, evidence_url, status, device_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (incident_id) DO NOTHING`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		incident.ID,
		sm.CapturedAt.Format(time.RFC3339),
		strconv.FormatFloat(pos.Latitude, 'f', 7, 64),
		strconv.FormatFloat(pos.Longitude, 'f', 7, 64),
		strconv.FormatFloat(pos.Altitude, 'f', 1, 64),
		sm.ParticulateUgM3,
		int(sm.GasResistanceOhm),
		round(sm.TemperatureC, 2),
		round(sm.VisionConfidence, 3),
		incident.CombinedLabel(),
		incident.Severity.String(),
		pos.Satellites,
		pos.FixQuality,
		evidenceURL,
		"NEW",
		deviceID,
	)
	if err != nil {
		return fmt.Errorf("insert incident record: %w", err)
	}
	return nil
}

func round(v float64, places int) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return f
}
