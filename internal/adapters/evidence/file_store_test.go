package evidence

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
)

func testIncident(at time.Time) *domain.Incident {
	return &domain.Incident{
		ID: "a4f7c2d0-0000-0000-0000-000000000001",
		Sample: domain.SensorSample{
			VisionConfidence: 0.652,
			ParticulateUgM3:  120,
			GasResistanceOhm: 70000,
			TemperatureC:     31.04,
			Position: domain.Position{
				Latitude:   18.5351612,
				Longitude:  73.8113405,
				Altitude:   120.5,
				Satellites: 9,
				FixQuality: 2,
			},
			CapturedAt: at,
		},
		Kind:        domain.ActiveFire,
		SourceLabel: "Wood/Biomass Fire",
		Severity:    domain.SeverityHigh,
	}
}

func readLog(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestNewFileStoreWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "flight_log.csv")

	s, err := NewFileStore(filepath.Join(dir, "evidence"), logPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening an existing log must not duplicate the header.
	s2, err := NewFileStore(filepath.Join(dir, "evidence"), logPath)
	require.NoError(t, err)
	defer s2.Close()

	rows := readLog(t, logPath)
	require.Len(t, rows, 1)
	require.Equal(t, header, rows[0])
}

func TestPersistAppendsRowInColumnOrder(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "evidence"), filepath.Join(dir, "flight_log.csv"))
	require.NoError(t, err)
	defer s.Close()

	at := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	inc := testIncident(at)
	require.NoError(t, s.Persist(inc, []byte("\xff\xd8jpeg")))

	require.NotEmpty(t, inc.EvidenceImageRef)
	img, err := os.ReadFile(inc.EvidenceImageRef)
	require.NoError(t, err)
	require.Equal(t, []byte("\xff\xd8jpeg"), img)

	rows := readLog(t, filepath.Join(dir, "flight_log.csv"))
	require.Len(t, rows, 2)
	row := rows[1]
	require.Equal(t, "2025-03-14 10:00:00", row[0])
	require.Equal(t, "18.5351612", row[1])
	require.Equal(t, "73.8113405", row[2])
	require.Equal(t, "120.5", row[3])
	require.Equal(t, "120", row[4])
	require.Equal(t, "70000", row[5])
	require.Equal(t, "31.04", row[6])
	require.Equal(t, "0.652", row[7])
	require.Equal(t, "ACTIVE_FIRE: Wood/Biomass Fire", row[8])
	require.Equal(t, "HIGH", row[9])
	require.Equal(t, "9", row[10])
	require.Equal(t, "2", row[11])
	require.Equal(t, inc.EvidenceImageRef, row[12])
}

func TestPersistDisambiguatesSameSecondSnapshots(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "evidence"), filepath.Join(dir, "flight_log.csv"))
	require.NoError(t, err)
	defer s.Close()

	at := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	first := testIncident(at)
	second := testIncident(at.Add(200 * time.Millisecond))

	require.NoError(t, s.Persist(first, []byte("one")))
	require.NoError(t, s.Persist(second, []byte("two")))

	require.NotEqual(t, first.EvidenceImageRef, second.EvidenceImageRef)
	require.Equal(t, filepath.Join(dir, "evidence", "evid_20250314_100000.jpg"), first.EvidenceImageRef)
	require.Equal(t, filepath.Join(dir, "evidence", "evid_20250314_100000_1.jpg"), second.EvidenceImageRef)

	one, err := os.ReadFile(first.EvidenceImageRef)
	require.NoError(t, err)
	require.Equal(t, []byte("one"), one)
}

func TestPersistSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "flight_log.csv")

	s, err := NewFileStore(filepath.Join(dir, "evidence"), logPath)
	require.NoError(t, err)
	at := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Persist(testIncident(at), []byte("jpeg")))
	require.NoError(t, s.Close())

	s2, err := NewFileStore(filepath.Join(dir, "evidence"), logPath)
	require.NoError(t, err)
	require.NoError(t, s2.Persist(testIncident(at.Add(10*time.Second)), []byte("jpeg")))
	require.NoError(t, s2.Close())

	rows := readLog(t, logPath)
	require.Len(t, rows, 3)
}
