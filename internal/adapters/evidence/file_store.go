// Package evidence persists accepted incidents to local durable storage:
// a JPEG snapshot per incident plus one row in an append-only CSV flight
// log. A successful Persist is the durability boundary of the pipeline;
// the incident must survive a process crash once it returns.
package evidence

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

// header matches the flight-log schema consumed by the dashboard.
var header = []string{
	"timestamp", "latitude", "longitude", "altitude", "pm25",
	"gas_resistance", "temperature", "fire_confidence",
	"fire_source", "severity", "gps_satellites", "gps_fix_type", "evidence_url",
}

const imageTimeLayout = "20060102_150405"
const rowTimeLayout = "2006-01-02 15:04:05"

type FileStore struct {
	mu       sync.Mutex
	imageDir string
	logPath  string
	log      *os.File
	writer   *csv.Writer
}

// NewFileStore opens (creating if needed) the evidence image directory
// and the CSV flight log. The header row is written when the log is new
// or empty.
func NewFileStore(imageDir, logPath string) (*FileStore, error) {
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return nil, &ports.StorageError{Op: "mkdir evidence dir", Err: err}
	}
	if dir := filepath.Dir(logPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &ports.StorageError{Op: "mkdir log dir", Err: err}
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, &ports.StorageError{Op: "open flight log", Err: err}
	}

	s := &FileStore{
		imageDir: imageDir,
		logPath:  logPath,
		log:      f,
		writer:   csv.NewWriter(f),
	}
	if err := s.ensureHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *FileStore) ensureHeader() error {
	stat, err := s.log.Stat()
	if err != nil {
		return &ports.StorageError{Op: "stat flight log", Err: err}
	}
	if stat.Size() > 0 {
		return nil
	}
	if err := s.writer.Write(header); err != nil {
		return &ports.StorageError{Op: "write header", Err: err}
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return &ports.StorageError{Op: "flush header", Err: err}
	}
	return s.syncLog()
}

// Persist writes the frame snapshot, fills in EvidenceImageRef, and
// appends the incident row. Both writes are synced to disk before
// Persist returns; any failure is reported as a *ports.StorageError and
// the row is not considered logged.
func (s *FileStore) Persist(incident *domain.Incident, frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	imgPath, err := s.writeImage(incident, frame)
	if err != nil {
		return err
	}
	incident.EvidenceImageRef = imgPath

	if err := s.writer.Write(s.row(incident)); err != nil {
		return &ports.StorageError{Op: "append row", Err: err}
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return &ports.StorageError{Op: "flush row", Err: err}
	}
	return s.syncLog()
}

// writeImage stores the frame under a name derived from the capture
// timestamp at second resolution. Two incidents in the same second get
// deterministic monotonically increasing suffixes instead of
// overwriting each other.
func (s *FileStore) writeImage(incident *domain.Incident, frame []byte) (string, error) {
	base := "evid_" + incident.Sample.CapturedAt.Format(imageTimeLayout)

	for n := 0; ; n++ {
		name := base + ".jpg"
		if n > 0 {
			name = fmt.Sprintf("%s_%d.jpg", base, n)
		}
		path := filepath.Join(s.imageDir, name)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", &ports.StorageError{Op: "create evidence image", Err: err}
		}

		if _, err := f.Write(frame); err != nil {
			f.Close()
			return "", &ports.StorageError{Op: "write evidence image", Err: err}
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return "", &ports.StorageError{Op: "sync evidence image", Err: err}
		}
		if err := f.Close(); err != nil {
			return "", &ports.StorageError{Op: "close evidence image", Err: err}
		}
		return path, nil
	}
}

func (s *FileStore) row(incident *domain.Incident) []string {
	sm := incident.Sample
	pos := sm.Position
	return []string{
		sm.CapturedAt.Format(rowTimeLayout),
		strconv.FormatFloat(pos.Latitude, 'f', 7, 64),
		strconv.FormatFloat(pos.Longitude, 'f', 7, 64),
		strconv.FormatFloat(pos.Altitude, 'f', 1, 64),
		strconv.Itoa(sm.ParticulateUgM3),
		strconv.FormatFloat(sm.GasResistanceOhm, 'f', 0, 64),
		strconv.FormatFloat(sm.TemperatureC, 'f', 2, 64),
		strconv.FormatFloat(sm.VisionConfidence, 'f', 3, 64),
		incident.CombinedLabel(),
		incident.Severity.String(),
		strconv.Itoa(pos.Satellites),
		strconv.Itoa(pos.FixQuality),
		incident.EvidenceImageRef,
	}
}

func (s *FileStore) syncLog() error {
	if err := s.log.Sync(); err != nil {
		return &ports.StorageError{Op: "sync flight log", Err: err}
	}
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer.Flush()
	return s.log.Close()
}

var _ ports.EvidenceStore = (*FileStore)(nil)
