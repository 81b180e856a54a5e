// Package position reads NMEA sentences from a GNSS receiver over a
// serial line and exposes the latest fix as an atomic snapshot.
package position

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"go.bug.st/serial"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
)

// ErrNotGGA is returned by ParseGGA for sentences that are well formed
// NMEA but not a GGA fix report.
var ErrNotGGA = errors.New("position: not a GGA sentence")

// SerialSource owns a serial port carrying an NMEA stream. A background
// goroutine parses GGA sentences as they arrive and publishes the most
// recent fix; Snapshot never blocks on the port.
type SerialSource struct {
	rc   io.ReadCloser
	last atomic.Pointer[domain.Position]

	closeOnce sync.Once
	done      chan struct{}
}

// NewSerialSource opens the named serial port and starts the reader.
func NewSerialSource(portName string, baud int) (*SerialSource, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("position: open %s: %w", portName, err)
	}
	return newSource(port), nil
}

// newSource wires the reader around any byte stream. Tests feed it a
// pipe instead of a real port.
func newSource(rc io.ReadCloser) *SerialSource {
	s := &SerialSource{rc: rc, done: make(chan struct{})}
	go s.run()
	return s
}

func (s *SerialSource) run() {
	defer close(s.done)
	scanner := bufio.NewScanner(s.rc)
	for scanner.Scan() {
		pos, err := ParseGGA(strings.TrimSpace(scanner.Text()))
		if err != nil {
			continue
		}
		s.last.Store(&pos)
	}
}

// Snapshot returns the most recent fix, or a zero Position when no GGA
// sentence has been seen yet.
func (s *SerialSource) Snapshot() domain.Position {
	if p := s.last.Load(); p != nil {
		return *p
	}
	return domain.Position{}
}

// Close shuts the port down and waits for the reader to drain.
func (s *SerialSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.rc.Close()
		<-s.done
	})
	return err
}

// ParseGGA decodes a GGA sentence (any talker, e.g. $GPGGA or $GNGGA)
// into a Position. Sentences with a checksum are verified against it.
func ParseGGA(line string) (domain.Position, error) {
	if !strings.HasPrefix(line, "$") {
		return domain.Position{}, fmt.Errorf("position: missing sentence start: %q", line)
	}
	body := line[1:]
	if i := strings.IndexByte(body, '*'); i >= 0 {
		want, err := strconv.ParseUint(body[i+1:], 16, 8)
		if err != nil {
			return domain.Position{}, fmt.Errorf("position: bad checksum field: %q", line)
		}
		var sum byte
		for j := 0; j < i; j++ {
			sum ^= body[j]
		}
		if sum != byte(want) {
			return domain.Position{}, fmt.Errorf("position: checksum mismatch: %q", line)
		}
		body = body[:i]
	}

	fields := strings.Split(body, ",")
	if len(fields) < 10 {
		return domain.Position{}, fmt.Errorf("position: truncated sentence: %q", line)
	}
	if !strings.HasSuffix(fields[0], "GGA") {
		return domain.Position{}, ErrNotGGA
	}

	quality, err := strconv.Atoi(fields[6])
	if err != nil {
		return domain.Position{}, fmt.Errorf("position: fix quality: %w", err)
	}
	sats, err := strconv.Atoi(fields[7])
	if err != nil {
		return domain.Position{}, fmt.Errorf("position: satellite count: %w", err)
	}

	pos := domain.Position{Satellites: sats, FixQuality: quality}
	if quality == 0 {
		// No fix: coordinate fields are typically empty.
		return pos, nil
	}

	pos.Latitude, err = parseCoord(fields[2], fields[3], 2)
	if err != nil {
		return domain.Position{}, err
	}
	pos.Longitude, err = parseCoord(fields[4], fields[5], 3)
	if err != nil {
		return domain.Position{}, err
	}
	if fields[9] != "" {
		pos.Altitude, err = strconv.ParseFloat(fields[9], 64)
		if err != nil {
			return domain.Position{}, fmt.Errorf("position: altitude: %w", err)
		}
	}
	return pos, nil
}

// parseCoord converts NMEA ddmm.mmmm (or dddmm.mmmm) plus a hemisphere
// letter into signed decimal degrees. degDigits is 2 for latitude and 3
// for longitude.
func parseCoord(raw, hemi string, degDigits int) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	if len(raw) <= degDigits {
		return 0, fmt.Errorf("position: coordinate too short: %q", raw)
	}
	deg, err := strconv.ParseFloat(raw[:degDigits], 64)
	if err != nil {
		return 0, fmt.Errorf("position: coordinate degrees: %w", err)
	}
	min, err := strconv.ParseFloat(raw[degDigits:], 64)
	if err != nil {
		return 0, fmt.Errorf("position: coordinate minutes: %w", err)
	}
	v := deg + min/60
	switch hemi {
	case "S", "W":
		v = -v
	case "N", "E", "":
	default:
		return 0, fmt.Errorf("position: hemisphere %q", hemi)
	}
	return v, nil
}
