// Package sensors holds the airframe environmental sensor drivers. All
// readers degrade to safe defaults instead of failing the cycle: a drone
// with a flaky dust sensor still flies and still classifies on vision.
package sensors

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

const (
	pmsFrameLen     = 32
	pmsStartByte1   = 0x42
	pmsStartByte2   = 0x4D
	pmsBaudRate     = 9600
	pm25AtmOffset   = 12 // PM2.5 under atmospheric conditions, big endian
	pmsChecksumPos  = 30
	pmsChecksumSpan = 30
)

// PMS7003 reads PM2.5 concentrations from a Plantower PMS7003 over its
// serial framing. Any read or framing problem yields 0, never an error.
type PMS7003 struct {
	port io.ReadCloser
}

// NewPMS7003 opens the sensor's serial port at its fixed 9600 baud.
func NewPMS7003(portName string) (*PMS7003, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: pmsBaudRate})
	if err != nil {
		return nil, fmt.Errorf("sensors: open pms7003 %s: %w", portName, err)
	}
	return &PMS7003{port: port}, nil
}

// newPMS7003FromPort is the test seam.
func newPMS7003FromPort(port io.ReadCloser) *PMS7003 {
	return &PMS7003{port: port}
}

// ReadParticulate returns the current PM2.5 concentration in ug/m3, or 0
// when a valid frame cannot be read.
func (p *PMS7003) ReadParticulate() int {
	frame := make([]byte, pmsFrameLen)
	if _, err := io.ReadFull(p.port, frame); err != nil {
		return 0
	}
	if frame[0] != pmsStartByte1 || frame[1] != pmsStartByte2 {
		return 0
	}
	var sum uint16
	for _, b := range frame[:pmsChecksumSpan] {
		sum += uint16(b)
	}
	if sum != uint16(frame[pmsChecksumPos])<<8|uint16(frame[pmsChecksumPos+1]) {
		return 0
	}
	return int(frame[pm25AtmOffset])<<8 | int(frame[pm25AtmOffset+1])
}

func (p *PMS7003) Close() error {
	return p.port.Close()
}
