package rng

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// SerialConfig describes the hardware TRNG attached over a serial port.
type SerialConfig struct {
	Device      string        // e.g. /dev/ttyACM0 or COM3
	Baud        int           // e.g. 115200
	ReadTimeout time.Duration // zero blocks until data arrives
}

// NewSerialRNG opens a serial port and performs an initial health check.
func NewSerialRNG(cfg SerialConfig) (io.ReadCloser, *Health, error) {
	if cfg.Device == "" {
		return nil, nil, errors.New("serial device is required")
	}
	if cfg.Baud <= 0 {
		return nil, nil, fmt.Errorf("invalid serial baud rate: %d", cfg.Baud)
	}
	if cfg.ReadTimeout < 0 {
		return nil, nil, fmt.Errorf("invalid serial read timeout: %s", cfg.ReadTimeout)
	}

	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        8,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening serial port %s: %w", cfg.Device, err)
	}

	h := NewHealth()
	if err := HealthCheckRNG(p, h); err != nil {
		h.Set(false, err.Error())
		_ = p.Close()
		return nil, h, err
	}
	h.Set(true, "")

	return p, h, nil
}
