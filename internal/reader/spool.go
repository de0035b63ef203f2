package reader

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SpoolDevice is a development driver. A tag presentation is simulated by
// writing its anticollision bytes, space separated and in decimal, to the
// spool file; the file is consumed on read.
type SpoolDevice struct {
	Path string
}

func (d *SpoolDevice) Init() error { return nil }

func (d *SpoolDevice) Request() error {
	if _, err := os.Stat(d.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoTag
		}
		return err
	}
	return nil
}

func (d *SpoolDevice) Anticoll() ([]byte, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoTag
		}
		return nil, err
	}
	if err := os.Remove(d.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return ParseSpool(string(data))
}

func (d *SpoolDevice) Cleanup() error { return nil }

// ParseSpool parses "136 4 22 91 209" into raw reply bytes.
func ParseSpool(s string) ([]byte, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, ErrNoTag
	}
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("spool byte %q: %w", f, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}
