package signal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var _ Bus = (*FileChannel)(nil)

// FileChannel exchanges the flags through two well-known files, the
// protocol the sensor and servo daemons already speak.
type FileChannel struct {
	PresencePath string
	ActuatorPath string
}

func NewFileChannel(presencePath, actuatorPath string) *FileChannel {
	return &FileChannel{PresencePath: presencePath, ActuatorPath: actuatorPath}
}

// Detected reads the presence file once. A missing or unreadable file is
// reported as not detected together with the read error.
func (f *FileChannel) Detected(context.Context) (bool, error) {
	data, err := os.ReadFile(f.PresencePath)
	if err != nil {
		return false, fmt.Errorf("read presence status: %w", err)
	}
	return isDetected(string(data)), nil
}

func (f *FileChannel) Report(_ context.Context, detected bool) error {
	return writeAtomic(f.PresencePath, presenceValue(detected))
}

func (f *FileChannel) Command(_ context.Context, cmd Command) error {
	if err := validate(cmd); err != nil {
		return err
	}
	return writeAtomic(f.ActuatorPath, string(cmd))
}

func (f *FileChannel) LastCommand(context.Context) (Command, error) {
	data, err := os.ReadFile(f.ActuatorPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CommandNone, nil
		}
		return CommandNone, fmt.Errorf("read actuator status: %w", err)
	}
	return ParseCommand(string(data)), nil
}

// writeAtomic replaces path via rename so a polling reader never sees a
// partially written value.
func writeAtomic(path, value string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp status file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write status file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close status file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod status file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace status file: %w", err)
	}
	return nil
}
