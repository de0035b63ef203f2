package signal

import (
	"context"
	"sync"
)

var _ Bus = (*MemoryChannel)(nil)

// MemoryChannel is an in-process flag pair for tests and for peers that run
// inside the controller.
type MemoryChannel struct {
	mu       sync.Mutex
	presence bool
	command  Command
	writes   []Command
	reads    int
}

func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{}
}

func (m *MemoryChannel) Detected(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	return m.presence, nil
}

func (m *MemoryChannel) Report(_ context.Context, detected bool) error {
	m.mu.Lock()
	m.presence = detected
	m.mu.Unlock()
	return nil
}

func (m *MemoryChannel) Command(_ context.Context, cmd Command) error {
	if err := validate(cmd); err != nil {
		return err
	}
	m.mu.Lock()
	m.command = cmd
	m.writes = append(m.writes, cmd)
	m.mu.Unlock()
	return nil
}

func (m *MemoryChannel) LastCommand(context.Context) (Command, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.command, nil
}

// Writes returns every actuator command in the order written.
func (m *MemoryChannel) Writes() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Command(nil), m.writes...)
}

// PresenceReads reports how often presence was sampled.
func (m *MemoryChannel) PresenceReads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}
