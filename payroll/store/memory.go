// Package store provides an in-memory Store implementation for tests and dev.
package store

import (
	"context"
	"sync"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	workers    []payroll.Worker
	attendance []payroll.AttendanceRecord
	advances   []payroll.AdvancePayment
}

// Compile-time check that Memory implements the full store surface.
var _ payroll.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) LoadWorkers(_ context.Context) ([]payroll.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.workers), nil
}

func (m *Memory) SaveWorkers(_ context.Context, workers []payroll.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers = copySlice(workers)
	return nil
}

func (m *Memory) LoadAttendance(_ context.Context) ([]payroll.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.attendance), nil
}

func (m *Memory) SaveAttendance(_ context.Context, records []payroll.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendance = copySlice(records)
	return nil
}

func (m *Memory) LoadAdvances(_ context.Context) ([]payroll.AdvancePayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.advances), nil
}

func (m *Memory) AppendAdvance(_ context.Context, advance payroll.AdvancePayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advances = append(m.advances, advance)
	return nil
}

func (m *Memory) SaveAdvances(_ context.Context, advances []payroll.AdvancePayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advances = copySlice(advances)
	return nil
}

// copySlice isolates callers from the store's backing arrays.
func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
