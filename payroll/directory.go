/*
directory.go - Worker directory management

PURPOSE:
  Create/update/delete operations over the worker directory, layered on
  the WorkerStore full-replace contract. Worker names are the directory's
  identifiers: unique, and the join key for attendance and advances.

CONVENTIONS:
  - Crew labels are normalized to upper case on write, so "servitude"
    and "SERVITUDE" are the same crew.
  - A worker needs at least a name and a crew; rates must not be negative.
*/
package payroll

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Directory manages the worker directory over a WorkerStore.
type Directory struct {
	Store WorkerStore
}

func NewDirectory(store WorkerStore) *Directory {
	return &Directory{Store: store}
}

// List returns all workers sorted by name.
func (d *Directory) List(ctx context.Context) ([]Worker, error) {
	workers, err := d.Store.LoadWorkers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(workers, func(i, j int) bool { return workers[i].Name < workers[j].Name })
	return workers, nil
}

// Find returns the worker with the given name, or ErrWorkerNotFound.
func (d *Directory) Find(ctx context.Context, name string) (Worker, error) {
	workers, err := d.Store.LoadWorkers(ctx)
	if err != nil {
		return Worker{}, err
	}
	for _, w := range workers {
		if w.Name == name {
			return w, nil
		}
	}
	return Worker{}, &WorkerError{Name: name, Err: ErrWorkerNotFound}
}

// Add appends a new worker. The name must not already exist.
func (d *Directory) Add(ctx context.Context, w Worker) error {
	if err := validateWorker(w); err != nil {
		return err
	}
	w.Crew = strings.ToUpper(w.Crew)

	workers, err := d.Store.LoadWorkers(ctx)
	if err != nil {
		return err
	}
	for _, existing := range workers {
		if existing.Name == w.Name {
			return &WorkerError{Name: w.Name, Err: ErrDuplicateWorker}
		}
	}
	return d.Store.SaveWorkers(ctx, append(workers, w))
}

// Update replaces the worker currently stored under name. Renames are
// allowed as long as the new name doesn't collide.
func (d *Directory) Update(ctx context.Context, name string, w Worker) error {
	if err := validateWorker(w); err != nil {
		return err
	}
	w.Crew = strings.ToUpper(w.Crew)

	workers, err := d.Store.LoadWorkers(ctx)
	if err != nil {
		return err
	}

	index := -1
	for i, existing := range workers {
		if existing.Name == name {
			index = i
		} else if existing.Name == w.Name {
			return &WorkerError{Name: w.Name, Err: ErrDuplicateWorker}
		}
	}
	if index < 0 {
		return &WorkerError{Name: name, Err: ErrWorkerNotFound}
	}

	workers[index] = w
	return d.Store.SaveWorkers(ctx, workers)
}

// Remove deletes the worker with the given name. Attendance and advances
// referencing it are left in place; they become orphaned rows the
// aggregator drops and counts.
func (d *Directory) Remove(ctx context.Context, name string) error {
	workers, err := d.Store.LoadWorkers(ctx)
	if err != nil {
		return err
	}

	kept := workers[:0]
	for _, w := range workers {
		if w.Name != name {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(workers) {
		return &WorkerError{Name: name, Err: ErrWorkerNotFound}
	}
	return d.Store.SaveWorkers(ctx, kept)
}

// Clear empties the whole directory. Irreversible.
func (d *Directory) Clear(ctx context.Context) error {
	return d.Store.SaveWorkers(ctx, nil)
}

// Crews returns the distinct crew labels, sorted.
func (d *Directory) Crews(ctx context.Context) ([]string, error) {
	workers, err := d.Store.LoadWorkers(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var crews []string
	for _, w := range workers {
		if !seen[w.Crew] {
			seen[w.Crew] = true
			crews = append(crews, w.Crew)
		}
	}
	sort.Strings(crews)
	return crews, nil
}

// CrewMembers returns the names of the workers in the given crew, sorted.
func (d *Directory) CrewMembers(ctx context.Context, crew string) ([]string, error) {
	workers, err := d.Store.LoadWorkers(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, w := range workers {
		if w.Crew == crew {
			names = append(names, w.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func validateWorker(w Worker) error {
	if strings.TrimSpace(w.Name) == "" || strings.TrimSpace(w.Crew) == "" {
		return &WorkerError{Name: w.Name, Err: fmt.Errorf("%w: name and crew are required", ErrInvalidWorker)}
	}
	if w.RegularRate.IsNegative() || w.OvertimeRate.IsNegative() {
		return &WorkerError{Name: w.Name, Err: fmt.Errorf("%w: negative rate", ErrInvalidWorker)}
	}
	return nil
}
