package events

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Multi publishes to several brokers concurrently. A failing broker does
// not stop delivery to the others.
type Multi struct {
	pubs []Publisher
}

// NewMulti ignores nil publishers.
func NewMulti(pubs ...Publisher) *Multi {
	m := &Multi{}
	for _, p := range pubs {
		if p != nil {
			m.pubs = append(m.pubs, p)
		}
	}
	return m
}

func (m *Multi) Len() int {
	return len(m.pubs)
}

// PublishOrderPlaced returns every broker's error joined together.
func (m *Multi) PublishOrderPlaced(ctx context.Context, e OrderPlaced) error {
	errs := make([]error, len(m.pubs))
	var g errgroup.Group
	for i, p := range m.pubs {
		i, p := i, p
		g.Go(func() error {
			errs[i] = p.PublishOrderPlaced(ctx, e)
			return nil
		})
	}
	g.Wait()
	return errors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, p := range m.pubs {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps published events in memory. Useful when no broker is
// configured and in tests.
type Recorder struct {
	Events []OrderPlaced
	Err    error
}

func (r *Recorder) PublishOrderPlaced(_ context.Context, e OrderPlaced) error {
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }
