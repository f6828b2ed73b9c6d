// Package list prints the signups stored in a collection.
package list

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/waitlist/pkg/printers"
	"tableflip.dev/waitlist/pkg/record"
	"tableflip.dev/waitlist/pkg/store"
)

type List struct {
	Store      store.Store
	Collection string
	Format     printers.Format
	Watch      bool
	Printer    *printers.PrettyPrint
}

func (l *List) Do(ctx context.Context) error {
	if l.Store == nil {
		return errors.New("list: no store configured")
	}
	pp := l.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}

	records, err := l.Store.List(ctx, l.Collection)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	record.Sort(records)
	if err := pp.Records(l.Format, l.Collection, records); err != nil {
		return fmt.Errorf("list: print: %w", err)
	}
	if !l.Watch {
		return nil
	}
	return l.watch(ctx, pp, records)
}

func (l *List) watch(ctx context.Context, pp *printers.PrettyPrint, seen []*record.Record) error {
	events, err := l.Store.Watch(ctx)
	if err != nil {
		return fmt.Errorf("list: watch: %w", err)
	}
	known := make(map[record.ID]struct{}, len(seen))
	for _, r := range seen {
		known[r.ID] = struct{}{}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Type == store.EventCollectionChanged && ev.Collection != "" && ev.Collection != l.Collection {
				continue
			}
			fresh, err := l.Store.List(ctx, l.Collection)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("list: refresh: %w", err)
			}
			record.Sort(fresh)
			for _, r := range fresh {
				if _, ok := known[r.ID]; ok {
					continue
				}
				known[r.ID] = struct{}{}
				pp.Record(r)
			}
		}
	}
}
