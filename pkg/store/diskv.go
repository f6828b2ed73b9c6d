package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/waitlist/pkg/record"
)

const layoutISO = "2006-01-02"

type diskvStore struct {
	d        *diskv.Diskv
	basePath string
	log      *slog.Logger
	now      func() time.Time
}

// NewDiskv stores one JSON document per record under basePath.
func NewDiskv(basePath string, logger *slog.Logger) Store {
	return &diskvStore{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: basePath,
		log:      logger,
		now:      time.Now,
	}
}

func (p *diskvStore) Location() string { return "diskv:" + p.basePath }

func (p *diskvStore) Close() error { return nil }

func (p *diskvStore) read(key string) (*record.Record, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	r := record.Record{}
	if err := json.Unmarshal(val, &r); err != nil {
		return nil, err
	}
	r.ID = record.ID(keyToPathTransform(key).FileName)
	return &r, nil
}

func (p *diskvStore) keys(ctx context.Context, collection string) <-chan string {
	return p.d.KeysPrefix(toCollection(collection)+"-", ctx.Done())
}

func (p *diskvStore) Exists(ctx context.Context, collection, field, value string) (bool, error) {
	if err := requireCollection("exists", collection); err != nil {
		return false, err
	}
	// Returning on the first match abandons the key walk; cancel releases
	// diskv's walker goroutine, which would otherwise block on its send.
	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	for key := range p.keys(walkCtx, collection) {
		r, err := p.read(key)
		if err != nil {
			p.log.Warn("skip unreadable record", "key", key, "err", err)
			continue
		}
		if r.Get(field) == value {
			return true, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return false, wrap("exists", collection, err)
	}
	return false, nil
}

func (p *diskvStore) Insert(ctx context.Context, collection string, fields map[string]string) (record.ID, error) {
	if err := requireCollection("insert", collection); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", wrap("insert", collection, err)
	}
	r := record.New(collection, fields, p.now())
	key, err := toKey(r)
	if err != nil {
		return "", wrap("insert", collection, err)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "", wrap("insert", collection, err)
	}
	if err := p.d.Write(key, data); err != nil {
		return "", wrap("insert", collection, err)
	}
	return r.ID, nil
}

func (p *diskvStore) List(ctx context.Context, collection string) ([]*record.Record, error) {
	if err := requireCollection("list", collection); err != nil {
		return nil, err
	}
	all := make([]*record.Record, 0)
	for key := range p.keys(ctx, collection) {
		r, err := p.read(key)
		if err != nil {
			p.log.Warn("skip unreadable record", "key", key, "err", err)
			continue
		}
		all = append(all, r)
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap("list", collection, err)
	}
	record.Sort(all)
	return all, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `collection-date-id` and assigns the record id.
func toKey(r *record.Record) (string, error) {
	if r.ID == "" {
		b, err := json.Marshal(r)
		if err != nil {
			return "", err
		}
		sum := md5.Sum(b)
		r.ID = record.ID(fmt.Sprintf("%x", sum[:8]))
	}
	then := r.Created.Format(layoutISO)
	return fmt.Sprintf("%s-%s-%s", toCollection(r.Collection), then, r.ID), nil
}

// Collections are hex encoded so names never collide with the key separator.
func toCollection(s string) string {
	return hex.EncodeToString([]byte(s))
}

func fromCollection(s string) (string, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", errors.New("store: malformed collection directory " + s)
	}
	return string(b), nil
}
