// Package cache implements the per-record resolver cache (RFC 1035
// leaves TTL caching to the implementer): a keyed, in-memory map backed by
// a SQLite snapshot on disk, scoped to one request at a time as the
// resolver's cache-integration policy requires.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arnegrim/recurdns/internal/dnserr"
	"github.com/arnegrim/recurdns/internal/record"
	"github.com/arnegrim/recurdns/internal/rrtype"
)

// entry pairs a cached record with the time it was inserted or last
// refreshed, the quantity refresh() ages against the record's own TTL.
type entry struct {
	rec        record.Record
	insertedAt time.Time
}

// key identifies a cache bucket: (qtype, name), exactly per spec — class
// is deliberately not part of the key, since every record this resolver
// handles is class IN.
type key struct {
	qtype rrtype.Type
	name  string // dnsname.Name.Key()
}

// Cache is the keyed, unordered-per-key record store. It is not safe for
// concurrent use; the server's strictly serial request loop is the
// intended caller.
type Cache struct {
	buckets map[key][]entry
	now     func() time.Time
}

// New returns an empty cache. now defaults to time.Now; tests may
// override it to make TTL expiry deterministic.
func New() *Cache {
	return &Cache{buckets: make(map[key][]entry), now: time.Now}
}

func keyOf(qtype rrtype.Type, name interface{ Key() string }) key {
	return key{qtype: qtype, name: name.Key()}
}

// Put inserts rec, or refreshes the insertion time of an existing
// value-equal record under the same key.
func (c *Cache) Put(rec record.Record) {
	k := keyOf(rec.Type, rec.Name)
	now := c.now()
	for i, e := range c.buckets[k] {
		if e.rec.Equal(rec) {
			c.buckets[k][i].insertedAt = now
			return
		}
	}
	c.buckets[k] = append(c.buckets[k], entry{rec: rec, insertedAt: now})
}

// Get returns the records currently stored under (qtype, name), or nil if
// the key is absent.
func (c *Cache) Get(qtype rrtype.Type, name interface{ Key() string }) []record.Record {
	k := keyOf(qtype, name)
	es := c.buckets[k]
	if len(es) == 0 {
		return nil
	}
	out := make([]record.Record, len(es))
	for i, e := range es {
		out[i] = e.rec
	}
	return out
}

// Refresh evicts every entry whose age exceeds its record's TTL, dropping
// keys that become empty.
func (c *Cache) Refresh() {
	now := c.now()
	for k, es := range c.buckets {
		live := es[:0]
		for _, e := range es {
			if now.Sub(e.insertedAt) <= time.Duration(e.rec.TTL)*time.Second {
				live = append(live, e)
			}
		}
		if len(live) == 0 {
			delete(c.buckets, k)
		} else {
			c.buckets[k] = live
		}
	}
}

const schema = `CREATE TABLE IF NOT EXISTS records (
	qtype INTEGER NOT NULL,
	class INTEGER NOT NULL,
	name BLOB NOT NULL,
	ttl INTEGER NOT NULL,
	rdata BLOB NOT NULL,
	inserted_at INTEGER NOT NULL
)`

// Load opens the SQLite snapshot at path and populates a new Cache from
// it. If sql.Open itself fails, Load returns an empty cache together with
// an error wrapping dnserr.ErrCacheCorrupt. Every later failure — missing
// file, corrupt database, schema mismatch, a failed query or row scan —
// silently yields an empty cache and a nil error; a row whose stored name
// does not decode is skipped. Refresh runs once before returning so stale
// rows never become visible.
func Load(ctx context.Context, path string) (*Cache, error) {
	c := New()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return c, fmt.Errorf("cache: open %s: %w", path, errors.Join(err, dnserr.ErrCacheCorrupt))
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return New(), nil
	}

	rows, err := db.QueryContext(ctx, `SELECT qtype, class, name, ttl, rdata, inserted_at FROM records`)
	if err != nil {
		return New(), nil
	}
	defer rows.Close()

	for rows.Next() {
		var qtype, class uint16
		var name, rdata []byte
		var ttl uint32
		var insertedAtUnix int64
		if err := rows.Scan(&qtype, &class, &name, &ttl, &rdata, &insertedAtUnix); err != nil {
			return New(), nil
		}
		n, err := decodeKeyName(name)
		if err != nil {
			continue
		}
		rec := record.Record{
			Name:     n,
			Type:     rrtype.Type(qtype),
			Class:    rrClassOf(class),
			TTL:      ttl,
			RDLength: uint16(len(rdata)),
			RData:    rdata,
		}
		k := keyOf(rec.Type, rec.Name)
		c.buckets[k] = append(c.buckets[k], entry{rec: rec, insertedAt: time.Unix(insertedAtUnix, 0)})
	}
	if err := rows.Err(); err != nil {
		return New(), nil
	}

	c.Refresh()
	return c, nil
}

// Save serializes the cache's current contents to the SQLite database at
// path, replacing any prior contents.
func (c *Cache) Save(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("cache: open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("cache: creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cache: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("cache: clearing prior snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (qtype, class, name, ttl, rdata, inserted_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("cache: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, es := range c.buckets {
		for _, e := range es {
			nameKey, err := encodeKeyName(e.rec.Name)
			if err != nil {
				continue
			}
			if _, err := stmt.ExecContext(ctx, uint16(e.rec.Type), uint16(e.rec.Class), nameKey, e.rec.TTL, e.rec.RData, e.insertedAt.Unix()); err != nil {
				return fmt.Errorf("cache: inserting record: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cache: commit: %w", err)
	}
	return nil
}
