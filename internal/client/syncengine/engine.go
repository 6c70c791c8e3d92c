// Package syncengine implements the bidirectional sync cycle against the
// remote server. A cycle collects pending local changes, exchanges them in
// a single request and reconciles the response into the local store.
package syncengine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"granja/internal/client/models"
	"granja/internal/client/state"
	"granja/internal/client/store"
	"granja/internal/client/transport"
	"granja/internal/client/wire"
	"granja/internal/logging"
)

// SyncAPI is the remote half of the exchange, satisfied by *transport.Client.
type SyncAPI interface {
	Sync(ctx context.Context, token string, req *transport.SyncRequest) (*transport.SyncResponse, error)
}

// Probe reports connectivity: a nil error means the server is reachable.
// A nil Probe disables the pre-flight check.
type Probe func(ctx context.Context) error

// SkipReason explains why a cycle was a deliberate no-op.
type SkipReason string

const (
	ReasonBusy         SkipReason = "busy"
	ReasonNoCredential SkipReason = "no_credential"
	ReasonTokenExpired SkipReason = "token_expired"
	ReasonOffline      SkipReason = "offline"
)

// Result summarizes one sync cycle.
type Result struct {
	Skipped    bool
	SkipReason SkipReason

	// Pushed and Pulled count rows that traveled each way; Deduped counts
	// local duplicates removed during reconciliation.
	Pushed  int
	Pulled  int
	Deduped int

	// Timestamp is the server clock persisted as the new pull watermark.
	Timestamp string
}

// Engine runs sync cycles. At most one cycle is in flight at a time;
// concurrent calls are skipped, not queued.
type Engine struct {
	store *store.Store
	state state.Repository
	api   SyncAPI
	probe Probe
	log   logging.Logger

	mu       sync.Mutex
	inFlight bool
}

func New(st *store.Store, stateRepo state.Repository, api SyncAPI, probe Probe, log logging.Logger) *Engine {
	return &Engine{
		store: st,
		state: stateRepo,
		api:   api,
		probe: probe,
		log:   log.With("component", "syncengine"),
	}
}

// InFlight reports whether a cycle is currently running.
func (e *Engine) InFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// PendingCount reports how many local rows still await push.
func (e *Engine) PendingCount(ctx context.Context) (int, error) {
	return e.store.PendingCount(ctx)
}

// Sync runs one full cycle. Skips (another cycle running, no credential,
// expired token, offline) return a Result with Skipped set and a nil error;
// transport or reconciliation failures return an error and leave the local
// store untouched, so the next trigger retries the same work.
func (e *Engine) Sync(ctx context.Context) (*Result, error) {
	if !e.begin() {
		return &Result{Skipped: true, SkipReason: ReasonBusy}, nil
	}
	defer e.end()

	token, err := e.state.Get(ctx, state.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	if len(token) == 0 {
		e.log.Debug(ctx, "sync skipped", "reason", ReasonNoCredential)
		return &Result{Skipped: true, SkipReason: ReasonNoCredential}, nil
	}
	if !tokenUsable(string(token)) {
		e.log.Info(ctx, "sync skipped", "reason", ReasonTokenExpired)
		return &Result{Skipped: true, SkipReason: ReasonTokenExpired}, nil
	}
	if e.probe != nil {
		if err := e.probe(ctx); err != nil {
			e.log.Debug(ctx, "sync skipped", "reason", ReasonOffline, "error", err)
			return &Result{Skipped: true, SkipReason: ReasonOffline}, nil
		}
	}

	changes, pushedIDs, pushed, err := e.collect(ctx)
	if err != nil {
		return nil, err
	}

	var lastPulledAt *string
	if v, err := e.state.Get(ctx, state.KeyLastPulledAt); err != nil {
		return nil, fmt.Errorf("reading watermark: %w", err)
	} else if len(v) > 0 {
		s := string(v)
		lastPulledAt = &s
	}

	resp, err := e.api.Sync(ctx, string(token), &transport.SyncRequest{
		Changes:      changes,
		LastPulledAt: lastPulledAt,
	})
	if err != nil {
		return nil, fmt.Errorf("sync exchange: %w", err)
	}

	var pulled, deduped int
	err = e.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		// A 2xx means the server accepted the whole batch; there are no
		// per-row acknowledgments to wait for.
		for table, ids := range pushedIDs {
			err := tx.Modify(ctx, table, ids, func(r *store.Record) {
				r.SyncStatus = models.StatusSynced
			})
			if err != nil {
				return err
			}
		}

		pulled, deduped, err = e.reconcile(ctx, tx, resp)
		if err != nil {
			return err
		}

		if resp.Timestamp == "" {
			return nil
		}
		// Same transaction as the reconciled rows: on rollback the
		// watermark does not advance and the next pull repeats.
		return state.NewSQLiteRepository(tx.Handle()).
			Set(ctx, state.KeyLastPulledAt, []byte(resp.Timestamp))
	})
	if err != nil {
		return nil, fmt.Errorf("reconciling: %w", err)
	}

	e.log.Info(ctx, "sync cycle finished",
		"pushed", pushed, "pulled", pulled, "deduped", deduped)

	return &Result{
		Pushed:    pushed,
		Pulled:    pulled,
		Deduped:   deduped,
		Timestamp: resp.Timestamp,
	}, nil
}

// collect gathers every pending row, table by table, in wire shape.
func (e *Engine) collect(ctx context.Context) (map[string][]wire.Row, map[string][]string, int, error) {
	changes := make(map[string][]wire.Row)
	pushedIDs := make(map[string][]string)
	total := 0

	for _, tbl := range store.Tables() {
		recs, err := e.store.Pending(ctx, tbl.Name)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("collecting %s: %w", tbl.Name, err)
		}
		if len(recs) == 0 {
			continue
		}
		rows := make([]wire.Row, 0, len(recs))
		ids := make([]string, 0, len(recs))
		for _, rec := range recs {
			rows = append(rows, wire.ToWire(tbl.Name, rec))
			ids = append(ids, rec.ID)
		}
		changes[tbl.Name] = rows
		pushedIDs[tbl.Name] = ids
		total += len(rows)
	}
	return changes, pushedIDs, total, nil
}

// reconcile applies the remote response: upserts, tombstones, then duplicate
// collapse for tables with a natural key. Tables() is ordered parents first,
// so referenced rows land before the rows pointing at them.
func (e *Engine) reconcile(ctx context.Context, tx *store.Tx, resp *transport.SyncResponse) (pulled, deduped int, err error) {
	for _, tbl := range store.Tables() {
		tc, ok := resp.Changes[tbl.Name]
		if !ok || len(tc.Updated) == 0 {
			continue
		}

		var upserts []*store.Record
		var tombstones []string
		for _, row := range tc.Updated {
			rec, err := wire.FromWire(tbl.Name, row)
			if err != nil {
				return 0, 0, err
			}
			if rec.DeletedAt != nil {
				tombstones = append(tombstones, rec.ID)
				continue
			}
			rec.SyncStatus = models.StatusSynced
			upserts = append(upserts, rec)
		}

		if tbl.NaturalKey != "" {
			for _, inc := range upserts {
				n, err := e.collapseDuplicates(ctx, tx, tbl, inc)
				if err != nil {
					return 0, 0, err
				}
				deduped += n
			}
		}

		if err := tx.BulkPut(ctx, tbl.Name, upserts); err != nil {
			return 0, 0, err
		}
		if err := tx.BulkDelete(ctx, tbl.Name, tombstones); err != nil {
			return 0, 0, err
		}
		pulled += len(tc.Updated)
	}
	return pulled, deduped, nil
}

// collapseDuplicates removes live local rows that share the incoming row's
// natural key under a different id. Every referrer is repointed at the
// incoming id before the duplicate is dropped, so no foreign key ever
// dangles, even if the transaction fails halfway.
func (e *Engine) collapseDuplicates(ctx context.Context, tx *store.Tx, tbl store.Table, inc *store.Record) (int, error) {
	key := inc.Field(tbl.NaturalKey)
	if key == "" {
		return 0, nil
	}

	dups, err := tx.Query(ctx, tbl.Name, func(r *store.Record) bool {
		return r.ID != inc.ID && r.DeletedAt == nil && r.Field(tbl.NaturalKey) == key
	})
	if err != nil {
		return 0, err
	}

	for _, dup := range dups {
		for _, ref := range tbl.Referrers {
			orphans, err := tx.Query(ctx, ref.Table, func(r *store.Record) bool {
				return r.Field(ref.Field) == dup.ID
			})
			if err != nil {
				return 0, err
			}
			ids := make([]string, 0, len(orphans))
			for _, o := range orphans {
				ids = append(ids, o.ID)
			}
			// repointing is local repair, not a user edit: sync status
			// stays whatever it was
			err = tx.Modify(ctx, ref.Table, ids, func(r *store.Record) {
				r.Fields[ref.Field] = inc.ID
			})
			if err != nil {
				return 0, err
			}
		}
		if err := tx.BulkDelete(ctx, tbl.Name, []string{dup.ID}); err != nil {
			return 0, err
		}
		e.log.Info(ctx, "collapsed duplicate record",
			"table", tbl.Name, "key", key, "dropped", dup.ID, "kept", inc.ID)
	}
	return len(dups), nil
}

func (e *Engine) begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight {
		return false
	}
	e.inFlight = true
	return true
}

func (e *Engine) end() {
	e.mu.Lock()
	e.inFlight = false
	e.mu.Unlock()
}

// tokenUsable checks the bearer token's exp claim without verifying the
// signature; verification is the server's job. Tokens that do not parse as
// JWTs are sent anyway and judged remotely.
func tokenUsable(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}
