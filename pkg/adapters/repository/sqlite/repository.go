package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

// Timestamps are stored as fixed width UTC text so that they sort as strings.
const timeLayout = "2006-01-02 15:04:05.000000"

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.PlaceRepository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}
	// One connection serializes transactions and keeps shared in-memory databases alive.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS places (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		doc TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_places_user_id ON places(user_id, created_at);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id TEXT PRIMARY KEY,
		place_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		link_type TEXT,
		link_index INTEGER,
		link_id TEXT,
		link_platform TEXT,
		link_url TEXT,
		user_agent TEXT,
		referrer TEXT,
		timestamp TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_events_place_ts ON analytics_events(place_id, timestamp);

	CREATE TABLE IF NOT EXISTS subscribers (
		id TEXT PRIMARY KEY,
		place_id TEXT NOT NULL,
		email TEXT NOT NULL,
		source TEXT,
		subscribed_at TEXT NOT NULL,
		UNIQUE (place_id, email)
	);
	`
	_, err := db.Exec(query)
	return err
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreatePlace(ctx context.Context, place *domain.Place) error {
	if place.ID == "" {
		place.ID = uuid.NewString()
	}
	doc, err := json.Marshal(place)
	if err != nil {
		return err
	}
	query := `INSERT INTO places (id, user_id, doc, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, place.ID, place.UserID, string(doc), formatTime(place.CreatedAt), formatTime(place.UpdatedAt))
	return err
}

func (r *SQLiteRepository) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	query := `SELECT id, user_id, doc, created_at, updated_at FROM places WHERE id = ?`
	p, err := scanPlace(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SavePlace replaces the document. Click counters are taken from the row being
// replaced, inside the same transaction, so concurrent clicks are not lost.
func (r *SQLiteRepository) SavePlace(ctx context.Context, place *domain.Place) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `SELECT id, user_id, doc, created_at, updated_at FROM places WHERE id = ?`
	current, err := scanPlace(tx.QueryRowContext(ctx, query, place.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("place %s: %w", place.ID, domain.ErrPlaceNotFound)
	}
	if err != nil {
		return err
	}
	place.CarryCounters(*current)

	doc, err := json.Marshal(place)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE places SET doc = ?, updated_at = ? WHERE id = ?`,
		string(doc), formatTime(place.UpdatedAt), place.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) DeletePlace(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM analytics_events WHERE place_id = ?`,
		`DELETE FROM subscribers WHERE place_id = ?`,
		`DELETE FROM places WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) ListPlacesByOwner(ctx context.Context, userID string) ([]domain.Place, error) {
	query := `SELECT id, user_id, doc, created_at, updated_at FROM places WHERE user_id = ? ORDER BY created_at DESC`
	return r.queryPlaces(ctx, query, userID)
}

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.Place, error) {
	query := `SELECT id, user_id, doc, created_at, updated_at FROM places ORDER BY created_at`
	return r.queryPlaces(ctx, query)
}

func (r *SQLiteRepository) queryPlaces(ctx context.Context, query string, args ...interface{}) ([]domain.Place, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	places := []domain.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

func (r *SQLiteRepository) RecordEvent(ctx context.Context, event *domain.AnalyticsEvent) error {
	return insertEvent(ctx, r.db, event)
}

// RecordLinkClick inserts the click and bumps the link counter in one transaction.
// A link removed since the click was resolved only loses the counter update.
func (r *SQLiteRepository) RecordLinkClick(ctx context.Context, event *domain.AnalyticsEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Insert Event Record
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	// 2. Increment Link Clicks Counter
	query := `SELECT id, user_id, doc, created_at, updated_at FROM places WHERE id = ?`
	p, err := scanPlace(tx.QueryRowContext(ctx, query, event.PlaceID))
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("place %s: %w", event.PlaceID, domain.ErrPlaceNotFound)
	}
	if err != nil {
		return err
	}
	links := p.Links(event.LinkType)
	for i := range links {
		if links[i].ID != event.LinkID {
			continue
		}
		at := r.now().UTC()
		links[i].Clicks++
		links[i].LastClicked = &at

		doc, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE places SET doc = ? WHERE id = ?`, string(doc), p.ID); err != nil {
			return err
		}
		break
	}

	return tx.Commit()
}

// ListEvents returns events newest first. A limit of zero or less means no limit.
// A zero since disables the time filter, so events without a timestamp are
// included and sort last.
func (r *SQLiteRepository) ListEvents(ctx context.Context, placeID string, since time.Time, limit int) ([]domain.AnalyticsEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	where := `place_id = ?`
	args := []interface{}{placeID}
	if !since.IsZero() {
		where += ` AND timestamp >= ?`
		args = append(args, formatTime(since))
	}
	args = append(args, limit)
	query := `SELECT id, place_id, event_type, link_type, link_index, link_id, link_platform, link_url, user_agent, referrer, timestamp
			  FROM analytics_events WHERE ` + where + ` ORDER BY timestamp DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.AnalyticsEvent{}
	for rows.Next() {
		var e domain.AnalyticsEvent
		var linkType, linkID, platform, url, ua, ref, ts sql.NullString
		var linkIndex sql.NullInt64
		if err := rows.Scan(&e.ID, &e.PlaceID, &e.EventType, &linkType, &linkIndex, &linkID, &platform, &url, &ua, &ref, &ts); err != nil {
			return nil, err
		}
		e.LinkType = domain.LinkType(linkType.String)
		e.LinkIndex = int(linkIndex.Int64)
		e.LinkID = linkID.String
		e.LinkPlatform = platform.String
		e.LinkURL = url.String
		e.UserAgent = ua.String
		e.Referrer = ref.String
		if t, ok := parseTime(ts); ok {
			e.Timestamp = &t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// AddSubscriber is idempotent per place and email. On a repeat, sub is filled
// with the stored record.
func (r *SQLiteRepository) AddSubscriber(ctx context.Context, sub *domain.Subscriber) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	query := `INSERT INTO subscribers (id, place_id, email, source, subscribed_at) VALUES (?, ?, ?, ?, ?)
			  ON CONFLICT (place_id, email) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, sub.ID, sub.PlaceID, sub.Email, sub.Source, formatTime(sub.SubscribedAt))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	var at string
	err = r.db.QueryRowContext(ctx, `SELECT id, source, subscribed_at FROM subscribers WHERE place_id = ? AND email = ?`,
		sub.PlaceID, sub.Email).Scan(&sub.ID, &sub.Source, &at)
	if err != nil {
		return err
	}
	if t, ok := parseTime(sql.NullString{String: at, Valid: true}); ok {
		sub.SubscribedAt = t
	}
	return nil
}

func (r *SQLiteRepository) ListSubscribers(ctx context.Context, placeID string) ([]domain.Subscriber, error) {
	query := `SELECT id, place_id, email, source, subscribed_at FROM subscribers WHERE place_id = ? ORDER BY subscribed_at DESC`
	rows, err := r.db.QueryContext(ctx, query, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []domain.Subscriber{}
	for rows.Next() {
		var s domain.Subscriber
		var source sql.NullString
		var at sql.NullString
		if err := rows.Scan(&s.ID, &s.PlaceID, &s.Email, &source, &at); err != nil {
			return nil, err
		}
		s.Source = source.String
		if t, ok := parseTime(at); ok {
			s.SubscribedAt = t
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertEvent(ctx context.Context, db execer, e *domain.AnalyticsEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	var ts interface{}
	if e.Timestamp != nil {
		ts = formatTime(*e.Timestamp)
	}
	query := `INSERT INTO analytics_events
			  (id, place_id, event_type, link_type, link_index, link_id, link_platform, link_url, user_agent, referrer, timestamp)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, e.ID, e.PlaceID, e.EventType, string(e.LinkType), e.LinkIndex,
		e.LinkID, e.LinkPlatform, e.LinkURL, e.UserAgent, e.Referrer, ts)
	return err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPlace(row scanner) (*domain.Place, error) {
	var id, userID, doc, createdAt, updatedAt string
	if err := row.Scan(&id, &userID, &doc, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var p domain.Place
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("place %s: corrupt document: %w", id, err)
	}
	p.ID = id
	p.UserID = userID
	if t, ok := parseTime(sql.NullString{String: createdAt, Valid: true}); ok {
		p.CreatedAt = t
	}
	if t, ok := parseTime(sql.NullString{String: updatedAt, Valid: true}); ok {
		p.UpdatedAt = t
	}
	for _, t := range domain.LinkTypes() {
		p.SetLinks(t, p.Links(t))
	}
	if p.SectionLabels == nil {
		p.SectionLabels = map[domain.SectionKey]string{}
	}
	if p.SectionVisibility == nil {
		p.SectionVisibility = map[domain.SectionKey]bool{}
	}
	return &p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s sql.NullString) (time.Time, bool) {
	if !s.Valid || s.String == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
