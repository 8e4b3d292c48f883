/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hivewatch/hivewatch/pkg/logger"
	"github.com/hivewatch/hivewatch/pkg/models"
)

// PostgresConfig describes the connection to the graph database.
type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"ssl_mode"`
	MaxConns int32  `json:"max_conns,omitempty"`
}

// PostgresStore is a Store backed by Postgres via pgx. Actor attributes are
// stored as JSONB so the actor table stays schema-free; the message_replies
// edge table carries foreign keys to both endpoints so an edge can only
// connect a message to a reply.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresStore dials the configured database, hydrates the schema, and
// returns the store.
func NewPostgresStore(ctx context.Context, cfg *PostgresConfig, log logger.Logger) (*PostgresStore, error) {
	if cfg == nil {
		return nil, errors.New("postgres config is required")
	}

	conn := *cfg
	if conn.Port == 0 {
		conn.Port = 5432
	}

	connURL := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", conn.Host, conn.Port),
		Path:   "/" + conn.Database,
	}

	if conn.Username != "" {
		if conn.Password != "" {
			connURL.User = url.UserPassword(conn.Username, conn.Password)
		} else {
			connURL.User = url.User(conn.Username)
		}
	}

	query := connURL.Query()

	sslMode := conn.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	query.Set("sslmode", sslMode)
	connURL.RawQuery = query.Encode()

	poolConfig, err := pgxpool.ParseConfig(connURL.String())
	if err != nil {
		return nil, fmt.Errorf("store: failed to parse connection string: %w", err)
	}

	if conn.MaxConns > 0 {
		poolConfig.MaxConns = conn.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("store: failed to create pool: %w", err)
	}

	s := &PostgresStore{pool: pool, logger: log}

	if err := s.migrate(ctx); err != nil {
		pool.Close()

		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS actors (
			id          TEXT PRIMARY KEY,
			attributes  JSONB NOT NULL DEFAULT '{}'::jsonb
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			tx          TEXT NOT NULL REFERENCES actors(id),
			rx          TEXT NOT NULL REFERENCES actors(id),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS replies (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			tx          TEXT NOT NULL REFERENCES actors(id),
			rx          TEXT NOT NULL REFERENCES actors(id),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS message_replies (
			message_id  TEXT NOT NULL REFERENCES messages(id),
			reply_id    TEXT NOT NULL REFERENCES replies(id),
			PRIMARY KEY (message_id, reply_id)
		)`,
		`CREATE TABLE IF NOT EXISTS health (
			service          TEXT PRIMARY KEY,
			last_seen        TIMESTAMPTZ,
			enabled          BOOLEAN NOT NULL DEFAULT true,
			update_interval  BIGINT NOT NULL DEFAULT 0
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) EnsureActor(ctx context.Context, id string, attrs map[string]interface{}) (models.Actor, error) {
	if id == "" {
		return models.Actor{}, ErrActorRequired
	}

	if attrs == nil {
		attrs = map[string]interface{}{}
	}

	data, err := json.Marshal(attrs)
	if err != nil {
		return models.Actor{}, fmt.Errorf("store: marshal attributes: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO actors (id, attributes) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET attributes = actors.attributes || EXCLUDED.attributes
		RETURNING id, attributes`, id, data)

	return scanActor(row)
}

func (s *PostgresStore) GetActor(ctx context.Context, id string) (models.Actor, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, attributes FROM actors WHERE id = $1`, id)

	actor, err := scanActor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Actor{}, ErrUnknownActor
	}

	return actor, err
}

func scanActor(row pgx.Row) (models.Actor, error) {
	var (
		actor models.Actor
		data  []byte
	)

	if err := row.Scan(&actor.ID, &data); err != nil {
		return models.Actor{}, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &actor.Attributes); err != nil {
			return models.Actor{}, fmt.Errorf("store: unmarshal attributes: %w", err)
		}
	}

	if len(actor.Attributes) == 0 {
		actor.Attributes = nil
	}

	return actor, nil
}

func (s *PostgresStore) RecordMessage(ctx context.Context, name, tx, rx string) (models.Message, error) {
	if name == "" {
		return models.Message{}, ErrNameRequired
	}

	if tx == "" || rx == "" {
		return models.Message{}, ErrActorRequired
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Name:      name,
		TX:        tx,
		RX:        rx,
		CreatedAt: time.Now().UTC(),
	}

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO actors (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, tx)
	batch.Queue(`INSERT INTO actors (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, rx)
	batch.Queue(`INSERT INTO messages (id, name, tx, rx, created_at) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.Name, msg.TX, msg.RX, msg.CreatedAt)

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return models.Message{}, fmt.Errorf("store: record message: %w", err)
	}

	return msg, nil
}

func (s *PostgresStore) RecordReply(ctx context.Context, messageID, name, tx, rx string) (models.Reply, error) {
	if name == "" {
		return models.Reply{}, ErrNameRequired
	}

	if tx == "" || rx == "" {
		return models.Reply{}, ErrActorRequired
	}

	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)`, messageID).Scan(&exists); err != nil {
		return models.Reply{}, fmt.Errorf("store: check message: %w", err)
	}

	if !exists {
		return models.Reply{}, ErrUnknownMessage
	}

	reply := models.Reply{
		ID:        uuid.NewString(),
		Name:      name,
		TX:        tx,
		RX:        rx,
		CreatedAt: time.Now().UTC(),
	}

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO actors (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, tx)
	batch.Queue(`INSERT INTO actors (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, rx)
	batch.Queue(`INSERT INTO replies (id, name, tx, rx, created_at) VALUES ($1, $2, $3, $4, $5)`,
		reply.ID, reply.Name, reply.TX, reply.RX, reply.CreatedAt)
	batch.Queue(`INSERT INTO message_replies (message_id, reply_id) VALUES ($1, $2)`,
		messageID, reply.ID)

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return models.Reply{}, fmt.Errorf("store: record reply: %w", err)
	}

	return reply, nil
}

func (s *PostgresStore) Replies(ctx context.Context, messageID string) ([]models.Reply, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)`, messageID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("store: check message: %w", err)
	}

	if !exists {
		return nil, ErrUnknownMessage
	}

	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.name, r.tx, r.rx, r.created_at
		FROM replies r
		JOIN message_replies mr ON mr.reply_id = r.id
		WHERE mr.message_id = $1
		ORDER BY r.created_at`, messageID)
	if err != nil {
		return nil, fmt.Errorf("store: list replies: %w", err)
	}
	defer rows.Close()

	var out []models.Reply

	for rows.Next() {
		var r models.Reply

		if err := rows.Scan(&r.ID, &r.Name, &r.TX, &r.RX, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan reply: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate replies: %w", err)
	}

	return out, nil
}

func (s *PostgresStore) RegisterService(ctx context.Context, service string, interval models.Duration) (models.HealthRecord, error) {
	if service == "" {
		return models.HealthRecord{}, ErrServiceRequired
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO health (service, enabled, update_interval) VALUES ($1, true, $2)
		ON CONFLICT (service) DO UPDATE SET enabled = true, update_interval = EXCLUDED.update_interval
		RETURNING service, last_seen, enabled, update_interval`, service, int64(interval))

	return scanHealthRecord(row)
}

func (s *PostgresStore) MarkSeen(ctx context.Context, service string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE health SET last_seen = $2 WHERE service = $1`, service, at)
	if err != nil {
		return fmt.Errorf("store: mark seen: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrUnknownService
	}

	return nil
}

func (s *PostgresStore) SetEnabled(ctx context.Context, service string, enabled bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE health SET enabled = $2 WHERE service = $1`, service, enabled)
	if err != nil {
		return fmt.Errorf("store: set enabled: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrUnknownService
	}

	return nil
}

func (s *PostgresStore) GetHealthRecord(ctx context.Context, service string) (models.HealthRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT service, last_seen, enabled, update_interval FROM health WHERE service = $1`, service)

	record, err := scanHealthRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.HealthRecord{}, ErrUnknownService
	}

	return record, err
}

func (s *PostgresStore) ListHealthRecords(ctx context.Context) ([]models.HealthRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT service, last_seen, enabled, update_interval FROM health ORDER BY service`)
	if err != nil {
		return nil, fmt.Errorf("store: list health records: %w", err)
	}
	defer rows.Close()

	var out []models.HealthRecord

	for rows.Next() {
		record, err := scanHealthRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan health record: %w", err)
		}

		out = append(out, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate health records: %w", err)
	}

	return out, nil
}

func scanHealthRecord(row pgx.Row) (models.HealthRecord, error) {
	var (
		record   models.HealthRecord
		lastSeen *time.Time
		interval int64
	)

	if err := row.Scan(&record.Service, &lastSeen, &record.Enabled, &interval); err != nil {
		return models.HealthRecord{}, err
	}

	if lastSeen != nil {
		record.LastSeen = *lastSeen
	}

	record.UpdateInterval = models.Duration(interval)

	return record, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()

	return nil
}

var _ Store = (*PostgresStore)(nil)
