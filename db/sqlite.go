package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"sequence-recognition/models"
	"sequence-recognition/utils"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

type SQLiteClient struct {
	db *sql.DB
}

func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	// Extract the file path before query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" && !strings.HasPrefix(dbPath, ":memory:") {
		if err := utils.CreateFolder(dbDir); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	// busy timeout in milliseconds
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000"
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

func createTables(db *sql.DB) error {
	createSummariesTable := `
    CREATE TABLE IF NOT EXISTS summaries (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        accuracy REAL NOT NULL,
        avg_accuracy REAL NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_summaries_name ON summaries(name, timestamp);
    `

	if _, err := db.Exec(createSummariesTable); err != nil {
		return fmt.Errorf("error creating summaries table: %w", err)
	}
	return nil
}

func (db *SQLiteClient) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// StoreSummary inserts a summary record and sets its ID.
func (db *SQLiteClient) StoreSummary(ctx context.Context, record *models.SummaryRecord) error {
	res, err := db.db.ExecContext(ctx,
		"INSERT INTO summaries (name, timestamp, accuracy, avg_accuracy) VALUES (?, ?, ?, ?)",
		record.Name,
		record.Timestamp,
		record.Accuracy,
		record.AvgAccuracy,
	)
	if err != nil {
		return fmt.Errorf("error storing summary: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading summary id: %w", err)
	}
	record.ID = id
	return nil
}

// GetSummaries returns the records stored under name, newest first.
func (db *SQLiteClient) GetSummaries(ctx context.Context, name string) ([]models.SummaryRecord, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, name, timestamp, accuracy, avg_accuracy
		FROM summaries
		WHERE name = ?
		ORDER BY timestamp DESC, id DESC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("error querying summaries: %w", err)
	}
	defer rows.Close()

	var records []models.SummaryRecord
	for rows.Next() {
		var r models.SummaryRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Timestamp, &r.Accuracy, &r.AvgAccuracy); err != nil {
			return nil, fmt.Errorf("error scanning summary: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summaries: %w", err)
	}
	return records, nil
}
