package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sequence-recognition/c12n"
	"sequence-recognition/models"
	"sequence-recognition/utils"
)

// DBClient stores classification summaries.
type DBClient interface {
	StoreSummary(ctx context.Context, record *models.SummaryRecord) error
	GetSummaries(ctx context.Context, name string) ([]models.SummaryRecord, error)
	Close() error
}

// NewDBClient opens the store selected by DB_TYPE: "sqlite" (default,
// DB_PATH) or "mongo" (MONGO_URI, MONGO_DATABASE).
func NewDBClient(ctx context.Context) (DBClient, error) {
	dbType := strings.ToLower(utils.GetEnv("DB_TYPE", "sqlite"))

	switch dbType {
	case "sqlite":
		client, err := NewSQLiteClient(utils.GetEnv("DB_PATH", "db/results.sqlite3"))
		if err != nil {
			return nil, err
		}
		return client, nil
	case "mongo", "mongodb":
		uri := utils.GetEnv("MONGO_URI", "mongodb://localhost:27017")
		database := utils.GetEnv("MONGO_DATABASE", "sequence_recognition")
		client, err := NewMongoClient(ctx, uri, database)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// SummaryDestination stores summaries in a DBClient under a run name.
type SummaryDestination struct {
	Client DBClient
	Name   string
	Now    func() time.Time
}

var _ c12n.SummaryWriter = SummaryDestination{}

func (d SummaryDestination) WriteSummary(ctx context.Context, summary c12n.Summary) error {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return d.Client.StoreSummary(ctx, &models.SummaryRecord{
		Name:        d.Name,
		Timestamp:   now().UTC(),
		Accuracy:    summary.Accuracy,
		AvgAccuracy: summary.AvgAccuracy,
	})
}
