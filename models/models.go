package models

import "time"

// SummaryRecord is one persisted classification run.
type SummaryRecord struct {
	ID          int64     `json:"id" bson:"-"`
	Name        string    `json:"name" bson:"name"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	Accuracy    float32   `json:"accuracy" bson:"accuracy"`
	AvgAccuracy float32   `json:"avg_accuracy" bson:"avg_accuracy"`
}
