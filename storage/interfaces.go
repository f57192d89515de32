package storage

import "github.com/g33150641-hub/matziprank/models"

// RecordWriter persists one collection run, replacing any previous run.
type RecordWriter interface {
	Write(records []*models.ListingRecord) error
}

// RecordReader loads the most recent collection run.
type RecordReader interface {
	Read() ([]*models.ListingRecord, error)
}
