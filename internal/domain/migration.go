package domain

import "time"

type Migration struct {
	Name        string    `bson:"migrationName" json:"migrationName"`
	DateApplied time.Time `bson:"dateApplied" json:"dateApplied"`
}

type MigrationStatus string

const (
	MigrationStatusPending MigrationStatus = "pending"
	MigrationStatusApplied MigrationStatus = "applied"
)
