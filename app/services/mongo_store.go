package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/listing-locator/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names
const (
	UnitsCollection  = "location_units"
	AuditsCollection = "audit_reports"
)

// UnitStore persists taxonomy units
type UnitStore interface {
	ReplaceUnits(ctx context.Context, version string, units []models.AdminUnit) error
	LoadUnits(ctx context.Context) ([]models.AdminUnit, error)
	CountUnits(ctx context.Context) (int64, error)
}

// AuditStore persists audit runs
type AuditStore interface {
	SaveRun(ctx context.Context, run *models.AuditRun) error
	LatestRun(ctx context.Context) (*models.AuditRun, error)
	CountRuns(ctx context.Context) (int64, error)
}

// MongoStore keeps taxonomy units and audit history in MongoDB
type MongoStore struct {
	db     *mongo.Database
	units  *mongo.Collection
	audits *mongo.Collection
	logger *zap.Logger
}

// NewMongoStore wraps db and ensures the indexes exist
func NewMongoStore(db *mongo.Database, logger *zap.Logger) *MongoStore {
	ms := &MongoStore{
		db:     db,
		units:  db.Collection(UnitsCollection),
		audits: db.Collection(AuditsCollection),
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	unitIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "admin_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "level", Value: 1}, bson.E{Key: "position", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "taxonomy_version", Value: 1}},
		},
	}
	if _, err := ms.units.Indexes().CreateMany(ctx, unitIndexes); err != nil {
		logger.Warn("cannot create location_units indexes", zap.Error(err))
	}

	auditIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "run_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "created_at", Value: -1}},
		},
	}
	if _, err := ms.audits.Indexes().CreateMany(ctx, auditIndexes); err != nil {
		logger.Warn("cannot create audit_reports indexes", zap.Error(err))
	}

	return ms
}

// ReplaceUnits swaps the stored taxonomy for units. Ids derive from the
// normalized path, so a node that survives a reseed keeps its id.
func (ms *MongoStore) ReplaceUnits(ctx context.Context, version string, units []models.AdminUnit) error {
	documents := make([]interface{}, len(units))
	for i := range units {
		units[i].TaxonomyVersion = version
		documents[i] = units[i]
	}

	deleted, err := ms.units.DeleteMany(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to delete old units: %w", err)
	}
	if len(documents) > 0 {
		if _, err := ms.units.InsertMany(ctx, documents); err != nil {
			return fmt.Errorf("failed to insert units: %w", err)
		}
	}

	ms.logger.Info("location units replaced",
		zap.String("taxonomy_version", version),
		zap.Int64("deleted_count", deleted.DeletedCount),
		zap.Int("inserted_count", len(documents)))
	return nil
}

// LoadUnits returns every stored unit
func (ms *MongoStore) LoadUnits(ctx context.Context) ([]models.AdminUnit, error) {
	opts := options.Find().SetSort(bson.D{bson.E{Key: "level", Value: 1}, bson.E{Key: "position", Value: 1}})
	cursor, err := ms.units.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer cursor.Close(ctx)

	var units []models.AdminUnit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("failed to decode units: %w", err)
	}
	return units, nil
}

func (ms *MongoStore) CountUnits(ctx context.Context) (int64, error) {
	return ms.units.CountDocuments(ctx, bson.M{})
}

// SaveRun stores one audit run
func (ms *MongoStore) SaveRun(ctx context.Context, run *models.AuditRun) error {
	if _, err := ms.audits.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to store audit run: %w", err)
	}
	return nil
}

// LatestRun returns the newest audit run, nil when none exists
func (ms *MongoStore) LatestRun(ctx context.Context) (*models.AuditRun, error) {
	opts := options.FindOne().SetSort(bson.D{bson.E{Key: "created_at", Value: -1}})

	var run models.AuditRun
	err := ms.audits.FindOne(ctx, bson.M{}, opts).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest audit run: %w", err)
	}
	return &run, nil
}

func (ms *MongoStore) CountRuns(ctx context.Context) (int64, error) {
	return ms.audits.CountDocuments(ctx, bson.M{})
}

// Ping checks the MongoDB connection
func (ms *MongoStore) Ping(ctx context.Context) error {
	return ms.db.Client().Ping(ctx, nil)
}
