package mongodb

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hxtubes/hxreport/internal/domain/models"
)

// Repository defines the interface for report storage.
type Repository interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// archivedReport is the stored document. Re-running a day replaces the previous copy.
type archivedReport struct {
	ID                 string `bson:"_id"`
	models.DailyReport `bson:",inline"`
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	return connect(ctx, options.Client().ApplyURI(uri), dbName)
}

func connect(ctx context.Context, clientOptions *options.ClientOptions, dbName string) (*MongoDBRepository, error) {
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "daily_reports",
	}, nil
}

// SaveDailyReport upserts the report keyed by its date and filter.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	if !report.Date.Known() {
		return fmt.Errorf("daily report has no date")
	}

	doc := archivedReport{ID: ReportKey(report), DailyReport: report}
	collection := r.client.Database(r.dbName).Collection(r.collName)
	_, err := collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert daily report %s: %w", doc.ID, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// ReportKey is the archive identity of a report: its date, plus the filter when one is set.
func ReportKey(report models.DailyReport) string {
	key := report.Date.String()
	if len(report.Filter.Areas) > 0 {
		key += "|areas=" + strings.Join(report.Filter.Areas, ",")
	}
	if len(report.Filter.Tags) > 0 {
		key += "|tags=" + strings.Join(report.Filter.Tags, ",")
	}
	return key
}
