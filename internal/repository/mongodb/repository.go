package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/internal/repository"
)

const (
	fuelsCollection     = "fuels"
	tanksCollection     = "tanks"
	pricesCollection    = "fuel_price_history"
	purchasesCollection = "purchases"
	dipsCollection      = "dip_entries"
	reportsCollection   = "sales_reports"
	accountsCollection  = "account_entries"
)

// MongoDBRepository implements repository.Repository with one collection per entity.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ repository.Repository = (*MongoDBRepository)(nil)

// priceEntryDocument keys price entries by ObjectID so sorting on _id
// restores insertion order, which the equal-date tie-break relies on.
type priceEntryDocument struct {
	ID     primitive.ObjectID          `bson:"_id"`
	Date   string                      `bson:"date"`
	Prices map[string]models.FuelPrice `bson:"prices"`
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri).SetRegistry(NewRegistry())
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{client: client, db: client.Database(dbName)}
	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return r, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	indexes := map[string]mongo.IndexModel{
		pricesCollection:    {Keys: bson.D{{Key: "date", Value: 1}}},
		purchasesCollection: {Keys: bson.D{{Key: "fuel_id", Value: 1}, {Key: "date", Value: 1}}},
		dipsCollection:      {Keys: bson.D{{Key: "tank_id", Value: 1}, {Key: "date", Value: 1}}},
		reportsCollection:   {Keys: bson.D{{Key: "date", Value: 1}}},
		accountsCollection:  {Keys: bson.D{{Key: "account", Value: 1}, {Key: "date", Value: 1}}},
	}
	for coll, model := range indexes {
		if _, err := r.db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", coll, err)
		}
	}
	return nil
}

func (r *MongoDBRepository) ListFuels(ctx context.Context) ([]models.Fuel, error) {
	var fuels []models.Fuel
	err := r.findAll(ctx, fuelsCollection, bson.M{}, bson.D{{Key: "_id", Value: 1}}, &fuels)
	return fuels, err
}

func (r *MongoDBRepository) GetFuel(ctx context.Context, id string) (models.Fuel, error) {
	var fuel models.Fuel
	err := r.findByID(ctx, fuelsCollection, id, &fuel)
	return fuel, err
}

func (r *MongoDBRepository) SaveFuel(ctx context.Context, fuel models.Fuel) error {
	return r.upsert(ctx, fuelsCollection, fuel.ID, fuel)
}

func (r *MongoDBRepository) ListTanks(ctx context.Context) ([]models.Tank, error) {
	var tanks []models.Tank
	err := r.findAll(ctx, tanksCollection, bson.M{}, bson.D{{Key: "_id", Value: 1}}, &tanks)
	return tanks, err
}

func (r *MongoDBRepository) GetTank(ctx context.Context, id string) (models.Tank, error) {
	var tank models.Tank
	err := r.findByID(ctx, tanksCollection, id, &tank)
	return tank, err
}

func (r *MongoDBRepository) SaveTank(ctx context.Context, tank models.Tank) error {
	return r.upsert(ctx, tanksCollection, tank.ID, tank)
}

func (r *MongoDBRepository) ListPriceEntries(ctx context.Context) ([]models.FuelPriceEntry, error) {
	var docs []priceEntryDocument
	if err := r.findAll(ctx, pricesCollection, bson.M{}, bson.D{{Key: "_id", Value: 1}}, &docs); err != nil {
		return nil, err
	}

	entries := make([]models.FuelPriceEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, models.FuelPriceEntry{Date: d.Date, Prices: d.Prices})
	}
	return entries, nil
}

func (r *MongoDBRepository) AddPriceEntry(ctx context.Context, entry models.FuelPriceEntry) error {
	doc := priceEntryDocument{ID: primitive.NewObjectID(), Date: entry.Date, Prices: entry.Prices}
	if _, err := r.db.Collection(pricesCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert price entry: %w", err)
	}
	return nil
}

func (r *MongoDBRepository) DeletePriceEntries(ctx context.Context, date string) (int, error) {
	res, err := r.db.Collection(pricesCollection).DeleteMany(ctx, bson.M{"date": date})
	if err != nil {
		return 0, fmt.Errorf("failed to delete price entries for %s: %w", date, err)
	}
	return int(res.DeletedCount), nil
}

func (r *MongoDBRepository) ListPurchases(ctx context.Context) ([]models.FuelPurchase, error) {
	var purchases []models.FuelPurchase
	err := r.findAll(ctx, purchasesCollection, bson.M{}, bson.D{{Key: "date", Value: 1}}, &purchases)
	return purchases, err
}

func (r *MongoDBRepository) GetPurchase(ctx context.Context, id string) (models.FuelPurchase, error) {
	var purchase models.FuelPurchase
	err := r.findByID(ctx, purchasesCollection, id, &purchase)
	return purchase, err
}

func (r *MongoDBRepository) SavePurchase(ctx context.Context, purchase models.FuelPurchase) error {
	return r.upsert(ctx, purchasesCollection, purchase.ID, purchase)
}

func (r *MongoDBRepository) DeletePurchase(ctx context.Context, id string) error {
	res, err := r.db.Collection(purchasesCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete purchase %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoDBRepository) ListDipEntries(ctx context.Context, tankID string) ([]models.DipEntry, error) {
	filter := bson.M{}
	if tankID != "" {
		filter["tank_id"] = tankID
	}
	var dips []models.DipEntry
	err := r.findAll(ctx, dipsCollection, filter, bson.D{{Key: "date", Value: 1}}, &dips)
	return dips, err
}

func (r *MongoDBRepository) SaveDipEntry(ctx context.Context, entry models.DipEntry) error {
	return r.upsert(ctx, dipsCollection, entry.ID, entry)
}

func (r *MongoDBRepository) DeleteDipEntry(ctx context.Context, id string) error {
	res, err := r.db.Collection(dipsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete dip entry %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoDBRepository) ListSalesReports(ctx context.Context) ([]models.SalesReport, error) {
	var reports []models.SalesReport
	err := r.findAll(ctx, reportsCollection, bson.M{}, bson.D{{Key: "date", Value: 1}}, &reports)
	return reports, err
}

func (r *MongoDBRepository) GetSalesReport(ctx context.Context, id string) (models.SalesReport, error) {
	var report models.SalesReport
	err := r.findByID(ctx, reportsCollection, id, &report)
	return report, err
}

func (r *MongoDBRepository) SaveSalesReport(ctx context.Context, report models.SalesReport) error {
	return r.upsert(ctx, reportsCollection, report.ID, report)
}

func (r *MongoDBRepository) ListAccountEntries(ctx context.Context, account string) ([]models.AccountEntry, error) {
	var entries []models.AccountEntry
	err := r.findAll(ctx, accountsCollection, bson.M{"account": account}, bson.D{{Key: "date", Value: 1}}, &entries)
	return entries, err
}

func (r *MongoDBRepository) SaveAccountEntry(ctx context.Context, entry models.AccountEntry) error {
	return r.upsert(ctx, accountsCollection, entry.ID, entry)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) findAll(ctx context.Context, coll string, filter interface{}, sort bson.D, out interface{}) error {
	cursor, err := r.db.Collection(coll).Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", coll, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", coll, err)
	}
	return nil
}

func (r *MongoDBRepository) findByID(ctx context.Context, coll, id string, out interface{}) error {
	err := r.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load %s %s: %w", coll, id, err)
	}
	return nil
}

func (r *MongoDBRepository) upsert(ctx context.Context, coll, id string, doc interface{}) error {
	_, err := r.db.Collection(coll).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save %s %s: %w", coll, id, err)
	}
	return nil
}
