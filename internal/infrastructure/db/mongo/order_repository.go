package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

const orderCollection = "orders"

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(orderCollection)}
}

type mongoOrderItem struct {
	ProductID primitive.ObjectID `bson:"product"`
	Quantity  int                `bson:"quantity"`
	Price     float64            `bson:"price"`
}

type mongoOrder struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	Items       []mongoOrderItem   `bson:"items"`
	TotalAmount float64            `bson:"total_amount"`
	SessionID   string             `bson:"session_id"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	uid, err := primitive.ObjectIDFromHex(order.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	items := make([]mongoOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		pid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, domain.ErrProductNotFound
		}
		items = append(items, mongoOrderItem{ProductID: pid, Quantity: item.Quantity, Price: item.Price})
	}

	doc := mongoOrder{
		UserID:      uid,
		Items:       items,
		TotalAmount: order.TotalAmount,
		SessionID:   order.SessionID,
		CreatedAt:   order.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	created := *order
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// Summary aggregates order count and total revenue.
func (r *OrderRepository) Summary(ctx context.Context) (*ports.SalesSummary, error) {
	cursor, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_sales", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total_revenue", Value: bson.D{{Key: "$sum", Value: "$total_amount"}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	defer cursor.Close(ctx)

	var row struct {
		TotalSales   int64   `bson:"total_sales"`
		TotalRevenue float64 `bson:"total_revenue"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode sales summary: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return &ports.SalesSummary{TotalSales: row.TotalSales, TotalRevenue: row.TotalRevenue}, nil
}

// DailySales buckets revenue by calendar day between from and to.
func (r *OrderRepository) DailySales(ctx context.Context, from, to time.Time) ([]ports.DailySales, error) {
	cursor, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "created_at", Value: bson.D{
				{Key: "$gte", Value: from},
				{Key: "$lte", Value: to},
			}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$created_at"},
			}}}},
			{Key: "sales", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total_amount"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	defer cursor.Close(ctx)

	var out []ports.DailySales
	for cursor.Next(ctx) {
		var row struct {
			Date    string  `bson:"_id"`
			Sales   int64   `bson:"sales"`
			Revenue float64 `bson:"revenue"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode daily sales: %w", err)
		}
		out = append(out, ports.DailySales{Date: row.Date, Sales: row.Sales, Revenue: row.Revenue})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	return out, nil
}
