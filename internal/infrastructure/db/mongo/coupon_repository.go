package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

const couponCollection = "coupons"

type CouponRepository struct {
	coll *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) *CouponRepository {
	return &CouponRepository{coll: db.Collection(couponCollection)}
}

type mongoCoupon struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Code               string             `bson:"code"`
	DiscountPercentage int                `bson:"discount_percentage"`
	ExpirationDate     int64              `bson:"expiration_date"`
	IsActive           bool               `bson:"is_active"`
	UserID             primitive.ObjectID `bson:"user_id"`
}

// Replace stores coupon as the single coupon for its user, removing any
// previous one first.
func (r *CouponRepository) Replace(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error) {
	uid, err := primitive.ObjectIDFromHex(coupon.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	if _, err := r.coll.DeleteMany(ctx, bson.M{"user_id": uid}); err != nil {
		return nil, fmt.Errorf("replace coupon: %w", err)
	}

	doc := mongoCoupon{
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
		ExpirationDate:     coupon.ExpirationDate.Unix(),
		IsActive:           coupon.IsActive,
		UserID:             uid,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert coupon: %w", err)
	}

	created := *coupon
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *CouponRepository) FindActiveByUser(ctx context.Context, userID string) (*domain.Coupon, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrCouponNotFound
	}
	return r.findOne(ctx, bson.M{"user_id": uid, "is_active": true})
}

func (r *CouponRepository) FindByCode(ctx context.Context, code, userID string) (*domain.Coupon, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrCouponNotFound
	}
	return r.findOne(ctx, bson.M{"code": code, "user_id": uid, "is_active": true})
}

func (r *CouponRepository) Deactivate(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCouponNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return fmt.Errorf("deactivate coupon: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}

func (r *CouponRepository) findOne(ctx context.Context, filter bson.M) (*domain.Coupon, error) {
	var mc mongoCoupon
	if err := r.coll.FindOne(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return &domain.Coupon{
		ID:                 mc.ID.Hex(),
		Code:               mc.Code,
		DiscountPercentage: mc.DiscountPercentage,
		ExpirationDate:     unixToTime(mc.ExpirationDate),
		IsActive:           mc.IsActive,
		UserID:             mc.UserID.Hex(),
	}, nil
}
