package services

import (
	"context"
	"fmt"
	"strings"

	"go-fooddelivery/models"
	"go-fooddelivery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// MenuItemInput is the body of an add menu item request
type MenuItemInput struct {
	Name        string   `json:"name" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Description string   `json:"description" validate:"required"`
}

// RestaurantService maintains the embedded menu and tag arrays of restaurants.
// Every method returns the updated restaurant, or nil when the restaurant does not exist.
type RestaurantService struct {
	writeHooks
	store     Store
	validator *utils.Validator
}

// NewRestaurantService creates a RestaurantService. cache and publisher may be nil.
func NewRestaurantService(store Store, cache ReportCache, publisher ChangePublisher, logger *zap.Logger) *RestaurantService {
	return &RestaurantService{
		writeHooks: newWriteHooks(cache, publisher, logger),
		store:      store,
		validator:  utils.NewValidator(),
	}
}

// AddMenuItem appends a new item with a fresh identifier to the menu
func (s *RestaurantService) AddMenuItem(ctx context.Context, restaurantID string, in MenuItemInput) (bson.M, error) {
	if v := s.validator.Struct(&in); len(v) > 0 {
		return nil, &ValidationError{Collection: models.RestaurantsCollection, Violations: v}
	}
	item := models.MenuItem{
		ID:          s.newID(),
		Name:        in.Name,
		Price:       *in.Price,
		Description: in.Description,
	}
	return s.update(ctx, "menu.add", bson.M{"_id": restaurantID}, bson.M{
		"$push": bson.M{"menu": item},
	}, restaurantID)
}

// RemoveMenuItem pulls the item from the menu. An unknown item id leaves the menu unchanged.
func (s *RestaurantService) RemoveMenuItem(ctx context.Context, restaurantID, itemID string) (bson.M, error) {
	return s.update(ctx, "menu.remove", bson.M{"_id": restaurantID}, bson.M{
		"$pull": bson.M{"menu": bson.M{"_id": itemID}},
	}, restaurantID)
}

// AddTag adds tag to the restaurant's tag set, adding an existing tag changes nothing
func (s *RestaurantService) AddTag(ctx context.Context, restaurantID, tag string) (bson.M, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, &ValidationError{Collection: models.RestaurantsCollection, Violations: []utils.FieldViolation{{
			Field: "tag", Rule: "required", Message: "tag must not be empty",
		}}}
	}
	return s.update(ctx, "tags.add", bson.M{"_id": restaurantID}, bson.M{
		"$addToSet": bson.M{"tags": tag},
	}, restaurantID)
}

// SetMenuItemPrice replaces the price of one menu item. The item is matched within the
// given restaurant only, so equal item ids in other restaurants are never touched.
func (s *RestaurantService) SetMenuItemPrice(ctx context.Context, restaurantID, itemID string, price *float64) (bson.M, error) {
	if price == nil || *price < 0 {
		return nil, &ValidationError{Collection: models.RestaurantsCollection, Violations: []utils.FieldViolation{{
			Field: "newPrice", Rule: "gte", Message: "newPrice must be a number >= 0",
		}}}
	}
	return s.update(ctx, "menu.price", bson.M{"_id": restaurantID, "menu._id": itemID}, bson.M{
		"$set": bson.M{"menu.$.price": *price},
	}, restaurantID)
}

func (s *RestaurantService) update(ctx context.Context, op string, filter, update bson.M, restaurantID string) (bson.M, error) {
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = s.now()
	} else {
		update["$set"] = bson.M{"updatedAt": s.now()}
	}
	doc, err := s.store.FindOneAndUpdate(ctx, models.RestaurantsCollection, filter, update)
	if err != nil {
		s.logger.Error("restaurant update failed", zap.String("op", op), zap.String("restaurant", restaurantID), zap.Error(err))
		return nil, fmt.Errorf("restaurant %s: %w", op, err)
	}
	if doc == nil {
		return nil, nil
	}
	s.afterWrite(ctx, models.RestaurantsCollection, op, []string{restaurantID}, 1)
	return doc, nil
}
