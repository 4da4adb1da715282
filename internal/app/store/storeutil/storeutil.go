// Package storeutil holds small helpers shared by the Mongo stores.
package storeutil

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewestFirst sorts by creation time descending.
func NewestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

// FavoritesFirst sorts favorites ahead of the rest, newest first within
// each group.
func FavoritesFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{
		{Key: "is_favorite", Value: -1},
		{Key: "created_at", Value: -1},
	})
}
