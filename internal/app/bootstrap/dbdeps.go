// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/larabeck/atelier/internal/app/store/pushsub"
	"github.com/larabeck/atelier/internal/app/system/mailer"
	"github.com/larabeck/atelier/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to subsequent lifecycle
// hooks: EnsureSchema, Startup, BuildHandler, and Shutdown. It serves as
// the central place to store all database clients and backend connections
// that the application needs.
//
// The Shutdown hook is responsible for closing these connections gracefully
// when the application terminates.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// FileStorage for uploaded media (portfolio images, blog covers)
	FileStorage storage.Store

	// Mailer for owner notification emails
	Mailer *mailer.Mailer

	// PushSubs holds the site owner's Web Push subscriptions
	PushSubs *pushsub.Store

	// Notifier fans booking and content events out to email and push
	Notifier *notify.Notifier
}
