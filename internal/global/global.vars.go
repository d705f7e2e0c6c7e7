package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JennyYuanZW/JianshanPortal/config"
	"github.com/JennyYuanZW/JianshanPortal/internal/registry"
)

// MongoDB_CollectionName holds the names of the MongoDB collections.
type MongoDB_CollectionName struct {
	Applications string // Admission application documents, one per candidate
}

// Global variables shared across the server.
var Validate *validator.Validate             // Request payload validator
var MongoDB_Session *mongo.Client            // MongoDB client session
var ServerConfig *config.Configuration       // Server configuration
var MongoDB_ColNames MongoDB_CollectionName = *new(MongoDB_CollectionName)

// Registries
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registered collections by name
