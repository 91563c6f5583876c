package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Valeurs par défaut quand la variable n'est pas fournie
const (
	DefaultWhatsAppNumber = "2290144167365"
	DefaultBrandName      = "Marifath's Crochet"
	// DefaultAdminPassword reste volontairement trivial : la porte admin n'est
	// qu'un confort d'interface, pas une authentification.
	DefaultAdminPassword = "crochet"
	DefaultPort          = "8080"
	DefaultSessionSecret = "marifath-dev-session-secret"
)

type Settings struct {
	WhatsAppNumber    string
	BrandName         string
	AdminPassword     string
	AdminPasswordHash string // argon2id, prend le pas sur AdminPassword
	StorageBucket     string // vide = pas d'upload, images encodées en data URL
	Port              string
	SessionSecret     string
	AllowedOrigins    []string

	ScyllaHosts    []string
	ScyllaKeyspace string
	ScyllaUsername string
	ScyllaPassword string

	RedisHost     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string
}

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// FromEnv lit la configuration depuis l'environnement (après Load)
func FromEnv() Settings {
	return Settings{
		WhatsAppNumber:    getenv("WHATSAPP_NUMBER", DefaultWhatsAppNumber),
		BrandName:         getenv("BRAND_NAME", DefaultBrandName),
		AdminPassword:     getenv("ADMIN_PASSWORD", DefaultAdminPassword),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		StorageBucket:     os.Getenv("STORAGE_BUCKET"),
		Port:              getenv("PORT", DefaultPort),
		SessionSecret:     getenv("SESSION_SECRET", DefaultSessionSecret),
		AllowedOrigins:    splitList(os.Getenv("ALLOWED_ORIGINS")),

		ScyllaHosts:    splitList(os.Getenv("SCYLLA_HOSTS")),
		ScyllaKeyspace: getenv("SCYLLA_KEYSPACE", "storefront"),
		ScyllaUsername: os.Getenv("SCYLLA_USERNAME"),
		ScyllaPassword: os.Getenv("SCYLLA_PASSWORD"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:    strings.ToLower(os.Getenv("MINIO_USE_SSL")) == "true",

		ElasticURL:      os.Getenv("ELASTIC_URL"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),
	}
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
