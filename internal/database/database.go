package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"crochet_storefront/internal/config"
)

// Connections regroupe les clients vers le backend hébergé. Un client nil
// signifie que le service n'est pas configuré : l'application se rabat alors
// sur son implémentation en mémoire.
type Connections struct {
	Scylla  *gocql.Session
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
}

// Connect ouvre les connexions configurées. Seule une configuration présente
// mais injoignable est une erreur.
func Connect(ctx context.Context, s config.Settings) (*Connections, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conns := &Connections{}
	var err error

	if conns.Scylla, err = connectScylla(s); err != nil {
		return nil, err
	}
	if conns.Redis, err = connectRedis(ctx, s); err != nil {
		conns.Close()
		return nil, err
	}
	if conns.Elastic, err = connectElastic(s); err != nil {
		conns.Close()
		return nil, err
	}
	if conns.MinIO, err = connectMinIO(ctx, s); err != nil {
		conns.Close()
		return nil, err
	}
	return conns, nil
}

func (c *Connections) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
		log.Println("🔌 Session ScyllaDB fermée")
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

// =============================================
// SCYLLA DB
// =============================================

func connectScylla(s config.Settings) (*gocql.Session, error) {
	if len(s.ScyllaHosts) == 0 {
		log.Println("⚠️ SCYLLA_HOSTS non configuré, tables en mémoire")
		return nil, nil
	}

	// le keyspace est créé avec une session sans keyspace, puis on s'y connecte
	bootstrap := newCluster(s)
	bootstrap.Keyspace = ""
	admin, err := bootstrap.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session ScyllaDB: %w", err)
	}
	err = EnsureKeyspace(admin, s.ScyllaKeyspace)
	admin.Close()
	if err != nil {
		return nil, err
	}

	session, err := newCluster(s).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session pour %s: %w", s.ScyllaKeyspace, err)
	}
	if err := EnsureTables(session); err != nil {
		session.Close()
		return nil, err
	}
	log.Printf("✅ Session ScyllaDB pour keyspace '%s'", s.ScyllaKeyspace)
	return session, nil
}

func newCluster(s config.Settings) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(s.ScyllaHosts...)
	cluster.Keyspace = s.ScyllaKeyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.NumConns = 4
	cluster.ReconnectInterval = 1 * time.Second
	if s.ScyllaUsername != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: s.ScyllaUsername,
			Password: s.ScyllaPassword,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster
}

// =============================================
// REDIS
// =============================================

func connectRedis(ctx context.Context, s config.Settings) (*redis.Client, error) {
	if s.RedisHost == "" {
		log.Println("⚠️ REDIS_HOST non configuré, préférences de thème en mémoire")
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         s.RedisHost,
		Password:     s.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("impossible de se connecter à Redis: %w", err)
	}
	log.Println("✅ Connecté à Redis")
	return client, nil
}

// =============================================
// ELASTICSEARCH
// =============================================

func connectElastic(s config.Settings) (*elasticsearch.Client, error) {
	if s.ElasticURL == "" {
		log.Println("⚠️ ELASTIC_URL non configuré, recherche en mémoire")
		return nil, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{s.ElasticURL},
		Username:  s.ElasticUser,
		Password:  s.ElasticPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur création client Elasticsearch: %w", err)
	}
	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("erreur connexion Elasticsearch: %w", err)
	}
	res.Body.Close()
	log.Println("✅ Connecté à Elasticsearch")
	return client, nil
}

// =============================================
// MINIO
// =============================================

func connectMinIO(ctx context.Context, s config.Settings) (*minio.Client, error) {
	if s.MinioEndpoint == "" {
		log.Println("⚠️ MINIO_ENDPOINT non configuré, stockage objet en mémoire")
		return nil, nil
	}
	client, err := minio.New(s.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.MinioAccessKey, s.MinioSecretKey, ""),
		Secure: s.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur connexion MinIO: %w", err)
	}

	if s.StorageBucket != "" {
		exists, err := client.BucketExists(ctx, s.StorageBucket)
		if err != nil {
			return nil, fmt.Errorf("erreur vérification bucket MinIO: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, s.StorageBucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("erreur création bucket MinIO: %w", err)
			}
			if err := client.SetBucketPolicy(ctx, s.StorageBucket, publicReadPolicy(s.StorageBucket)); err != nil {
				log.Printf("⚠️ Politique de lecture publique non appliquée sur %s: %v", s.StorageBucket, err)
			}
			log.Println("🪣 Bucket créé :", s.StorageBucket)
		} else {
			log.Println("🪣 Bucket MinIO déjà présent :", s.StorageBucket)
		}
	}

	log.Println("✅ Connecté à MinIO :", s.MinioEndpoint)
	return client, nil
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}
