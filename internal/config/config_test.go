package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Fallbacks(t *testing.T) {
	for _, key := range []string{"WHATSAPP_NUMBER", "BRAND_NAME", "ADMIN_PASSWORD", "STORAGE_BUCKET", "PORT", "SCYLLA_HOSTS"} {
		t.Setenv(key, "")
	}

	s := FromEnv()
	assert.Equal(t, DefaultWhatsAppNumber, s.WhatsAppNumber)
	assert.Equal(t, DefaultBrandName, s.BrandName)
	assert.Equal(t, DefaultAdminPassword, s.AdminPassword)
	assert.Equal(t, DefaultPort, s.Port)
	assert.Empty(t, s.StorageBucket)
	assert.Empty(t, s.ScyllaHosts)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "laine")
	t.Setenv("STORAGE_BUCKET", "crochet-images")
	t.Setenv("SCYLLA_HOSTS", "10.0.0.1, 10.0.0.2,")
	t.Setenv("MINIO_USE_SSL", "TRUE")
	t.Setenv("ADMIN_PASSWORD_HASH", "$argon2id$v=19$m=32768,t=1,p=4$c2FsdA$aGFzaA")

	s := FromEnv()
	assert.Equal(t, "laine", s.AdminPassword)
	assert.Equal(t, "crochet-images", s.StorageBucket)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, s.ScyllaHosts)
	assert.True(t, s.MinioUseSSL)
	assert.Equal(t, "$argon2id$v=19$m=32768,t=1,p=4$c2FsdA$aGFzaA", s.AdminPasswordHash)
}
