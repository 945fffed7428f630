package roleconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFlags_MasterDefaultPort(t *testing.T) {
	cfg, err := FromFlags(0, "")
	assert.NoError(t, err)
	assert.Equal(t, RoleMaster, cfg.Role)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.False(t, cfg.IsReplica())
}

func TestFromFlags_MasterExplicitPort(t *testing.T) {
	cfg, err := FromFlags(6380, "")
	assert.NoError(t, err)
	assert.Equal(t, 6380, cfg.Port)
}

func TestFromFlags_Replica(t *testing.T) {
	cfg, err := FromFlags(6380, "localhost 6379")
	assert.NoError(t, err)
	assert.True(t, cfg.IsReplica())
	assert.Equal(t, "127.0.0.1", cfg.UpstreamHost)
	assert.Equal(t, 6379, cfg.UpstreamPort)
}

func TestFromFlags_ReplicaWithIP(t *testing.T) {
	cfg, err := FromFlags(6380, "10.0.0.5 7000")
	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.5", cfg.UpstreamHost)
	assert.Equal(t, 7000, cfg.UpstreamPort)
}

func TestFromFlags_ReplicaWrongTokenCount(t *testing.T) {
	_, err := FromFlags(6380, "localhost")
	assert.Error(t, err)

	_, err = FromFlags(6380, "localhost 6379 extra")
	assert.Error(t, err)
}

func TestFromFlags_ReplicaInvalidHost(t *testing.T) {
	_, err := FromFlags(6380, "not-an-ip 6379")
	assert.Error(t, err)
}

func TestFromFlags_ReplicaInvalidPort(t *testing.T) {
	tests := []string{"not-a-port", "100", "70000"}
	for _, port := range tests {
		_, err := FromFlags(6380, "localhost "+port)
		assert.Error(t, err)
	}
}
