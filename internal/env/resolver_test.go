package env

import (
	"testing"

	"medisupply/mobile/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() map[string]config.DeploymentConfig {
	return map[string]config.DeploymentConfig{
		"local": {
			"catalog": {Port: 3001},
			"orders":  {Port: 8000},
		},
		"aws": {
			"catalog": {BaseURL: "https://bff.example.com", Path: "/api/v1/catalog"},
			"orders":  {BaseURL: "https://bff.example.com", Path: "/api/v1/orders"},
		},
		"production": {
			"catalog": {BaseURL: "https://prod.example.com", Path: "/api/v1/catalog"},
		},
	}
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		override string
		release  bool
		want     Environment
	}{
		{"override wins over debug build", "aws", false, AWS},
		{"override wins over release build", "aws", true, AWS},
		{"release build defaults to production", "", true, Production},
		{"debug build defaults to local", "", false, Local},
		{"invalid override falls through", "staging", true, Production},
		{"invalid override falls through to local", "bogus", false, Local},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.override, tt.release))
		})
	}
}

func TestServiceURLLocalPlatformHosts(t *testing.T) {
	tests := []struct {
		platform string
		want     string
	}{
		{"ios", "http://localhost:3001"},
		{"android", "http://10.0.2.2:3001"},
		{"device", "http://192.168.40.7:3001"},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			r := NewResolver(config.EnvironmentConfig{
				Platform: tt.platform,
				LANHost:  "192.168.40.7",
			}, testTable())
			require.Equal(t, Local, r.Environment())

			url, err := r.ServiceURL("catalog")
			require.NoError(t, err)
			assert.Equal(t, tt.want, url)
		})
	}
}

func TestServiceURLRemote(t *testing.T) {
	r := NewResolver(config.EnvironmentConfig{Override: "aws"}, testTable())

	url, err := r.ServiceURL("catalog")
	require.NoError(t, err)
	assert.Equal(t, "https://bff.example.com/api/v1/catalog", url)

	url, err = r.ServiceURL("orders")
	require.NoError(t, err)
	assert.Equal(t, "https://bff.example.com/api/v1/orders", url)
}

func TestServiceURLUnknownService(t *testing.T) {
	r := NewResolver(config.EnvironmentConfig{Override: "production"}, testTable())

	_, err := r.ServiceURL("billing")
	assert.Error(t, err)
}

func TestServiceURLMissingEnvironmentTable(t *testing.T) {
	r := NewResolver(config.EnvironmentConfig{Override: "aws"}, map[string]config.DeploymentConfig{})

	_, err := r.ServiceURL("catalog")
	assert.Error(t, err)
}

func TestResolverIsDeterministic(t *testing.T) {
	r := NewResolver(config.EnvironmentConfig{Platform: "android"}, testTable())

	first, err := r.ServiceURL("catalog")
	require.NoError(t, err)
	second, err := r.ServiceURL("catalog")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWebSocketURL(t *testing.T) {
	assert.Equal(t, "wss://bff.example.com/api/v1/catalog", WebSocketURL("https://bff.example.com/api/v1/catalog"))
	assert.Equal(t, "ws://10.0.2.2:3001", WebSocketURL("http://10.0.2.2:3001"))
	assert.Equal(t, "ws://already", WebSocketURL("ws://already"))
}
