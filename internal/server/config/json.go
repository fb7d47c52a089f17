package config

import (
	"encoding/json"
	"os"

	"github.com/everscaleid/backend/internal/flagx"
	"github.com/everscaleid/backend/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Interval fields use timex.Duration so both "30s" strings and integer
// nanoseconds parse; after unmarshalling the values are copied into the
// runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	DatabaseDSN        string         `json:"database_dsn"`
	SessionTTL         timex.Duration `json:"session_ttl"`
	ChallengeTTL       timex.Duration `json:"challenge_ttl"`
	ServicePublicKey   string         `json:"service_public_key"`
	ServiceSecretKey   string         `json:"service_secret_key"`
	DIDRegistryAddress string         `json:"did_registry_address"`
	LedgerEndpoints    []string       `json:"ledger_endpoints"`
	S3RootUser         string         `json:"s3_root_user"`
	S3RootPassword     string         `json:"s3_root_password"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flags into the provided Config. When no flag is given, nothing is
// loaded. An unreadable or malformed file panics: a requested config that
// cannot be applied should stop the process.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SessionTTL = c.SessionTTL.Duration
	config.ChallengeTTL = c.ChallengeTTL.Duration
	config.ServicePublicKey = c.ServicePublicKey
	config.ServiceSecretKey = c.ServiceSecretKey
	config.DIDRegistryAddress = c.DIDRegistryAddress
	config.LedgerEndpoints = c.LedgerEndpoints
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
