package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/everscaleid/backend/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":4000")
//	-d string   PostgreSQL DSN
//	-t int      session TTL, hours
//	-k string   service ed25519 secret key (hex seed)
//	-K string   service ed25519 public key (hex)
//	-r string   DID registry contract address
//	-l string   comma-separated ledger endpoints
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-k", "-K", "-r", "-l", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session TTL (in hours)")

	fs.StringVar(&config.ServiceSecretKey, "k", config.ServiceSecretKey, "service secret key (hex seed)")
	fs.StringVar(&config.ServicePublicKey, "K", config.ServicePublicKey, "service public key (hex)")
	fs.StringVar(&config.DIDRegistryAddress, "r", config.DIDRegistryAddress, "DID registry address")

	endpoints := fs.String("l", strings.Join(config.LedgerEndpoints, ","), "ledger endpoints (comma-separated)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
	if *endpoints != "" {
		config.LedgerEndpoints = strings.Split(*endpoints, ",")
	}
}
