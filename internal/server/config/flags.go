package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/dutybadge/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-w string   HTTP bind address; empty disables the HTTP API
//	-s string   JWT HMAC secret key
//	-t string   storage backend: file, sqlite, postgres, s3, memory
//	-f string   state file (file) or database file (sqlite)
//	-d string   PostgreSQL DSN
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-k string   S3 object key
//	-l string   log format: json, text, zap
//	-v string   log level: debug, info, warn, error
//	-n int      sessions shown in a report by default
//	-shutdown-timeout duration   grace period for in-flight requests
//
// os.Args is filtered through flagx.FilterArgs first so flags owned by
// other layers (-c/-config) do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-w", "-s", "-t", "-f", "-d", "-u", "-p", "-b", "-g", "-e", "-k", "-l", "-v", "-n", "-shutdown-timeout",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.StorageType, "t", config.StorageType, "storage type")
	fs.StringVar(&config.DataFile, "f", config.DataFile, "data file")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3ObjectKey, "k", config.S3ObjectKey, "S3 object key")

	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")
	fs.IntVar(&config.RecentSessions, "n", config.RecentSessions, "recent sessions in a report")
	fs.DurationVar(&config.ShutdownTimeout, "shutdown-timeout", config.ShutdownTimeout, "shutdown timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
