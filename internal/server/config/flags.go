package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/fieldreports/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3333")
//	-r string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   device token HMAC secret
//	-i string   comma separated police identifiers
//	-p string   police identifier pattern
//	-b string   S3 bucket name
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000")
//	-x string   comma separated trusted proxies (addresses or CIDRs)
//	-l string   log level
//	-f string   log file
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, so -c/-config and unknown flags are ignored here.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-d", "-s", "-i", "-p", "-b", "-e", "-x", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port to run server")
	fs.StringVar(&config.GRPCAddr, "r", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DeviceTokenSecret, "s", config.DeviceTokenSecret, "device token secret")
	ids := fs.String("i", strings.Join(config.PoliceIdentifiers, ","), "police identifiers (comma separated)")
	fs.StringVar(&config.PoliceIdentifierPattern, "p", config.PoliceIdentifierPattern, "police identifier pattern")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	proxies := fs.String("x", strings.Join(config.TrustedProxies, ","), "trusted proxies (comma separated)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFile, "f", config.LogFile, "log file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.PoliceIdentifiers = splitList(*ids)
	config.TrustedProxies = splitList(*proxies)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
