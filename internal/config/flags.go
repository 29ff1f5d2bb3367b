package config

import (
	"flag"
	"fmt"
	"net"
	"strconv"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args.
//
// Flags:
//
//	-a sync server listen address [host]:[port]
//	-server sync server base URL used by the device agent
//	-device-address loopback address for push hooks [host]:[port]
//	-d database DSN (sqlite path or postgres URI)
//	-c/-config config file path (.json or .toml)
//	-prefs preferences file path
//	-log-file device agent log file
//	-token bearer token for the sync server
//	-token-sign-key token signing key (server)
//	-token-issuer token issuer name (server)
//	-token-duration lifetime of issued tokens (server)
//	-issue-token print a token for the given location and exit (server)
//	-request-timeout request timeout (e.g. "30s")
//	-batch-size operations per batch request
//	-max-retries retry ceiling before dead-letter
//	-network-type override link detection (wifi|cellular|ethernet)
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("resto-sync", flag.ContinueOnError)

	var serverAddress, deviceAddress NetAddress
	var (
		adapterAddress string
		databaseDSN    string
		configFilePath string
		prefsPath      string
		logFile        string
		token          string
		tokenSignKey   string
		tokenIssuer    string
		tokenDuration  time.Duration
		issueTokenFor  string
		requestTimeout time.Duration
		batchSize      int
		maxRetries     int
		networkType    string
	)

	fs.Var(&serverAddress, "a", "Sync server listen address host:port")
	fs.StringVar(&adapterAddress, "server", "", "Sync server base URL")
	fs.Var(&deviceAddress, "device-address", "Loopback address for push hooks host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&configFilePath, "c", "", "Config file path, .json or .toml")
	fs.StringVar(&configFilePath, "config", "", "Config file path, .json or .toml (alias)")
	fs.StringVar(&prefsPath, "prefs", "", "Preferences file path")
	fs.StringVar(&logFile, "log-file", "", "Log file path")
	fs.StringVar(&token, "token", "", "Bearer token")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Issued token lifetime (e.g., 720h)")
	fs.StringVar(&issueTokenFor, "issue-token", "", "Print a token for this location and exit")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.IntVar(&batchSize, "batch-size", 0, "Operations per batch request")
	fs.IntVar(&maxRetries, "max-retries", 0, "Retry ceiling before dead-letter")
	fs.StringVar(&networkType, "network-type", "", "Network type override")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{LogFile: logFile},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			TokenSignKey:   tokenSignKey,
			TokenIssuer:    tokenIssuer,
			TokenDuration:  tokenDuration,
			IssueTokenFor:  issueTokenFor,
		},
		Adapter: Adapter{
			HTTPAddress:    adapterAddress,
			RequestTimeout: requestTimeout,
			Token:          token,
		},
		Sync: Sync{
			BatchSize:   batchSize,
			MaxRetries:  maxRetries,
			NetworkType: networkType,
		},
		Device:       Device{Address: deviceAddress.String()},
		Prefs:        Prefs{Path: prefsPath},
		ConfigFilePath: configFilePath,
	}, nil
}

// String returns a canonical host:port string, or "" when unset.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses host:port. The host may be empty (all interfaces), "localhost"
// or an IP literal; IPv6 needs brackets.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: port %q is not in 1-65535", ErrInvalidAddress, rawPort)
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: host %q is not localhost or an IP", ErrInvalidAddress, host)
	}

	a.Host = host
	a.Port = port
	return nil
}
