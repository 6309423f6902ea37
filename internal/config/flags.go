package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-auth-token-key session auth token key
//	-legacy-hash-key legacy password hash key
//	-bcrypt-cost bcrypt cost for new password hashes
//	-lockout-threshold failed attempts before lockout
//	-lockout-window lockout counting window (e.g., "15m")
//	-session-idle-timeout session idle timeout (e.g., "30m")
//	-reset-token-sign-key reset token signing key
//	-reset-token-issuer reset token issuer name
//	-reset-token-duration reset token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-session-backend session store backend (memory|sqlite)
//	-session-dsn sqlite session store file path
//	-purge-interval attempt ledger purge interval (e.g., "1h")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var authTokenKey string
	var legacyHashKey string
	var bcryptCost int
	var lockoutThreshold int
	var lockoutWindow time.Duration
	var sessionIdleTimeout time.Duration
	var resetTokenSignKey string
	var resetTokenIssuer string
	var resetTokenDuration time.Duration
	var requestTimeout time.Duration
	var sessionBackend string
	var sessionDSN string
	var purgeInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&authTokenKey, "auth-token-key", "", "Session auth token key")
	flag.StringVar(&legacyHashKey, "legacy-hash-key", "", "Legacy password hash key")
	flag.IntVar(&bcryptCost, "bcrypt-cost", 0, "Bcrypt cost for new password hashes")
	flag.IntVar(&lockoutThreshold, "lockout-threshold", 0, "Failed attempts before lockout")
	flag.DurationVar(&lockoutWindow, "lockout-window", 0, "Lockout counting window (e.g., 15m)")
	flag.DurationVar(&sessionIdleTimeout, "session-idle-timeout", 0, "Session idle timeout (e.g., 30m)")
	flag.StringVar(&resetTokenSignKey, "reset-token-sign-key", "", "Reset token signing key")
	flag.StringVar(&resetTokenIssuer, "reset-token-issuer", "", "Reset token issuer")
	flag.DurationVar(&resetTokenDuration, "reset-token-duration", 0, "Reset token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&sessionBackend, "session-backend", "", "Session store backend (memory|sqlite)")
	flag.StringVar(&sessionDSN, "session-dsn", "", "SQLite session store file path")
	flag.DurationVar(&purgeInterval, "purge-interval", 0, "Attempt ledger purge interval (e.g., 1h)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			AuthTokenKey:       authTokenKey,
			LegacyHashKey:      legacyHashKey,
			BcryptCost:         bcryptCost,
			LockoutThreshold:   lockoutThreshold,
			LockoutWindow:      lockoutWindow,
			SessionIdleTimeout: sessionIdleTimeout,
			ResetTokenSignKey:  resetTokenSignKey,
			ResetTokenIssuer:   resetTokenIssuer,
			ResetTokenDuration: resetTokenDuration,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Sessions: Sessions{
				Backend: sessionBackend,
				DSN:     sessionDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			PurgeInterval: purgeInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
