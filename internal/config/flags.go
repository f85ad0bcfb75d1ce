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
//	-uploads-dir local photo upload directory
//	-c/-config json file path with configs
//	-domain public application domain
//	-jwt-secret reset token signing key
//	-token-issuer reset token issuer name
//	-smtp-from sender address for reset emails
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-cloud enable the remote image host integration
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var uploadsDir string
	var jsonConfigPath string
	var domain string
	var jwtSecret string
	var tokenIssuer string
	var smtpFrom string
	var requestTimeout time.Duration
	var cloudEnabled bool

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&uploadsDir, "uploads-dir", "", "Photo uploads directory")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&domain, "domain", "", "Public application domain")
	flag.StringVar(&jwtSecret, "jwt-secret", "", "Reset token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Reset token issuer")
	flag.StringVar(&smtpFrom, "smtp-from", "", "Sender address for reset emails")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.BoolVar(&cloudEnabled, "cloud", false, "Enable remote image host uploads")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			Domain:      domain,
			JWTSecret:   jwtSecret,
			TokenIssuer: tokenIssuer,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Uploads: Uploads{
				Dir: uploadsDir,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Mail: Mail{
			From: smtpFrom,
		},
		Cloud: Cloud{
			Enabled: cloudEnabled,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
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

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
