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
//	-a status facade address in format [host]:[port]
//	-remote backend API base URL
//	-d durable store DSN (SQLite path or postgres:// URI)
//	-c/-config json file path with configs
//	-device-id device identifier for backend sign-in
//	-access-key device access key
//	-hash-key transport integrity hash key
//	-strategy conflict resolution strategy
//	-max-retry-attempts transient failures before quarantine
//	-full-drain-interval full drain period (e.g., "5m")
//	-quick-drain-interval quick drain period (e.g., "30s")
//	-quick-drain-age quick drain item age threshold (e.g., "5m")
//	-quick-drain-batch quick drain batch size
//	-request-timeout remote request timeout (e.g., "15s")
//	-probe-interval connectivity probe period (e.g., "10s")
//	-fallback-capacity degraded store capacity
func ParseFlags() *StructuredConfig {
	var statusAddress NetAddress
	var remoteBaseURL string
	var databaseDSN string
	var jsonConfigPath string
	var deviceID string
	var accessKey string
	var hashKey string
	var strategy string
	var maxRetryAttempts int
	var fullDrainInterval time.Duration
	var quickDrainInterval time.Duration
	var quickDrainAge time.Duration
	var quickDrainBatch int
	var requestTimeout time.Duration
	var probeInterval time.Duration
	var fallbackCapacity int

	flag.Var(&statusAddress, "a", "Status facade net address host:port")
	flag.StringVar(&remoteBaseURL, "remote", "", "Backend API base URL")
	flag.StringVar(&databaseDSN, "d", "", "Durable store DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&deviceID, "device-id", "", "Device identifier")
	flag.StringVar(&accessKey, "access-key", "", "Device access key")
	flag.StringVar(&hashKey, "hash-key", "", "Transport integrity hash key")
	flag.StringVar(&strategy, "strategy", "", "Conflict resolution strategy")
	flag.IntVar(&maxRetryAttempts, "max-retry-attempts", 0, "Transient failures before quarantine")
	flag.DurationVar(&fullDrainInterval, "full-drain-interval", 0, "Full drain period (e.g., 5m)")
	flag.DurationVar(&quickDrainInterval, "quick-drain-interval", 0, "Quick drain period (e.g., 30s)")
	flag.DurationVar(&quickDrainAge, "quick-drain-age", 0, "Quick drain age threshold (e.g., 5m)")
	flag.IntVar(&quickDrainBatch, "quick-drain-batch", 0, "Quick drain batch size")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Remote request timeout (e.g., 15s)")
	flag.DurationVar(&probeInterval, "probe-interval", 0, "Connectivity probe period (e.g., 10s)")
	flag.IntVar(&fallbackCapacity, "fallback-capacity", 0, "Degraded store capacity")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			DeviceID:  deviceID,
			AccessKey: accessKey,
			HashKey:   hashKey,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			FallbackCapacity: fallbackCapacity,
		},
		Adapter: Adapter{
			BaseURL:        remoteBaseURL,
			RequestTimeout: requestTimeout,
			ProbeInterval:  probeInterval,
		},
		Sync: Sync{
			Strategy:               strategy,
			MaxRetryAttempts:       maxRetryAttempts,
			FullDrainInterval:      fullDrainInterval,
			QuickDrainInterval:     quickDrainInterval,
			QuickDrainAgeThreshold: quickDrainAge,
			QuickDrainBatchSize:    quickDrainBatch,
		},
		Status: Status{
			HTTPAddress: statusAddress.String(),
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
