package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

// PingService checks if a service is reachable at the given URL
func PingService(serviceURL string, timeout time.Duration) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	host := parsedURL.Hostname()
	port := parsedURL.Port()

	// Default ports if not specified
	if port == "" {
		switch parsedURL.Scheme {
		case "https":
			port = "443"
		case "mysql":
			port = "3306"
		case "postgres":
			port = "5432"
		case "sqlserver":
			port = "1433"
		default:
			port = "80"
		}
	}

	return dial(net.JoinHostPort(host, port), timeout)
}

// PingDatabaseHost checks that the database host accepts TCP connections.
func PingDatabaseHost(host, port string) error {
	return dial(net.JoinHostPort(host, port), 1500*time.Millisecond)
}

func dial(address string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}
