package cmd

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// defaultServeAddr builds the listen address from the PORT environment
// variable, falling back to 8000. The server binds all interfaces so the
// container port mapping works out of the box.
func defaultServeAddr() string {
	port := os.Getenv("PORT")
	if port == "" {
		return "0.0.0.0:8000"
	}
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return "0.0.0.0:8000"
	}
	return "0.0.0.0:" + port
}

// validateAddr validates the server address format.
func validateAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("must be in host:port format: %w", err)
	}

	if host != "" && host != "localhost" {
		if ip := net.ParseIP(host); ip == nil {
			if strings.ContainsAny(host, " \t\n") {
				return fmt.Errorf("invalid host: %s", host)
			}
		}
	}

	if port == "" {
		return fmt.Errorf("port is required")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port must be numeric: %w", err)
	}
	if portNum < 0 || portNum > 65535 {
		return fmt.Errorf("port must be 0-65535 (0 = auto-assign), got %d", portNum)
	}

	return nil
}
