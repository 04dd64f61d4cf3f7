package config

import (
	"os"
	"sync"
)

// dockerHostGateway is the name Docker Desktop (and compose files that map
// host-gateway) give the host machine. DOCKER_HOST_GATEWAY overrides it.
const dockerHostGateway = "host.docker.internal"

var (
	isDockerOnce   sync.Once
	isDockerResult bool
)

// IsRunningInDocker reports whether /.dockerenv exists. Cached after the first call.
func IsRunningInDocker() bool {
	isDockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		isDockerResult = err == nil
	})
	return isDockerResult
}

// ResolveHostForDocker maps loopback hosts to the host gateway when the
// engine runs in a container, so Postgres or Redis on the host stays reachable.
func ResolveHostForDocker(host string) string {
	return resolveLoopback(host, IsRunningInDocker(), os.Getenv("DOCKER_HOST_GATEWAY"))
}

func resolveLoopback(host string, inDocker bool, gateway string) string {
	if !inDocker {
		return host
	}
	switch host {
	case "localhost", "127.0.0.1", "::1":
		if gateway != "" {
			return gateway
		}
		return dockerHostGateway
	}
	return host
}
