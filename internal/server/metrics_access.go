package server

import (
	"crypto/subtle"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/config"
	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/log"
)

func isAllowedToAccessMetricsEndpoint(r *http.Request) bool {
	clientIP := request.FindRemoteIP(r)

	if config.Opts.HasMetricsCredentials() {
		username, password, authOK := r.BasicAuth()
		if !authOK {
			log.Warn("Metrics endpoint accessed without authentication header",
				zap.String("client_ip", clientIP))
			return false
		}

		if subtle.ConstantTimeCompare([]byte(username), []byte(config.Opts.MetricsUsername)) != 1 ||
			subtle.ConstantTimeCompare([]byte(password), []byte(config.Opts.MetricsPassword)) != 1 {
			log.Warn("Metrics endpoint accessed with invalid username or password",
				zap.String("client_ip", clientIP))
			return false
		}
	}

	remoteIP := net.ParseIP(clientIP)
	if remoteIP == nil {
		return false
	}

	for _, cidr := range config.Opts.MetricsAllowedNetworks {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			log.Error("Unable to parse CIDR", zap.String("cidr", cidr), zap.Error(err))
			return false
		}

		if network.Contains(remoteIP) {
			return true
		}
	}

	return false
}
