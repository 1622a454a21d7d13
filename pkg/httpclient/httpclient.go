// pkg/httpclient/httpclient.go

package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"os"
	"time"
)

var defaultClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		TLSClientConfig: getTLSConfig(),
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

// DefaultClient returns the preconfigured HTTP client used for the OAuth
// proxy and other non-Vault endpoints.
func DefaultClient() *http.Client {
	return defaultClient
}

// SetDefaultClient replaces the default client, for tests.
func SetDefaultClient(client *http.Client) {
	defaultClient = client
}

func getTLSConfig() *tls.Config {
	// Insecure TLS only for local development against self-signed proxies.
	if os.Getenv("CLAWSEC_INSECURE_TLS") == "true" {
		return &tls.Config{
			InsecureSkipVerify: true,
			MinVersion:         tls.VersionTLS12,
		}
	}

	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
		},
	}
}
