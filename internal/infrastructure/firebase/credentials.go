package firebase

import (
	"encoding/json"
	"os"
	"strings"

	apperrors "github.com/arlet-trading/arlet_service/internal/domain/errors"
)

// Fixed Google OAuth endpoints; these are not environment-sourced.
const (
	authURI             = "https://accounts.google.com/o/oauth2/auth"
	tokenURI            = "https://oauth2.googleapis.com/token"
	authProviderCertURL = "https://www.googleapis.com/oauth2/v1/certs"
)

// Environment variables holding the service-account credential fields
var credentialEnvVars = map[string]string{
	"type":                 "FIREBASE_TYPE",
	"private_key_id":       "FIREBASE_PRIVATE_KEY_ID",
	"private_key":          "FIREBASE_PRIVATE_KEY",
	"client_email":         "FIREBASE_CLIENT_EMAIL",
	"client_id":            "FIREBASE_CLIENT_ID",
	"client_x509_cert_url": "FIREBASE_CLIENT_CERT_URL",
}

// Credentials assembles a service-account JSON document from the FIREBASE_*
// environment variables. Unset variables are omitted from the document. If
// none of the credential variables are set the record is considered empty
// and a typed BackendError is returned.
func Credentials(projectID string) ([]byte, error) {
	cred := map[string]string{
		"project_id":                  projectID,
		"auth_uri":                    authURI,
		"token_uri":                   tokenURI,
		"auth_provider_x509_cert_url": authProviderCertURL,
	}

	found := 0
	for field, envVar := range credentialEnvVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if field == "private_key" {
			// Keys exported through .env files carry escaped newlines
			value = strings.ReplaceAll(value, `\n`, "\n")
		}
		cred[field] = value
		found++
	}

	if found == 0 {
		return nil, apperrors.BackendUnavailable("firebase credentials not found in environment", nil)
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return nil, apperrors.BackendUnavailable("failed to encode firebase credentials", err)
	}
	return data, nil
}
