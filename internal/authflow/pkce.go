package authflow

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	// pkceVerifierBytes is the number of random bytes for the PKCE code
	// verifier. 32 bytes provides 256 bits of entropy.
	pkceVerifierBytes = 32

	// stateBytes is the number of random bytes for the state parameter.
	// 32 bytes encodes to 43 base64url characters, satisfying providers
	// that require a minimum of 32.
	stateBytes = 32

	// nonceBytes is the number of random bytes for the optional ID-token
	// nonce.
	nonceBytes = 32
)

// PKCEChallenge binds an authorization code to the client that initiated
// the flow.
type PKCEChallenge struct {
	// CodeVerifier is the random secret. It is never transmitted in the
	// authorization request.
	CodeVerifier string

	// CodeChallenge is the S256 hash of the verifier, base64url-encoded
	// without padding. This is what the authorization request carries.
	CodeChallenge string

	// CodeChallengeMethod is always "S256".
	CodeChallengeMethod string
}

// GeneratePKCE generates a fresh PKCE verifier/challenge pair.
func GeneratePKCE() (*PKCEChallenge, error) {
	verifier, err := randomURLSafe(pkceVerifierBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PKCE verifier: %w", err)
	}

	hash := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(hash[:])

	return &PKCEChallenge{
		CodeVerifier:        verifier,
		CodeChallenge:       challenge,
		CodeChallengeMethod: "S256",
	}, nil
}

// GenerateState generates the anti-CSRF state parameter. A fresh state is
// generated for every flow attempt regardless of the PKCE setting.
func GenerateState() (string, error) {
	state, err := randomURLSafe(stateBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return state, nil
}

// GenerateNonce generates the optional ID-token replay-binding nonce.
func GenerateNonce() (string, error) {
	nonce, err := randomURLSafe(nonceBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// randomURLSafe returns n cryptographically random bytes, base64url-encoded
// without padding.
func randomURLSafe(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
