// Package authflow drives the interactive Authorization-Code-with-PKCE
// flow.
//
// BuildRequest deterministically turns flow intent and discovered provider
// metadata into an authorization request with a fresh anti-CSRF state, a
// PKCE verifier/challenge pair (on by default), and an optional nonce (off
// by default). The Controller owns the single in-flight flow handle: it
// launches the loopback callback server, presents the URL through the
// Presenter collaborator, and maps the terminal callback (success, user
// cancel, or provider error) into exactly one credential repository
// mutation. Failed attempts always leave the repository cleared.
package authflow
