/**
 * @description
 * This file contains custom middleware for the HTTP router. Customer-facing
 * routes are guarded by RS256 JWT verification against the identity provider's
 * JWKS endpoint; the admin control surface (virtual clock, manual job
 * triggers) is guarded by a shared internal API key instead, since it is
 * called by operators and test harnesses rather than customers.
 */

package api

import (
	"context"
	"crypto/rsa"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomerIDContextKey is a custom type for the context key to avoid collisions.
type CustomerIDContextKey string

const customerIDKey CustomerIDContextKey = "customerID"

// JWTAuthMiddleware creates a middleware that validates RS256 JWT tokens
// against the given JWKS endpoint and stores the subject claim in the request
// context as the customer id. Audience and issuer are enforced when
// configured; empty values skip the corresponding check.
func JWTAuthMiddleware(jwksURL, audience, issuer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}

				kid, ok := token.Header["kid"].(string)
				if !ok {
					return nil, fmt.Errorf("kid not found in token header")
				}

				publicKey, err := getPublicKeyFromJWKS(jwksURL, kid)
				if err != nil {
					return nil, fmt.Errorf("failed to get public key: %w", err)
				}
				return publicKey, nil
			})
			if err != nil {
				http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
				return
			}
			if !token.Valid {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}
			if err := checkRegisteredClaims(claims, audience, issuer); err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			subject, ok := claims["sub"].(string)
			if !ok || subject == "" {
				http.Error(w, "Subject not found in token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), customerIDKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// checkRegisteredClaims enforces the configured audience and issuer. An empty
// expectation disables that check. The aud claim may be a string or a list.
func checkRegisteredClaims(claims jwt.MapClaims, audience, issuer string) error {
	if audience != "" {
		switch aud := claims["aud"].(type) {
		case string:
			if aud != audience {
				return errors.New("Invalid audience")
			}
		case []interface{}:
			found := false
			for _, entry := range aud {
				if s, ok := entry.(string); ok && s == audience {
					found = true
					break
				}
			}
			if !found {
				return errors.New("Invalid audience")
			}
		default:
			return errors.New("Invalid audience")
		}
	}
	if issuer != "" {
		if iss, ok := claims["iss"].(string); !ok || iss != issuer {
			return errors.New("Invalid issuer")
		}
	}
	return nil
}

// InternalAPIKeyMiddleware guards operator-only endpoints with a shared key.
func InternalAPIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-Internal-API-Key")
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getPublicKeyFromJWKS fetches the public key from the JWKS endpoint.
// TODO: cache the JWKS document; today every protected request refetches it.
func getPublicKeyFromJWKS(jwksURL, kid string) (interface{}, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(jwksURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var jwks struct {
		Keys []struct {
			Kid string `json:"kid"`
			Kty string `json:"kty"`
			Use string `json:"use"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, err
	}

	for _, key := range jwks.Keys {
		if key.Kid == kid {
			return parseRSAPublicKey(key.N, key.E)
		}
	}
	return nil, fmt.Errorf("key with kid %s not found", kid)
}

// parseRSAPublicKey parses an RSA public key from base64url modulus and exponent.
func parseRSAPublicKey(n, e string) (interface{}, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	var exp uint64
	for _, b := range eb {
		exp = (exp << 8) | uint64(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: int(exp),
	}, nil
}

// GetCustomerID retrieves the authenticated customer id from the request context.
func GetCustomerID(ctx context.Context) (string, bool) {
	customerID, ok := ctx.Value(customerIDKey).(string)
	return customerID, ok
}
