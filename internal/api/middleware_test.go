package api

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestCheckRegisteredClaims(t *testing.T) {
	cases := []struct {
		name     string
		claims   jwt.MapClaims
		audience string
		issuer   string
		wantErr  bool
	}{
		{
			name:   "no expectations skips all checks",
			claims: jwt.MapClaims{},
		},
		{
			name:     "matching audience and issuer",
			claims:   jwt.MapClaims{"aud": "fd-service", "iss": "https://auth.example.com"},
			audience: "fd-service",
			issuer:   "https://auth.example.com",
		},
		{
			name:     "audience list containing the expected value",
			claims:   jwt.MapClaims{"aud": []interface{}{"other", "fd-service"}},
			audience: "fd-service",
		},
		{
			name:     "wrong audience rejected",
			claims:   jwt.MapClaims{"aud": "someone-else"},
			audience: "fd-service",
			wantErr:  true,
		},
		{
			name:     "missing audience rejected when expected",
			claims:   jwt.MapClaims{},
			audience: "fd-service",
			wantErr:  true,
		},
		{
			name:    "wrong issuer rejected",
			claims:  jwt.MapClaims{"iss": "https://evil.example.com"},
			issuer:  "https://auth.example.com",
			wantErr: true,
		},
		{
			name:    "missing issuer rejected when expected",
			claims:  jwt.MapClaims{},
			issuer:  "https://auth.example.com",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkRegisteredClaims(tc.claims, tc.audience, tc.issuer)
			if tc.wantErr && err == nil {
				t.Fatal("expected claim check to fail")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected claim check to pass, got %v", err)
			}
		})
	}
}
