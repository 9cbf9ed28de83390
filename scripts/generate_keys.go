//go:build ignore

// This script generates a JWT secret and, when given a secret, signs development
// session tokens for each role.
// Run with: go run scripts/generate_keys.go [-secret KEY] [-route north-1] [-truck truck-7]
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/service"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func main() {
	secret := flag.String("secret", "", "JWT secret to sign with; a new one is generated when empty")
	issuer := flag.String("issuer", "distribution-service", "token issuer")
	route := flag.String("route", "north-1", "route bound to the driver token")
	truck := flag.String("truck", "truck-7", "truck bound to the driver token")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	fmt.Println("=== Distribution Service Key Generator ===")
	fmt.Println()

	if *secret == "" {
		// 32 bytes = 256 bits
		generated, err := generateSecureKey(32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating JWT secret: %v\n", err)
			os.Exit(1)
		}
		*secret = generated
		fmt.Println("Add this to your .env file:")
		fmt.Println()
		fmt.Printf("JWT_SECRET_KEY=%s\n", *secret)
		fmt.Printf("JWT_ISSUER=%s\n", *issuer)
		fmt.Println()
	}

	tokens := service.NewSessionTokens(service.TokenConfig{SecretKey: *secret, Issuer: *issuer, TTL: *ttl})
	sessions := []model.Session{
		{UserID: "admin-1", Role: model.RoleAdmin},
		{UserID: "driver-1", Role: model.RoleDriver, RouteID: *route, TruckID: *truck},
	}

	fmt.Println("# Development tokens (Authorization: Bearer <token>)")
	for _, session := range sessions {
		token, err := tokens.Issue(session)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error signing %s token: %v\n", session.Role, err)
			os.Exit(1)
		}
		fmt.Printf("%s (%s): %s\n", session.Role, session.UserID, token)
	}
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit these keys to version control")
	fmt.Println("- Use different keys for each environment (dev, staging, prod)")
}
