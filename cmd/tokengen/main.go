// Package main provides a CLI tool for minting access tokens for local
// development. Tokens are signed with JWT_SECRET from the loaded env file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/stayforge/auth-server/internal/auth"
	"github.com/stayforge/auth-server/internal/config"
)

const defaultTokenTTL = time.Hour

type tokenOutput struct {
	Token     string            `json:"token"`
	Subject   string            `json:"sub"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	subject := flag.String("sub", "", "Subject (member_sub). Generated if empty.")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	secret := flag.String("secret", "", "Signing secret. Defaults to JWT_SECRET.")
	jsonOutput := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	_ = config.Load()

	key := *secret
	if key == "" {
		key = config.JWTSecret()
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "No signing secret: set JWT_SECRET or pass -secret")
		os.Exit(1)
	}

	sub := *subject
	if sub == "" {
		sub = uuid.NewString()
	}

	token, err := auth.NewTokenManager(key, config.JWTIssuer()).Issue(sub, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Subject:   sub,
			ExpiresIn: ttl.String(),
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Access Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("Subject:    %s\n", sub)
	fmt.Printf("Expires In: %s\n", ttl)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/tenant/list")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
