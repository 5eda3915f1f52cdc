package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/sahilchouksey/shikshachain/app"
	"github.com/sahilchouksey/shikshachain/config"
	"github.com/sahilchouksey/shikshachain/utils/auth"
)

// Prints a bearer token accepted by the issuer guard on the write routes.
func main() {
	subject := flag.String("subject", "", "who the token is issued to, e.g. a university id")
	flag.Parse()

	if *subject == "" {
		log.Fatal("-subject is required")
	}

	if err := config.LoadENV(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}
	if env.IssuerJWTSecret == "" {
		log.Fatal("ISSUER_JWT_SECRET is not set; the issuer guard is disabled")
	}

	manager := auth.NewJWTManager(app.IssuerJWTConfig(env))
	token, jti, err := manager.GenerateIssuerToken(*subject, auth.RoleIssuer)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	log.Printf("Issued token %s for %s, valid for %s", jti, *subject, env.IssuerTokenTTL)
	fmt.Println(token)
}
