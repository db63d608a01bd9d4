// Command issue_token prints a bearer token for the write endpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"todo_store/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("sub", "cli", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	issuer := service.NewTokenIssuer(os.Getenv("JWT_SECRET"), *ttl)
	if issuer == nil {
		log.Fatal("JWT_SECRET not set")
	}

	token, err := issuer.Generate(*subject)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}
