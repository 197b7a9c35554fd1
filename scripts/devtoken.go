// devtoken seeds a local account and prints a bearer token for it.
//
//	go run ./scripts -id dev-user -name "Dev User" -email dev@example.com
package main

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"go-profile-backend/config"
	"go-profile-backend/pkg/database"

	"github.com/golang-jwt/jwt/v5"
)

func gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}

func main() {
	id := flag.String("id", "dev-user", "account id")
	name := flag.String("name", "Dev User", "display name")
	email := flag.String("email", "dev@example.com", "email address")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()
	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, 2)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	avatar := gravatar(*email)
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, name, email, avatar) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, avatar = EXCLUDED.avatar`,
		*id, *name, *email, avatar)
	if err != nil {
		log.Fatalf("Failed to seed account: %v", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":     *id,
		"name":   *name,
		"avatar": avatar,
		"exp":    time.Now().Add(*ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Printf("Bearer %s\n", signed)
}
