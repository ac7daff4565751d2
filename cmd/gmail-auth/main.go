// Command gmail-auth runs the one-time OAuth consent for the inbox lookup and
// stores the resulting token where the API server expects it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/justsurfingit/jobtrack-ai/internal/auth"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

func main() {
	_ = godotenv.Load()

	credentials := flag.String("credentials", envOr("GMAIL_CREDENTIALS_FILE", "credentials.json"), "OAuth client secret file")
	tokenFile := flag.String("token", envOr("GMAIL_TOKEN_FILE", "token.json"), "where to write the token")
	flag.Parse()

	log := logrus.New()

	config, err := auth.GmailConfig(*credentials)
	if err != nil {
		log.Fatal(err)
	}

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("\n---------------------------------------------------------\n")
	fmt.Printf("OPEN THIS LINK TO AUTHORIZE GMAIL ACCESS:\n%v\n", authURL)
	fmt.Printf("---------------------------------------------------------\n")
	fmt.Printf("Paste the code here: ")

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		log.Fatalf("Unable to read authorization code: %v", err)
	}

	tok, err := config.Exchange(context.Background(), code)
	if err != nil {
		log.Fatalf("Unable to retrieve token from web: %v", err)
	}
	if err := auth.SaveToken(*tokenFile, tok); err != nil {
		log.Fatal(err)
	}
	log.WithField("path", *tokenFile).Info("Token saved")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
