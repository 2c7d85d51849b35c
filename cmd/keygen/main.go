package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
)

// keygen produces secrets for deployment: the vault master key
// (ENCRYPTION_KEY) and a JWT signing secret.
func main() {
	byteLen := flag.Int("bytes", 32, "key length in bytes")
	flag.Parse()

	if *byteLen < 16 {
		log.Fatalf("invalid bytes: %d (minimum 16)", *byteLen)
	}

	encryptionKey, err := generateRandomHex(*byteLen)
	if err != nil {
		log.Fatalf("failed to generate encryption key: %v", err)
	}
	jwtSecret, err := generateRandomHex(*byteLen)
	if err != nil {
		log.Fatalf("failed to generate jwt secret: %v", err)
	}

	fmt.Println("Generated secrets")
	fmt.Printf("ENCRYPTION_KEY=%s\n", encryptionKey)
	fmt.Printf("JWT_SECRET=%s\n", jwtSecret)
}

func generateRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
