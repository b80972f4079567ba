package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// OTPHashCost is the bcrypt cost used for one-time passwords.
const OTPHashCost = 10

// OTPLength is the number of digits in a generated one-time password.
const OTPLength = 6

// GenerateOTP returns a random numeric code of OTPLength digits without a leading zero.
func GenerateOTP() (string, error) {
	// 100000..999999
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate one-time password: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// HashOTP hashes a one-time password with a per-hash salt.
func HashOTP(code string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), OTPHashCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckOTP compares a plaintext code with its stored hash.
func CheckOTP(hashedCode, code string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(code))
	return err == nil
}
