package helpers

import "golang.org/x/crypto/bcrypt"

// BcryptHasher hashes credentials with bcrypt at Cost (DefaultCost when zero).
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher { return &BcryptHasher{Cost: cost} }

// Hash hashes the plain text password using bcrypt
func (h *BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether plain matches the bcrypt hash.
func (h *BcryptHasher) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
