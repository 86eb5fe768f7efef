package app

import "crypto/rand"

const hexDigits = "0123456789abcdef"

// generateID produces a random hex identifier.
// Isolated here so the ID strategy can evolve independently.
func generateID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, 32)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0f]
	}
	return string(out), nil
}

// newConfirmation produces a short guest-facing confirmation number,
// e.g. "RL-7F3A90D2B41C". Uniqueness is enforced by the reservations
// table; the booking flow regenerates on a collision.
func newConfirmation() (string, error) {
	const upper = "0123456789ABCDEF"
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, 0, 15)
	out = append(out, 'R', 'L', '-')
	for _, v := range b {
		out = append(out, upper[v>>4], upper[v&0x0f])
	}
	return string(out), nil
}
