package udp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"net"

	"github.com/google/uuid"
)

const (
	secretSize    = 32
	sessionIDSize = sha256.Size + 16
)

// SessionManager holds the secrets behind cookies and session IDs. Secrets
// live only in memory, so a restarted host invalidates every cookie.
type SessionManager struct {
	sHMACKey []byte // session random key
	cHMACKey []byte // cookie random key
}

// NewSessionManager returns a session manager with fresh random secrets.
func NewSessionManager() (*SessionManager, error) {
	sessionHMAC := make([]byte, secretSize)
	if _, err := rand.Read(sessionHMAC); err != nil {
		return nil, err
	}

	cookieHMAC := make([]byte, secretSize)
	if _, err := rand.Read(cookieHMAC); err != nil {
		return nil, err
	}

	return &SessionManager{
		sHMACKey: sessionHMAC,
		cHMACKey: cookieHMAC,
	}, nil
}

// AddrCookie returns the cookie for a UDP address and client nonce.
func (s *SessionManager) AddrCookie(addr *net.UDPAddr, random []byte) []byte {
	return mac(s.cHMACKey, []byte(addr.String()), random)
}

// ValidCookie reports whether cookie was issued to addr for random.
func (s *SessionManager) ValidCookie(addr *net.UDPAddr, random, cookie []byte) bool {
	return hmac.Equal(cookie, s.AddrCookie(addr, random))
}

// GenerateSessionID returns a new session ID bound to the address and peer.
func (s *SessionManager) GenerateSessionID(addr *net.UDPAddr, peer uuid.UUID) ([]byte, error) {
	sessionKey := make([]byte, sessionIDSize-sha256.Size)
	if _, err := rand.Read(sessionKey); err != nil {
		return nil, err
	}

	return append(mac(s.sHMACKey, []byte(addr.String()), peer[:]), sessionKey...), nil
}

func mac(key []byte, params ...[]byte) []byte {
	h := hmac.New(sha256.New, key)
	for _, p := range params {
		h.Write(p)
	}
	return h.Sum(nil)
}
