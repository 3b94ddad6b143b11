// Package oid implements the process-wide state behind BSON ObjectID
// generation: a per-process random field that is regenerated across a
// fork, and a monotonic counter. See bson.ObjectID for the public surface.
package oid

import (
	"crypto/md5" //nolint:gosec // MD5 is used only as a non-cryptographic hash of the hostname, matching bson-ruby.
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"os"
	"sync"
	"time"
)

const counterMod = 1 << 24

// state holds the process-wide generator state. A single package-level
// instance backs bson.ObjectID's Next/ResetCounter.
type state struct {
	mu            sync.Mutex
	pid           int
	processRandom [5]byte
	counter       uint32 // low 24 bits significant
}

var global = newState()

func newState() *state {
	s := &state{}
	s.regenerate()
	return s
}

// regenerate fills processRandom and seeds counter from a random source,
// and remembers the current pid. Called once at init and again whenever a
// later call observes a different pid (i.e. after a fork).
func (s *state) regenerate() {
	s.pid = os.Getpid()

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err == nil {
		copy(s.processRandom[:], buf[:5])
		s.counter = uint32(buf[5])<<16 | uint32(buf[6])<<8 | uint32(buf[7])
		return
	}

	// Documented fallback per spec: a weak, time^pid-seeded RNG when no
	// CSPRNG is available. Acknowledged cryptographically weak.
	src := mrand.New(mrand.NewSource(time.Now().UnixNano() ^ int64(s.pid))) //nolint:gosec // documented fallback only
	src.Read(s.processRandom[:])
	s.counter = uint32(src.Intn(counterMod))
}

// checkFork regenerates process-random state if getpid() has changed
// since the last call, matching the ObjectID generator's fork-safety
// requirement (§4.9, §5). Must be called with s.mu held.
func (s *state) checkFork() {
	if pid := os.Getpid(); pid != s.pid {
		s.regenerate()
	}
}

// Next returns the next 12-byte ObjectID body: 4 big-endian timestamp
// bytes, 5 process-random bytes, 3 big-endian counter bytes. seconds is
// the timestamp to embed (caller resolves "no time given" to now()).
func Next(seconds uint32) [12]byte {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.checkFork()

	var out [12]byte
	out[0] = byte(seconds >> 24)
	out[1] = byte(seconds >> 16)
	out[2] = byte(seconds >> 8)
	out[3] = byte(seconds)

	copy(out[4:9], global.processRandom[:])

	c := global.counter
	out[9] = byte(c >> 16)
	out[10] = byte(c >> 8)
	out[11] = byte(c)

	global.counter = (global.counter + 1) % counterMod

	return out
}

// ResetCounter sets the counter to v (mod 2^24), or to a fresh random
// value if v is nil. Test aid only.
func ResetCounter(v *uint32) {
	global.mu.Lock()
	defer global.mu.Unlock()

	if v == nil {
		n, err := rand.Int(rand.Reader, big.NewInt(counterMod))
		if err != nil {
			global.counter = uint32(mrand.Intn(counterMod)) //nolint:gosec // test aid fallback only
			return
		}
		global.counter = uint32(n.Int64())
		return
	}
	global.counter = *v % counterMod
}

// MachineIDHash returns the MD5 digest of the local hostname, matching
// bson-ruby's machine-id derivation. It is exposed for ObjectID.Hex-style
// diagnostics, not embedded in the 12-byte body by the modern layout.
func MachineIDHash() [md5.Size]byte {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return md5.Sum([]byte(host)) //nolint:gosec // non-cryptographic identifier hash
}
