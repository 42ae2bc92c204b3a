package game

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wordrush/platform/internal/domain"
)

// Words is the playable vocabulary. Every entry is exactly
// domain.WordLength letters, uppercase.
var Words = []string{
	"ANCHOR", "BRIDGE", "CASTLE", "DRAGON", "ENERGY",
	"FOREST", "GARDEN", "HAMMER", "ISLAND", "JUNGLE",
	"KERNEL", "LADDER", "MARKET", "NATURE", "ORANGE",
	"PUZZLE", "QUARTZ", "ROCKET", "SILVER", "TEMPLE",
}

// WordByIndex returns the word at the given index.
func WordByIndex(index uint32) (string, error) {
	if int(index) >= len(Words) {
		return "", domain.ErrValidation(fmt.Sprintf("word index %d out of range", index))
	}
	return Words[index], nil
}

// IsValidWord reports whether the word exists in the vocabulary.
func IsValidWord(word string) bool {
	upper := strings.ToUpper(word)
	for _, w := range Words {
		if w == upper {
			return true
		}
	}
	return false
}

// CommitWord returns the sha256 commitment stored on the session while
// the word is hidden.
func CommitWord(word string) []byte {
	sum := sha256.Sum256([]byte(word))
	return sum[:]
}

// Selection is a chosen hidden word: the index into the vocabulary and
// the hash committed to the session record.
type Selection struct {
	WordIndex uint32
	WordHash  []byte
}

// Selector picks the hidden word for a new session.
//
// Security requirement for production selectors: the choice must be
// unpredictable, unbiased, and unlinkable to anything the guesser can
// observe before play.
type Selector interface {
	Select(playerID uuid.UUID, periodID string, gameCount uint32) (Selection, error)
}

// SecureSelector draws the word index from crypto/rand. This is the
// default selector.
type SecureSelector struct{}

// NewSecureSelector returns a CSPRNG-backed selector.
func NewSecureSelector() *SecureSelector { return &SecureSelector{} }

func (s *SecureSelector) Select(_ uuid.UUID, _ string, _ uint32) (Selection, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return Selection{}, domain.ErrInternal("read random bytes", err)
	}
	index := binary.LittleEndian.Uint32(buf[:]) % uint32(len(Words))
	return Selection{WordIndex: index, WordHash: CommitWord(Words[index])}, nil
}

// DemoSelector derives the word deterministically from public inputs.
//
// INSECURE: the inputs are guessable, so the word is predictable.
// Kept only for local testing and reproducible fixtures; never enable
// where entry fees buy real prizes.
type DemoSelector struct{}

// NewDemoSelector returns the deterministic demo selector.
func NewDemoSelector() *DemoSelector { return &DemoSelector{} }

func (s *DemoSelector) Select(playerID uuid.UUID, periodID string, gameCount uint32) (Selection, error) {
	seed := fmt.Sprintf("%s-%s-%d", playerID, periodID, gameCount)
	sum := sha256.Sum256([]byte(seed))
	index := binary.LittleEndian.Uint32(sum[:4]) % uint32(len(Words))
	return Selection{WordIndex: index, WordHash: CommitWord(Words[index])}, nil
}
