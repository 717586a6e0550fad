package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Philanthropists/income-alerts/internal/services/mailserv/mailservtypes"
)

// Deduper remembers the messages handled by earlier runs of the same process.
// The last processed date is moved back a day on every run, so without it the
// same alert would be imported twice. A nil Deduper remembers nothing.
type Deduper struct {
	seen *cache.Cache
}

func NewDeduper(ttl time.Duration) *Deduper {
	return &Deduper{seen: cache.New(ttl, ttl/2)}
}

func fingerprint(m mailservtypes.Message) string {
	if m.Envelope != nil {
		if id := strings.TrimSpace(m.Envelope.MessageId); id != "" {
			return "id:" + id
		}
	}

	h := sha256.New()
	h.Write([]byte(m.Date().UTC().Format(time.RFC3339)))
	h.Write([]byte{0})
	h.Write([]byte(m.Text()))
	return "sum:" + hex.EncodeToString(h.Sum(nil))
}

func (d *Deduper) Seen(m mailservtypes.Message) bool {
	if d == nil {
		return false
	}
	_, ok := d.seen.Get(fingerprint(m))
	return ok
}

func (d *Deduper) Mark(m mailservtypes.Message) {
	if d == nil {
		return
	}
	d.seen.SetDefault(fingerprint(m), struct{}{})
}
