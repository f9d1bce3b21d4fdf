package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cogstack/cogstack-api/internal/models"
	"github.com/cogstack/cogstack-api/pkg/logger"
	"github.com/cogstack/cogstack-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	submissionCacheName  = "contact_submissions"
	submissionKeyPrefix  = "contact:"
	submissionCleanupGap = time.Minute
)

// SubmissionCache remembers delivered submissions so a double-click or a
// browser retry does not deliver the same message twice.
type SubmissionCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewSubmissionCache creates a cache that remembers receipts for ttl.
// A zero ttl disables duplicate suppression.
func NewSubmissionCache(ttl time.Duration) *SubmissionCache {
	return &SubmissionCache{
		cache: gocache.New(ttl, submissionCleanupGap),
		ttl:   ttl,
	}
}

// Enabled reports whether receipts are remembered at all
func (sc *SubmissionCache) Enabled() bool {
	return sc.ttl > 0
}

// Get returns the receipt of an identical earlier submission
func (sc *SubmissionCache) Get(s models.ContactSubmission) (*models.DeliveryReceipt, bool) {
	if !sc.Enabled() {
		return nil, false
	}

	data, found := sc.cache.Get(Fingerprint(s))
	if !found {
		metrics.CacheMisses.WithLabelValues(submissionCacheName).Inc()
		return nil, false
	}

	receipt, ok := data.(models.DeliveryReceipt)
	if !ok {
		logger.Error("Invalid submission cache data type")
		sc.cache.Delete(Fingerprint(s))
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(submissionCacheName).Inc()
	logger.Debug("Duplicate contact submission", zap.String("receipt_id", receipt.ID))
	return &receipt, true
}

// Put records the receipt for s
func (sc *SubmissionCache) Put(s models.ContactSubmission, receipt *models.DeliveryReceipt) {
	if !sc.Enabled() || receipt == nil {
		return
	}
	sc.cache.Set(Fingerprint(s), *receipt, sc.ttl)
	metrics.CacheSize.WithLabelValues(submissionCacheName).Set(float64(sc.cache.ItemCount()))
}

// Size returns the number of remembered submissions, including expired ones not yet cleaned up
func (sc *SubmissionCache) Size() int {
	return sc.cache.ItemCount()
}

// Fingerprint identifies a submission by its content, ignoring surrounding
// whitespace. Only the email is compared without regard to case.
func Fingerprint(s models.ContactSubmission) string {
	h := sha256.New()
	parts := []string{s.Name, strings.ToLower(s.Email), s.Company, s.Message}
	for _, part := range parts {
		h.Write([]byte(strings.TrimSpace(part)))
		h.Write([]byte{0})
	}
	return submissionKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
