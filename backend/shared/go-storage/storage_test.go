package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvidenceKey(t *testing.T) {
	now := time.Unix(1700000000, 42)
	shape := func(name string) *regexp.Regexp {
		return regexp.MustCompile(`^maintenance/t-1/1700000000000000042_[0-9a-f-]{36}_` + regexp.QuoteMeta(name) + `$`)
	}

	require.Regexp(t, shape("leaky_tap_1_.jpg"), EvidenceKey("t-1", "leaky tap (1).jpg", now))
	require.Regexp(t, shape("passwd"), EvidenceKey("t-1", "../../etc/passwd", now))
	require.Regexp(t, shape("image"), EvidenceKey("t-1", "", now))
}

func TestEvidenceKey_SameNameSameInstant(t *testing.T) {
	now := time.Unix(1700000000, 0)
	require.NotEqual(t, EvidenceKey("t-1", "image.jpg", now), EvidenceKey("t-1", "image.jpg", now))
}

func TestPublicURL(t *testing.T) {
	require.Equal(t,
		"https://cdn.example.com/evidence-images/maintenance/t-1/1_a%20b.jpg",
		PublicURL("https://cdn.example.com/", "evidence-images", "maintenance/t-1/1_a b.jpg"),
	)
}
