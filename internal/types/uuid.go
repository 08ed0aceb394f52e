package types

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	UUID_PREFIX_RATE_RULE        = "rate"
	UUID_PREFIX_PRICING_MODIFIER = "mod"
	UUID_PREFIX_COMMISSION_ENTRY = "comm"
	UUID_PREFIX_APPROVAL         = "appr"
	UUID_PREFIX_REQUEST          = "req"
	UUID_PREFIX_WEBHOOK_EVENT    = "evt"
)

// GenerateUUID returns a k-sortable ULID
func GenerateUUID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String()
}

// GenerateUUIDWithPrefix returns a ULID prefixed with the entity type,
// ex rate_01HXYZ...
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
