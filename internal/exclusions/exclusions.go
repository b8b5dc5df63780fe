package exclusions

import (
	"strings"

	"go.uber.org/zap"
)

// Checker decides which mailbox addresses the scanner skips. Entries are
// either full addresses ("archive@example.com") or domain suffixes
// ("@contractors.example.com") which exclude every mailbox on that domain.
type Checker struct {
	addresses []string
	logger    *zap.Logger
}

// NewChecker creates a new exclusion checker
func NewChecker(entries []string, logger *zap.Logger) *Checker {
	normalized := make([]string, len(entries))
	for i, entry := range entries {
		normalized[i] = strings.ToLower(strings.TrimSpace(entry))
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized mailbox exclusions", zap.Strings("entries", normalized))
	}

	return &Checker{
		addresses: normalized,
		logger:    logger,
	}
}

// IsExcluded checks whether a mailbox address matches an exclusion entry
func (c *Checker) IsExcluded(mailbox string) bool {
	if len(c.addresses) == 0 {
		return false
	}

	addr := strings.ToLower(strings.TrimSpace(mailbox))
	for _, entry := range c.addresses {
		if entry == "" {
			continue
		}
		if strings.HasPrefix(entry, "@") {
			if strings.HasSuffix(addr, entry) {
				c.debugHit(addr, entry)
				return true
			}
			continue
		}
		if entry == addr {
			c.debugHit(addr, entry)
			return true
		}
	}

	return false
}

func (c *Checker) debugHit(addr, entry string) {
	if c.logger != nil {
		c.logger.Debug("Mailbox is excluded",
			zap.String("mailbox", addr),
			zap.String("entry", entry))
	}
}
