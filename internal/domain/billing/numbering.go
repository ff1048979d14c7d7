package billing

import (
	"fmt"
	"strings"
)

// DefaultInvoicePrefix is used when shop settings carry no prefix
const DefaultInvoicePrefix = "INV"

// FormatInvoiceNumber builds "{prefix}-{existing+1}"
func FormatInvoiceNumber(prefix string, existing int64) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	return fmt.Sprintf("%s-%d", prefix, existing+1)
}
