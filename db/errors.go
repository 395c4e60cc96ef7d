package db

import (
	"strings"

	"github.com/pkg/errors"
)

// IsTransactionUnsupported reports whether the server rejected a
// transaction because it is not a replica set member or mongos.
func IsTransactionUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := errors.Cause(err).Error()
	return strings.Contains(msg, "Transaction numbers are only allowed on a replica set member or mongos") ||
		strings.Contains(msg, "transactions are not supported")
}
