package credit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewTransactionID builds a globally unique, client-generated transaction id
// so a retried request is detected by the backend as a duplicate instead of
// being charged twice.
func NewTransactionID(userID, ref string) string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%d-%s-%s-%s", time.Now().UnixMilli(), userID, ref, suffix)
}
