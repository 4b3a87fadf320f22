// Package regid generates registration codes for hospital-registered
// doctors and patients.
package regid

import (
	"strings"

	"github.com/google/uuid"
)

const prefix = "ADM-"

// New returns a code of the form ADM-XXXXXXXX where X is an uppercase
// hex character.
func New() string {
	return prefix + strings.ToUpper(uuid.New().String()[:8])
}
