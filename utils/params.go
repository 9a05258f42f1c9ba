package utils

import (
	"strconv"

	"github.com/meinhoongagan/permit-desk/apperr"
)

// ParseID parses a path parameter as a positive integer id.
func ParseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidInput(name + " must be a positive integer").
			WithDetails(map[string]string{name: raw})
	}
	return id, nil
}
