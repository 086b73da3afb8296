package utils

import (
	"fmt"
	"time"
)

// ParseDurationString parses duration values from the config file, e.g. the
// session token TTL. Only the units time.ParseDuration knows are accepted, a
// week-long TTL is written as "168h".
func ParseDurationString(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid time duration '%s' : %s", value, err.Error())
	}
	return d, nil
}
