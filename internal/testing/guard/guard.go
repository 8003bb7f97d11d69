// Package guard forces test mode before any package init runs a side
// effect that needs the flag.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("EVENTOSYS_TEST_MODE") == "" {
			_ = os.Setenv("EVENTOSYS_TEST_MODE", "1")
		}
	})
}
