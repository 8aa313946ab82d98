package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("DUETRACK_TEST_MODE") == "" {
			_ = os.Setenv("DUETRACK_TEST_MODE", "1")
		}
	})
}
