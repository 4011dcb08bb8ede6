package flowrx

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const minBufferSize = 16
const defaultBufferSizeFallback = 128

var (
	bufferSizeOnce sync.Once
	bufferSizeVal  int
	bufferSizeMu   sync.RWMutex
)

// BufferSize returns the default prefetch used by flatMap/merge when the
// caller does not supply one. It is computed once, at first use, as
// max(16, FLOWRX_BUFFER_SIZE or 128) — the same clamp Observable.java
// applies to its BUFFER_SIZE constant.
func BufferSize() int {
	bufferSizeOnce.Do(initBufferSize)
	bufferSizeMu.RLock()
	defer bufferSizeMu.RUnlock()
	return bufferSizeVal
}

// SetBufferSize overrides the default prefetch at runtime. Values below 16
// are clamped up, matching BufferSize's own floor.
func SetBufferSize(n int) {
	bufferSizeOnce.Do(initBufferSize)
	if n < minBufferSize {
		n = minBufferSize
	}
	bufferSizeMu.Lock()
	bufferSizeVal = n
	bufferSizeMu.Unlock()
}

func initBufferSize() {
	_ = godotenv.Load() // best-effort; absence of a .env is not an error

	v := viper.New()
	v.SetEnvPrefix("FLOWRX")
	v.AutomaticEnv()
	v.SetDefault("buffer_size", defaultBufferSizeFallback)

	n := v.GetInt("buffer_size")
	if n < minBufferSize {
		n = minBufferSize
	}

	bufferSizeMu.Lock()
	bufferSizeVal = n
	bufferSizeMu.Unlock()
}
