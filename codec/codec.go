package codec

import (
	"context"

	"go.uber.org/zap"

	"github.com/quickwritereader/wideid/ndarray"
	"github.com/quickwritereader/wideid/types"
	"github.com/quickwritereader/wideid/utils"
)

const tempPattern = "wideid-*.bin"

// Codec converts identifier sequences to and from one foreign runtime. It
// holds no per-call state and may be shared.
type Codec struct {
	provider  *ndarray.Provider
	threshold int
	order     types.ByteOrder
	tempDir   string
	pool      *utils.BufferPool
	log       *zap.Logger
	observers []utils.TempFileObserver
}

// Option configures a Codec.
type Option func(*Codec)

// WithFileThreshold sets the length from which outbound transfers use a file.
func WithFileThreshold(n int) Option {
	return func(c *Codec) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithByteOrder sets the order of raw identifier buffers on both paths.
func WithByteOrder(o types.ByteOrder) Option {
	return func(c *Codec) { c.order = o }
}

// WithTempDir places temporary transfer files in dir.
func WithTempDir(dir string) Option {
	return func(c *Codec) { c.tempDir = dir }
}

// WithLogger overrides the package logger for this codec.
func WithLogger(l *zap.Logger) Option {
	return func(c *Codec) {
		if l != nil {
			c.log = l
		}
	}
}

// WithBufferPool sets the pool RawByteBuffers are drawn from.
func WithBufferPool(p *utils.BufferPool) Option {
	return func(c *Codec) {
		if p != nil {
			c.pool = p
		}
	}
}

// WithTempFileObserver registers a hook called after every temp file is
// removed.
func WithTempFileObserver(o utils.TempFileObserver) Option {
	return func(c *Codec) { c.observers = append(c.observers, o) }
}

// New returns a codec bound to the runtime p provides. A nil provider means
// ndarray.Default().
func New(p *ndarray.Provider, opts ...Option) *Codec {
	if p == nil {
		p = ndarray.Default()
	}
	c := &Codec{
		provider:  p,
		threshold: DefaultFileThreshold,
		order:     types.LittleEndian,
		pool:      utils.DefaultPool(),
		log:       Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.observers = append([]utils.TempFileObserver{c.logRemoval}, c.observers...)
	return c
}

// Threshold reports the configured file threshold.
func (c *Codec) Threshold() int { return c.threshold }

// ByteOrder reports the configured raw buffer order.
func (c *Codec) ByteOrder() types.ByteOrder { return c.order }

func (c *Codec) runtime(ctx context.Context) (ndarray.Runtime, error) {
	return c.provider.Runtime(ctx)
}

func (c *Codec) logRemoval(path string, err error) {
	if err != nil {
		c.log.Warn("temp file not removed", zap.String("path", path), zap.Error(err))
		return
	}
	c.log.Debug("temp file removed", zap.String("path", path))
}
