package pathoram

import "go.uber.org/zap"

// Observer receives notifications at fixed points of every access.
// Implementations must not modify the blocks they are handed.
type Observer interface {
	// Initialized is called once the tree and position map are allocated.
	Initialized(depth, numLeaves, numAddresses int)

	// PathRead is called after the path to leaf was read and cleared.
	// nodes are ordered from leaf to root.
	PathRead(leaf int, nodes []int)

	// BlockWritten is called after b was placed into node.
	BlockWritten(node int, b Block)

	// AccessFailed is called when an access touching leaf was rolled back.
	AccessFailed(leaf int, err error)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) Initialized(int, int, int) {}
func (NopObserver) PathRead(int, []int)       {}
func (NopObserver) BlockWritten(int, Block)   {}
func (NopObserver) AccessFailed(int, error)   {}

// LogObserver reports storage traffic to a zap logger.
// Payloads are never logged.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) Initialized(depth, numLeaves, numAddresses int) {
	o.log.Info("ORAM initialized",
		zap.Int("depth", depth),
		zap.Int("leaves", numLeaves),
		zap.Int("addresses", numAddresses))
}

func (o *LogObserver) PathRead(leaf int, nodes []int) {
	o.log.Debug("Path read and cleared", zap.Int("leaf", leaf), zap.Ints("nodes", nodes))
}

func (o *LogObserver) BlockWritten(node int, b Block) {
	o.log.Debug("Block written", zap.Int("node", node), zap.Int("address", b.Address))
}

func (o *LogObserver) AccessFailed(leaf int, err error) {
	o.log.Warn("Access rolled back", zap.Int("leaf", leaf), zap.Error(err))
}
