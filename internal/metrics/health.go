package metrics

import (
	"io/fs"
	"path/filepath"
	"runtime"

	"github.com/dustin/go-humanize"
)

// Health is a point-in-time view of the process and its data directory.
type Health struct {
	HeapBytes  uint64
	SysBytes   uint64
	NumGC      uint32
	Goroutines int
	DataBytes  uint64
}

// ReadHealth samples the runtime and sums the files under dataDir.
func ReadHealth(dataDir string) Health {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Health{
		HeapBytes:  m.HeapAlloc,
		SysBytes:   m.Sys,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		DataBytes:  treeSize(dataDir),
	}
}

func (h Health) Heap() string     { return humanize.IBytes(h.HeapBytes) }
func (h Health) Sys() string      { return humanize.IBytes(h.SysBytes) }
func (h Health) DataSize() string { return humanize.IBytes(h.DataBytes) }

// treeSize ignores entries it cannot stat.
func treeSize(root string) uint64 {
	var total uint64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += uint64(info.Size())
		}
		return nil
	})
	return total
}
