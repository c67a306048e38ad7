package store

import "context"

// MemoryDSN 表示使用进程内存储，不落盘。
const MemoryDSN = ":memory:"

// KV 为按键存取 JSON 槽位的存储，SQLite 与 Memory 均满足该接口。
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open 按 dsn 打开槽位存储：MemoryDSN 为内存实现，其余视为 SQLite 文件路径。
func Open(dsn string) (KV, error) {
	if dsn == MemoryDSN {
		return NewMemory(), nil
	}
	return OpenSQLite(dsn)
}
