package service

import "sync"

// entityLocks 按实体 key 串行化读-改-写。同一用户的两次并发提交、
// 同一测验的两次并发统计折叠必须互斥，否则幂等解锁和单调均值会被破坏；
// 不同实体之间没有顺序要求
type entityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEntityLocks() *entityLocks {
	return &entityLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock 锁住指定实体，返回对应的解锁函数
func (l *entityLocks) Lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
