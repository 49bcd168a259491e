package xthread

import "time"

// Stats 是 Pool 运行状态的一致性快照。
type Stats struct {
	// NumWorkers 是存活 worker 数量。
	NumWorkers int

	// NumIdleWorkers 是阻塞等待任务的 worker 数量。
	NumIdleWorkers int

	// NumPendingTasks 是已入队未执行的任务数量。
	NumPendingTasks int

	// LastFullUtilization 是队列深度最近一次达到或超过空闲容量的时刻。
	// 空闲回收以它为基准错峰。pool 从未吃满过时为零值。
	LastFullUtilization time.Time

	// Options 是构造时补全默认值后的配置快照。
	Options Options
}

// Stats 返回当前快照。只读，仅短暂持锁。
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		NumWorkers:          p.numWorkers,
		NumIdleWorkers:      p.numIdle,
		NumPendingTasks:     p.pending.Len(),
		LastFullUtilization: p.lastFullUtilization,
		Options:             p.opts,
	}
}
