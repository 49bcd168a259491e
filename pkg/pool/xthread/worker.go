package xthread

import (
	"fmt"
	"time"
)

// startWorkerLocked 尝试拉起一个新 worker。需持有 p.mu。
//
// 非 Running 状态、或已达 MaxWorkers 时静默跳过（记录 debug 日志）。
// worker 创建回调失败是环境性错误：吸收并记录，pool 以现有容量继续运行，
// 下一次 Schedule 会再次尝试扩容。
func (p *Pool) startWorkerLocked() {
	switch p.state {
	case statePreStart:
		p.logger.Debug("xthread: not starting new worker yet; waiting for Startup",
			"pool", p.opts.Name)
		return
	case stateJoinRequired, stateJoining, stateShutdownComplete:
		p.logger.Debug("xthread: not starting new worker while shutting down",
			"pool", p.opts.Name)
		return
	case stateRunning:
		// 继续拉起
	default:
		panic(fmt.Sprintf("xthread: pool %q in impossible state %v", p.opts.Name, p.state))
	}
	if p.numWorkers >= p.opts.MaxWorkers {
		p.logger.Debug("xthread: not starting new worker; pool at maximum",
			"pool", p.opts.Name, "max_workers", p.opts.MaxWorkers)
		return
	}

	workerName := fmt.Sprintf("%s%d", p.opts.WorkerNamePrefix, p.nextWorkerID)
	p.nextWorkerID++
	p.numWorkers++
	p.numIdle++
	go p.workerBody(workerName)
}

// workerBody 是 worker goroutine 的入口。
func (p *Pool) workerBody(workerName string) {
	if !p.runOnCreate(workerName) {
		// 创建回调失败等价于线程创建失败：回退计数后退出，
		// pool 带着更少的 worker 继续运行。
		p.mu.Lock()
		p.numWorkers--
		p.numIdle--
		p.stateChange.Broadcast()
		p.signalIfIdleLocked()
		p.mu.Unlock()
		return
	}

	p.logger.Debug("xthread: starting worker", "pool", p.opts.Name, "worker", workerName)
	p.consumeTasks()
	p.logger.Debug("xthread: shutting down worker", "pool", p.opts.Name, "worker", workerName)
}

// runOnCreate 执行 OnCreateWorker 回调，panic 被恢复并报告为创建失败。
func (p *Pool) runOnCreate(workerName string) (ok bool) {
	if p.opts.OnCreateWorker == nil {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("xthread: failed to start worker",
				"pool", p.opts.Name, "worker", workerName, "panic", r)
			ok = false
		}
	}()
	p.opts.OnCreateWorker(workerName)
	return true
}

// consumeTasks 是 worker 的主循环：取任务执行，空闲时等待或退出。
func (p *Pool) consumeTasks() {
	p.mu.Lock()
	defer p.mu.Unlock()

	retiring := false
	for p.state == stateRunning {
		if p.pending.Empty() {
			switch policy, deadline := p.idleWaitPolicyLocked(); policy {
			case waitUnbounded:
				// 数量未超过下限，没有回收压力，可以无限期等待：
				// 任何把总数推到下限之上的新 worker 都会自己具备退出资格。
				p.workAvailable.Wait()
			case waitBounded:
				p.waitWorkAvailableUntilLocked(deadline)
			case retireNow:
				// 占住下一个回收窗口，保证退出是错峰的。
				now := time.Now()
				p.lastFullUtilization = now
				p.logger.Debug("xthread: reaping worker",
					"pool", p.opts.Name,
					"next_retirement_no_earlier_than", now.Add(p.opts.MaxIdleWorkerAge))
				retiring = true
			}
			if retiring {
				break
			}
			continue
		}
		p.doOneTaskLocked()
	}

	if p.state == stateJoinRequired || p.state == stateJoining {
		// 整池关闭：协助排空剩余任务后退出，由 Join 等待本 worker。
		for !p.pending.Empty() {
			p.doOneTaskLocked()
		}
		p.exitWorkerLocked()
		return
	}

	if p.state != stateRunning {
		panic(fmt.Sprintf("xthread: pool %q state is %v, but expected %v",
			p.opts.Name, p.state, stateRunning))
	}
	// 自愿退出：空闲超龄且数量高于下限。
	p.exitWorkerLocked()
}

// exitWorkerLocked 把当前 worker 从簿记中移除并通知等待方。需持有 p.mu。
//
// 设计决策: 不维护 worker 句柄注册表，用计数代替：退出即递减并广播，
// Join 等待计数归零即可，不存在退出路径上的自查找失败分支。
func (p *Pool) exitWorkerLocked() {
	p.numIdle--
	p.numWorkers--
	p.stateChange.Broadcast()
	p.signalIfIdleLocked()
}

// idleWaitPolicy 是空闲 worker 的等待策略。
type idleWaitPolicy int

const (
	// waitUnbounded 无限期等待新任务（数量不高于下限，无回收资格）。
	waitUnbounded idleWaitPolicy = iota
	// waitBounded 带截止时间等待（有回收资格但窗口未到）。
	waitBounded
	// retireNow 立即自愿退出。
	retireNow
)

// idleWaitPolicyLocked 为当前循环轮选择等待策略。需持有 p.mu。
func (p *Pool) idleWaitPolicyLocked() (idleWaitPolicy, time.Time) {
	if p.numWorkers <= p.opts.MinWorkers {
		return waitUnbounded, time.Time{}
	}
	nextRetirement := p.lastFullUtilization.Add(p.opts.MaxIdleWorkerAge)
	if !time.Now().Before(nextRetirement) {
		return retireNow, time.Time{}
	}
	return waitBounded, nextRetirement
}

// waitWorkAvailableUntilLocked 在 workAvailable 上等待，最晚到 deadline。
// 需持有 p.mu。
//
// sync.Cond 没有带截止时间的等待原语，用到期广播实现。
// 广播会惊醒其他空闲 worker，但它们都会在循环里重新检查条件后再睡，无害。
func (p *Pool) waitWorkAvailableUntilLocked(deadline time.Time) {
	d := time.Until(deadline)
	if d <= 0 {
		return
	}
	t := time.AfterFunc(d, p.workAvailable.Broadcast)
	defer t.Stop()
	p.workAvailable.Wait()
}

// doOneTaskLocked 取出队首任务并在锁外执行。需持有 p.mu，返回时仍持有。
func (p *Pool) doOneTaskLocked() {
	p.logger.Debug("xthread: executing a task", "pool", p.opts.Name)
	task := p.pending.Pop()
	p.numIdle--
	p.mu.Unlock()
	p.runTask(task, nil)
	p.mu.Lock()
	p.numIdle++
	p.signalIfIdleLocked()
}

// signalIfIdleLocked 在 pool 达到静默时唤醒 WaitForIdle 等待方。需持有 p.mu。
func (p *Pool) signalIfIdleLocked() {
	if p.pending.Empty() && p.numIdle >= p.numWorkers {
		p.poolIsIdle.Broadcast()
	}
}

// runTask 调用任务并恢复 panic：单个任务失败不影响 pool 其余部分。
func (p *Pool) runTask(task Task, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("xthread: task panic recovered",
				"pool", p.opts.Name, "panic", r)
		}
	}()
	task(err)
}
