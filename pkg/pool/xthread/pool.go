package xthread

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/omeyang/ckit/internal/taskq"
)

// 编译时接口检查
var _ io.Closer = (*Pool)(nil)

// Task 是提交给 Pool 的工作单元。
//
// 每个任务保证被调用且只被调用一次：正常执行时传入 nil，
// pool 关闭后被短路时传入 [ErrShutdownInProgress]（可用 errors.Is 判断），
// 此时任务不应执行实际工作，只做资源清理。
type Task func(err error)

// Pool 是有界弹性 worker pool。
//
// 所有导出方法都是并发安全的。状态、队列与计数由单一 monitor 锁保护；
// 任务体在锁外执行，长任务不会阻塞 pool 的簿记。
type Pool struct {
	opts   Options
	logger *slog.Logger

	mu sync.Mutex
	// workAvailable 唤醒等待任务的 worker。
	workAvailable *sync.Cond
	// stateChange 广播状态迁移和 worker 退出，Join 在其上等待。
	stateChange *sync.Cond
	// poolIsIdle 在队列排空且全员空闲时广播，WaitForIdle 在其上等待。
	poolIsIdle *sync.Cond

	state   lifecycleState
	pending *taskq.Queue[Task]

	// numWorkers 是存活 worker 数；numIdle 是其中阻塞等待任务的数量。
	// 不变量：0 <= numIdle <= numWorkers。
	numWorkers int
	numIdle    int

	// lastFullUtilization 记录队列深度最近一次达到或超过空闲容量的时刻，
	// 空闲回收以它为基准错峰：每个 MaxIdleWorkerAge 窗口最多退出一个 worker。
	lastFullUtilization time.Time

	// nextWorkerID 为 worker 分配名称编号。
	nextWorkerID int64
}

// New 创建 Pool。
//
// opts 中的零值字段按 [Options] 文档补全默认值；补全后校验失败
// （MaxWorkers < 1、MinWorkers 为负或超过 MaxWorkers）会 panic：
// 构造期配置错误是编程错误，不作为可恢复错误返回。
func New(opts Options, o ...Option) *Pool {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		panic(fmt.Sprintf("xthread: invalid options for pool %q: %v", opts.Name, err))
	}

	cfg := defaultPoolConfig()
	for _, opt := range o {
		opt(&cfg)
	}

	p := &Pool{
		opts:    opts,
		logger:  cfg.logger,
		state:   statePreStart,
		pending: taskq.New[Task](),
	}
	p.workAvailable = sync.NewCond(&p.mu)
	p.stateChange = sync.NewCond(&p.mu)
	p.poolIsIdle = sync.NewCond(&p.mu)
	return p
}

// Startup 启动 pool，只允许调用一次。
//
// 启动时拉起 clamp(MinWorkers, MaxWorkers, 当前队列深度) 个 worker：
// PreStart 阶段入队的任务越多，初始 worker 越多（仍受上限约束）。
// 在 PreStart 以外的状态调用会 panic。
func (p *Pool) Startup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != statePreStart {
		panic(fmt.Sprintf("xthread: pool %q already started (state %v)", p.opts.Name, p.state))
	}
	p.setStateLocked(stateRunning)

	numToStart := min(p.opts.MaxWorkers, max(p.opts.MinWorkers, p.pending.Len()))
	for i := 0; i < numToStart; i++ {
		p.startWorkerLocked()
	}
}

// Schedule 提交任务。task 不得为 nil，否则 panic。
//
// Schedule 永不失败：PreStart/Running 状态下入队；关闭后（JoinRequired
// 及之后）立即在调用方 goroutine 上以 [ErrShutdownInProgress] 调用任务。
// 运行中提交还可能触发扩容：队列深度超过空闲 worker 数且未达上限时
// 拉起一个新 worker。
func (p *Pool) Schedule(task Task) {
	if task == nil {
		panic("xthread: nil task")
	}

	p.mu.Lock()
	switch p.state {
	case stateJoinRequired, stateJoining, stateShutdownComplete:
		name := p.opts.Name
		p.mu.Unlock()
		p.runTask(task, fmt.Errorf("%w: pool %s", ErrShutdownInProgress, name))
		return
	case statePreStart, stateRunning:
		// 继续入队
	default:
		p.mu.Unlock()
		panic(fmt.Sprintf("xthread: pool %q in impossible state %v", p.opts.Name, p.state))
	}

	p.pending.Push(task)
	if p.state == statePreStart {
		p.mu.Unlock()
		return
	}
	if p.numIdle < p.pending.Len() {
		p.startWorkerLocked()
	}
	if p.numIdle <= p.pending.Len() {
		// 队列深度吃满了空闲容量，刷新错峰回收的基准时刻。
		p.lastFullUtilization = time.Now()
	}
	p.workAvailable.Signal()
	p.mu.Unlock()
}

// Shutdown 请求关闭。
//
// PreStart/Running 状态迁移到 JoinRequired 并唤醒所有 worker；
// 之后的状态下是幂等 no-op。Shutdown 只发出请求，排空与等待由 Join 完成。
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdownLocked()
}

func (p *Pool) shutdownLocked() {
	switch p.state {
	case statePreStart, stateRunning:
		p.setStateLocked(stateJoinRequired)
		p.workAvailable.Broadcast()
	case stateJoinRequired, stateJoining, stateShutdownComplete:
		// 幂等
	default:
		panic(fmt.Sprintf("xthread: pool %q in impossible state %v", p.opts.Name, p.state))
	}
}

// Join 阻塞到关闭完成。
//
// 先等待 Shutdown 被调用（可由其他 goroutine 发起），然后排空剩余任务、
// 等待所有 worker 退出，最后迁移到 ShutdownComplete。
// 对同一个 pool 调用两次 Join 是编程错误，第二次会 panic。
func (p *Pool) Join() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.joinLocked()
}

func (p *Pool) joinLocked() {
	for {
		switch p.state {
		case statePreStart, stateRunning:
			p.stateChange.Wait()
			continue
		case stateJoinRequired:
			// 开始 join
		case stateJoining, stateShutdownComplete:
			panic(fmt.Sprintf("xthread: pool %q joined more than once", p.opts.Name))
		default:
			panic(fmt.Sprintf("xthread: pool %q in impossible state %v", p.opts.Name, p.state))
		}
		break
	}
	p.setStateLocked(stateJoining)

	// join 期间本 goroutine 视作一个空闲 worker 参与簿记，
	// 这样排空过程中的 numIdle/numWorkers 关系保持一致。
	p.numIdle++
	p.numWorkers++
	if !p.pending.Empty() {
		p.mu.Unlock()
		p.drainPendingTasks()
		p.mu.Lock()
	}
	p.numIdle--
	p.numWorkers--

	for p.numWorkers > 0 {
		p.stateChange.Wait()
	}
	if p.state != stateJoining {
		panic(fmt.Sprintf("xthread: pool %q state is %v, but expected %v",
			p.opts.Name, p.state, stateJoining))
	}
	if !p.pending.Empty() {
		panic(fmt.Sprintf("xthread: pool %q has %d pending tasks after drain",
			p.opts.Name, p.pending.Len()))
	}
	p.setStateLocked(stateShutdownComplete)
	p.poolIsIdle.Broadcast()
}

// drainPendingTasks 在专门的排空 goroutine 上执行剩余任务并等它结束。
//
// 设计决策: 不在调用 Join 的 goroutine 上内联排空——任务可能需要
// 注册自己的执行上下文（OnCreateWorker 回调建立的日志字段、线程绑定等），
// 而 Join 的调用方上可能已经绑定了不兼容的上下文。
func (p *Pool) drainPendingTasks() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.mu.Lock()
		workerName := fmt.Sprintf("%s%d", p.opts.WorkerNamePrefix, p.nextWorkerID)
		p.nextWorkerID++
		p.mu.Unlock()

		if !p.runOnCreate(workerName) {
			// 回调失败也必须排空：直接跳过上下文注册继续执行，
			// 保证"每个任务恰好调用一次"的契约不被破坏。
			p.logger.Warn("xthread: drain worker context setup failed; draining anyway",
				"pool", p.opts.Name, "worker", workerName)
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		for !p.pending.Empty() {
			p.doOneTaskLocked()
		}
	}()
	<-done
}

// WaitForIdle 阻塞到 pool 静默：队列为空且所有 worker 都在空闲等待。
// 用于测试中的静默屏障和可控重启。
func (p *Pool) WaitForIdle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	// 有任务待执行，或有 worker 正在执行任务，都不算静默。
	for !p.pending.Empty() || p.numIdle < p.numWorkers {
		p.poolIsIdle.Wait()
	}
}

// Close 关闭 pool，等价于 Shutdown 加 Join（未完成时），满足 io.Closer。
//
// 已经完整关闭过的 pool 上调用 Close 是安全的 no-op；
// 与并发的 Join 竞争则同 Join 的重复调用一样 panic。
// 始终返回 nil error。
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdownLocked()
	if p.state != stateShutdownComplete {
		p.joinLocked()
	}
	if p.state != stateShutdownComplete {
		panic(fmt.Sprintf("xthread: failed to shutdown pool %q during close", p.opts.Name))
	}
	return nil
}

// setStateLocked 迁移状态并广播变更。需持有 p.mu。
func (p *Pool) setStateLocked(s lifecycleState) {
	if s == p.state {
		return
	}
	p.state = s
	p.stateChange.Broadcast()
}
