package query_service

import (
	"context"
	"log"
	"sync"
	"time"
)

// RefreshTask 周期刷新任务
type RefreshTask struct {
	Name     string
	Interval time.Duration
	// Run refetches; it should invalidate its own keys first so the fetch is not served from cache
	Run func(ctx context.Context) error
}

// Refresher 后台刷新处理器, one ticker per registered task
type Refresher struct {
	tasks    []RefreshTask
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
	timeout  time.Duration
}

// NewRefresher create refresher
func NewRefresher(tasks ...RefreshTask) *Refresher {
	return &Refresher{
		tasks:    tasks,
		stopChan: make(chan struct{}),
		timeout:  30 * time.Second, // 单次刷新超时
	}
}

// Add registers a task; only effective before Start
func (r *Refresher) Add(task RefreshTask) {
	r.tasks = append(r.tasks, task)
}

// Start 启动刷新处理器
func (r *Refresher) Start() {
	log.Printf("Query refresher started with %d tasks", len(r.tasks))
	for _, task := range r.tasks {
		if task.Interval <= 0 || task.Run == nil {
			continue
		}
		r.wg.Add(1)
		go r.run(task)
	}
}

// Stop 停止刷新处理器
func (r *Refresher) Stop() {
	r.once.Do(func() {
		log.Println("Stopping query refresher...")
		close(r.stopChan)
	})
	r.wg.Wait()
}

func (r *Refresher) run(task RefreshTask) {
	defer r.wg.Done()
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			log.Printf("Refresh task %s stopped", task.Name)
			return
		case <-ticker.C:
			r.refresh(task)
		}
	}
}

func (r *Refresher) refresh(task RefreshTask) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	go func() {
		select {
		case <-r.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := task.Run(ctx); err != nil {
		log.Printf("⚠️  refresh %s failed: %v", task.Name, err)
	}
}
