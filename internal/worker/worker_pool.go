package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"

	"github.com/trsv-dev/imageproxy/internal/errs"
	"github.com/trsv-dev/imageproxy/internal/imaging"
	"github.com/trsv-dev/imageproxy/internal/logger"
)

// WorkerPool Пул, выполняющий ресайз в фоновых воркерах.
type WorkerPool interface {
	imaging.Resizer
	Start(ctx context.Context)
	Stop()
}

// ErrQueueFull Очередь задач ресайза переполнена.
var ErrQueueFull = errors.New("очередь ресайза переполнена")

// ErrPoolStopped Пул остановлен и задачи не принимает.
var ErrPoolStopped = errors.New("пул ресайза остановлен")

// ErrResizePanic Ресайзер запаниковал на задаче.
var ErrResizePanic = errors.New("паника при ресайзе")

// resizeTask Задача ресайза. Результат приходит в done.
type resizeTask struct {
	ctx      context.Context
	src      io.Reader
	dst      io.Writer
	mimetype string
	box      imaging.Box
	done     chan error
}

// ResizePool Ограничивает число одновременных ресайзов: задачи выполняют poolSize воркеров,
// остальные ждут в очереди. При переполнении очереди Resize сразу возвращает ошибку 503.
type ResizePool struct {
	resizer  imaging.Resizer
	tasks    chan *resizeTask
	poolSize int
	wg       sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

func NewResizePool(resizer imaging.Resizer, poolSize, queueSize int) *ResizePool {
	if poolSize < 1 {
		poolSize = 1
	}
	if queueSize < poolSize {
		queueSize = poolSize
	}

	return &ResizePool{
		resizer:  resizer,
		tasks:    make(chan *resizeTask, queueSize),
		poolSize: poolSize,
	}
}

func (wp *ResizePool) Start(ctx context.Context) {
	for i := 0; i < wp.poolSize; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Stop Закрывает очередь и ждет завершения воркеров. Задачи, уже стоящие в очереди, выполняются.
func (wp *ResizePool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.tasks)
	wp.mu.Unlock()

	wp.wg.Wait()
}

// Resize Ставит задачу в очередь и ждет результата или отмены ctx.
func (wp *ResizePool) Resize(ctx context.Context, src io.Reader, dst io.Writer, mimetype string, box imaging.Box) error {
	task := &resizeTask{
		ctx:      ctx,
		src:      src,
		dst:      dst,
		mimetype: mimetype,
		box:      box,
		done:     make(chan error, 1),
	}

	if err := wp.submit(task); err != nil {
		return err
	}

	select {
	case err := <-task.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (wp *ResizePool) submit(task *resizeTask) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.stopped {
		return errs.NewErrServerBusy(ErrPoolStopped)
	}

	select {
	case wp.tasks <- task:
		return nil
	default:
		// очередь переполнена, клиенту 503
		return errs.NewErrServerBusy(ErrQueueFull)
	}
}

func (wp *ResizePool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("Завершение работы воркера по контексту", logger.Int("resize_worker id", id))
			return
		case task, ok := <-wp.tasks:
			if !ok {
				logger.Log.Debug("Канал tasks для ResizePool закрыт. Завершение работы воркера", logger.Int("resize_worker id", id))
				return
			}

			// клиент ушел, пока задача ждала в очереди
			if err := task.ctx.Err(); err != nil {
				task.done <- err
				continue
			}

			task.done <- wp.run(task, id)
		}
	}
}

// run Выполняет задачу. Паника декодера или ресайзера превращается в ошибку задачи,
// воркер продолжает работу.
func (wp *ResizePool) run(task *resizeTask, id int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Паника в воркере ресайза",
				logger.Int("resize_worker id", id),
				logger.String("mimetype", task.mimetype),
				logger.Int("w", task.box.Width),
				logger.Int("h", task.box.Height),
				logger.String("panic", fmt.Sprintf("%v", r)),
				logger.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("%w: %v", ErrResizePanic, r)
		}
	}()

	return wp.resizer.Resize(task.ctx, task.src, task.dst, task.mimetype, task.box)
}
