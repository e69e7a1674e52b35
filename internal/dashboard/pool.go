package dashboard

import "sync"

// workerPool runs submitted jobs on at most maxWorkers goroutines.
type workerPool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func newWorkerPool(maxWorkers int) *workerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &workerPool{sem: make(chan struct{}, maxWorkers)}
}

// Submit blocks until a worker slot is free, then runs job in the background.
func (p *workerPool) Submit(job func()) {
	p.sem <- struct{}{}
	p.wg.Add(1)
	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()
		job()
	}()
}

// Wait blocks until every submitted job has finished.
func (p *workerPool) Wait() {
	p.wg.Wait()
}
