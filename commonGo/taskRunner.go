package commonGo

import "sync"

// TaskRunner tracks detached background tasks so their owner can wait for
// completion before tearing down shared components. Submitted tasks do not
// block the caller.
type TaskRunner struct {
	wg sync.WaitGroup
}

// NewTaskRunner creates a new task runner instance
func NewTaskRunner() *TaskRunner {
	return &TaskRunner{}
}

// Go runs the task on a new go routine, tracked until it returns
func (tr *TaskRunner) Go(task func()) {
	tr.wg.Add(1)

	go func() {
		defer tr.wg.Done()

		task()
	}()
}

// Wait blocks until every submitted task has run to completion
func (tr *TaskRunner) Wait() {
	tr.wg.Wait()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (tr *TaskRunner) IsInterfaceNil() bool {
	return tr == nil
}
