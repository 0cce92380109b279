package testsCommon

// TaskRunnerStub runs submitted tasks synchronously unless a handler is provided
type TaskRunnerStub struct {
	GoHandler func(task func())
}

// Go -
func (stub *TaskRunnerStub) Go(task func()) {
	if stub.GoHandler != nil {
		stub.GoHandler(task)
		return
	}

	task()
}

// IsInterfaceNil -
func (stub *TaskRunnerStub) IsInterfaceNil() bool {
	return stub == nil
}
