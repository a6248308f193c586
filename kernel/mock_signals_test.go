// Hand-written mock of jit.SignalAccess in the shape MockGen produces
// (github.com/nvc-project/nvc-core/jit, interface SignalAccess).

package kernel_test

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
)

// MockSignalAccess is a mock of the jit.SignalAccess interface, hand
// authored in the shape `mockgen` would produce (this module does not
// run `go generate`), grounded on the teacher's own `api/driver_internal_test.go`
// MockPort/MockDevice usage of `github.com/golang/mock/gomock`.
type MockSignalAccess struct {
	ctrl     *gomock.Controller
	recorder *MockSignalAccessMockRecorder
}

// MockSignalAccessMockRecorder is the recorder for MockSignalAccess.
type MockSignalAccessMockRecorder struct {
	mock *MockSignalAccess
}

// NewMockSignalAccess creates a new mock instance.
func NewMockSignalAccess(ctrl *gomock.Controller) *MockSignalAccess {
	mock := &MockSignalAccess{ctrl: ctrl}
	mock.recorder = &MockSignalAccessMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSignalAccess) EXPECT() *MockSignalAccessMockRecorder {
	return m.recorder
}

// ReadSignal mocks base method.
func (m *MockSignalAccess) ReadSignal(handle int64) int64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReadSignal", handle)
	ret0, _ := ret[0].(int64)
	return ret0
}

// ReadSignal indicates an expected call of ReadSignal.
func (mr *MockSignalAccessMockRecorder) ReadSignal(handle any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadSignal", reflect.TypeOf((*MockSignalAccess)(nil).ReadSignal), handle)
}

// ScheduleSignal mocks base method.
func (m *MockSignalAccess) ScheduleSignal(handle, value, delayFs int64) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ScheduleSignal", handle, value, delayFs)
}

// ScheduleSignal indicates an expected call of ScheduleSignal.
func (mr *MockSignalAccessMockRecorder) ScheduleSignal(handle, value, delayFs any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ScheduleSignal", reflect.TypeOf((*MockSignalAccess)(nil).ScheduleSignal), handle, value, delayFs)
}

// ResolveSignal mocks base method.
func (m *MockSignalAccess) ResolveSignal(handle int64) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ResolveSignal", handle)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ResolveSignal indicates an expected call of ResolveSignal.
func (mr *MockSignalAccessMockRecorder) ResolveSignal(handle any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ResolveSignal", reflect.TypeOf((*MockSignalAccess)(nil).ResolveSignal), handle)
}
