// Package mocks provides test doubles for the jobnimbus client.
package mocks

import (
	"context"

	jobnimbus "github.com/Revivalution/jn-dual-create/pkg/jobnimbus"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// SearchContacts provides a mock function with given fields: ctx, q
func (_m *MockClient) SearchContacts(ctx context.Context, q jobnimbus.ContactQuery) ([]jobnimbus.Record, error) {
	ret := _m.Called(ctx, q)

	if len(ret) == 0 {
		panic("no return value specified for SearchContacts")
	}

	var r0 []jobnimbus.Record
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, jobnimbus.ContactQuery) ([]jobnimbus.Record, error)); ok {
		return rf(ctx, q)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]jobnimbus.Record)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// GetContact provides a mock function with given fields: ctx, id
func (_m *MockClient) GetContact(ctx context.Context, id string) (jobnimbus.Record, error) {
	return _m.record("GetContact", ctx, id)
}

// CreateContact provides a mock function with given fields: ctx, body
func (_m *MockClient) CreateContact(ctx context.Context, body map[string]any) (jobnimbus.Record, error) {
	return _m.record("CreateContact", ctx, body)
}

// GetJob provides a mock function with given fields: ctx, id
func (_m *MockClient) GetJob(ctx context.Context, id string) (jobnimbus.Record, error) {
	return _m.record("GetJob", ctx, id)
}

// CreateJob provides a mock function with given fields: ctx, body
func (_m *MockClient) CreateJob(ctx context.Context, body map[string]any) (jobnimbus.Record, error) {
	return _m.record("CreateJob", ctx, body)
}

func (_m *MockClient) record(method string, ctx context.Context, arg any) (jobnimbus.Record, error) {
	ret := _m.MethodCalled(method, ctx, arg)

	if len(ret) == 0 {
		panic("no return value specified for " + method)
	}

	var r0 jobnimbus.Record
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(jobnimbus.Record)
	}
	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient. It also registers a
// cleanup function to assert the mocks expectations.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
