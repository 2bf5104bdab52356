//	mockgen -source=internal/usecase/interfaces.go -destination=internal/usecase/mocks/mock_interfaces.go -package=mocks
//

// Package mocks is a generated GoMock package.
package mocks

import (
	context "context"
	reflect "reflect"

	domain "github.com/iho/ledgerdash/internal/domain"
	gomock "go.uber.org/mock/gomock"
)

// MockSessionStore is a mock of SessionStore interface.
type MockSessionStore struct {
	ctrl     *gomock.Controller
	recorder *MockSessionStoreMockRecorder
	isgomock struct{}
}

// MockSessionStoreMockRecorder is the mock recorder for MockSessionStore.
type MockSessionStoreMockRecorder struct {
	mock *MockSessionStore
}

// NewMockSessionStore creates a new mock instance.
func NewMockSessionStore(ctrl *gomock.Controller) *MockSessionStore {
	mock := &MockSessionStore{ctrl: ctrl}
	mock.recorder = &MockSessionStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSessionStore) EXPECT() *MockSessionStoreMockRecorder {
	return m.recorder
}

// Get mocks base method.
func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.Session)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockSessionStoreMockRecorder) Get(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockSessionStore)(nil).Get), ctx, id)
}

// Save mocks base method.
func (m *MockSessionStore) Save(ctx context.Context, session *domain.Session) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Save", ctx, session)
	ret0, _ := ret[0].(error)
	return ret0
}

// Save indicates an expected call of Save.
func (mr *MockSessionStoreMockRecorder) Save(ctx, session any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Save", reflect.TypeOf((*MockSessionStore)(nil).Save), ctx, session)
}

// Delete mocks base method.
func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Delete indicates an expected call of Delete.
func (mr *MockSessionStoreMockRecorder) Delete(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockSessionStore)(nil).Delete), ctx, id)
}

// MockLedgerParser is a mock of LedgerParser interface.
type MockLedgerParser struct {
	ctrl     *gomock.Controller
	recorder *MockLedgerParserMockRecorder
	isgomock struct{}
}

// MockLedgerParserMockRecorder is the mock recorder for MockLedgerParser.
type MockLedgerParserMockRecorder struct {
	mock *MockLedgerParser
}

// NewMockLedgerParser creates a new mock instance.
func NewMockLedgerParser(ctrl *gomock.Controller) *MockLedgerParser {
	mock := &MockLedgerParser{ctrl: ctrl}
	mock.recorder = &MockLedgerParserMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLedgerParser) EXPECT() *MockLedgerParserMockRecorder {
	return m.recorder
}

// ParseLedger mocks base method.
func (m *MockLedgerParser) ParseLedger(fileName string, data []byte) (*domain.Table, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ParseLedger", fileName, data)
	ret0, _ := ret[0].(*domain.Table)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ParseLedger indicates an expected call of ParseLedger.
func (mr *MockLedgerParserMockRecorder) ParseLedger(fileName, data any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ParseLedger", reflect.TypeOf((*MockLedgerParser)(nil).ParseLedger), fileName, data)
}

// ParseChart mocks base method.
func (m *MockLedgerParser) ParseChart(fileName string, data []byte) (*domain.ChartOfAccounts, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ParseChart", fileName, data)
	ret0, _ := ret[0].(*domain.ChartOfAccounts)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ParseChart indicates an expected call of ParseChart.
func (mr *MockLedgerParserMockRecorder) ParseChart(fileName, data any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ParseChart", reflect.TypeOf((*MockLedgerParser)(nil).ParseChart), fileName, data)
}

// MockIDGenerator is a mock of IDGenerator interface.
type MockIDGenerator struct {
	ctrl     *gomock.Controller
	recorder *MockIDGeneratorMockRecorder
	isgomock struct{}
}

// MockIDGeneratorMockRecorder is the mock recorder for MockIDGenerator.
type MockIDGeneratorMockRecorder struct {
	mock *MockIDGenerator
}

// NewMockIDGenerator creates a new mock instance.
func NewMockIDGenerator(ctrl *gomock.Controller) *MockIDGenerator {
	mock := &MockIDGenerator{ctrl: ctrl}
	mock.recorder = &MockIDGeneratorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockIDGenerator) EXPECT() *MockIDGeneratorMockRecorder {
	return m.recorder
}

// Generate mocks base method.
func (m *MockIDGenerator) Generate() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Generate")
	ret0, _ := ret[0].(string)
	return ret0
}

// Generate indicates an expected call of Generate.
func (mr *MockIDGeneratorMockRecorder) Generate() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Generate", reflect.TypeOf((*MockIDGenerator)(nil).Generate))
}
