package mockworker

import (
	"github.com/stretchr/testify/mock"

	"github.com/mloptapang/primero/internal/model"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Enqueue(record model.Record) {
	m.Called(record)
}

func (m *Worker) Shutdown() {
	m.Called()
}
