package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contract-planner/internal/excel"
	"github.com/nurpe/contract-planner/internal/model"
	"github.com/nurpe/contract-planner/internal/pdf"
)

type memoryStore struct {
	saved    *model.Document
	saves    int
	failSave error
}

func (m *memoryStore) Load(ctx context.Context) (*model.Document, error) {
	if m.saved == nil {
		return model.NewDocument(), nil
	}
	return m.saved.Clone(), nil
}

func (m *memoryStore) Save(ctx context.Context, doc *model.Document) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.saved = doc.Clone()
	m.saves++
	return nil
}

func (m *memoryStore) Close() error { return nil }

var errQuota = errors.New("quota exceeded")

var fixedNow = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*ContractService, *memoryStore) {
	t.Helper()
	st := &memoryStore{}
	svc, err := NewContractService(context.Background(), st, excel.NewGenerator(), pdf.NewGenerator(), zerolog.Nop(),
		WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return svc, st
}

func mustAdd(t *testing.T, svc *ContractService, name, regional, center string) {
	t.Helper()
	_, err := svc.AddCity(context.Background(), CityInput{Name: name, Regional: regional, Center: center})
	require.NoError(t, err)
}
