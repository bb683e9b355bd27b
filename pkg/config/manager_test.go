package config

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSection is a test implementation of the Section interface
type mockSection struct {
	id          string
	title       string
	data        map[string]interface{}
	validateErr error
}

func (m *mockSection) ID() string                                { return m.id }
func (m *mockSection) Title() string                             { return m.title }
func (m *mockSection) Description() string                       { return "" }
func (m *mockSection) Data() map[string]interface{}              { return m.data }
func (m *mockSection) SetData(data map[string]interface{}) error { m.data = data; return nil }
func (m *mockSection) Validate() error                           { return m.validateErr }
func (m *mockSection) Reset()                                    { m.data = make(map[string]interface{}) }

// mockStore is a test implementation of the Store interface
type mockStore struct {
	sections map[string]map[string]interface{}
	loadErr  error
	saveErr  error
	saves    int
}

func newMockStore() *mockStore {
	return &mockStore{sections: make(map[string]map[string]interface{})}
}

func (m *mockStore) Load() error { return m.loadErr }

func (m *mockStore) Save() error {
	m.saves++
	return m.saveErr
}

func (m *mockStore) GetSection(sectionID string) (map[string]interface{}, error) {
	if data, exists := m.sections[sectionID]; exists {
		return data, nil
	}
	return make(map[string]interface{}), nil
}

func (m *mockStore) SetSection(sectionID string, data map[string]interface{}) error {
	m.sections[sectionID] = data
	return nil
}

func (m *mockStore) GetAll() (map[string]map[string]interface{}, error) {
	return m.sections, nil
}

func (m *mockStore) SetAll(data map[string]map[string]interface{}) error {
	m.sections = data
	return nil
}

func TestManager_RegisterSection(t *testing.T) {
	store := newMockStore()
	manager := NewManager(store)
	assert.Same(t, store, manager.Store())
	assert.Empty(t, manager.GetSections())

	for _, id := range []string{"first", "second", "third"} {
		require.NoError(t, manager.RegisterSection(&mockSection{id: id}))
	}
	assert.Error(t, manager.RegisterSection(&mockSection{id: "second"}), "duplicate id")

	var ids []string
	for _, s := range manager.GetSections() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{"first", "second", "third"}, ids)

	got, ok := manager.GetSection("second")
	require.True(t, ok)
	assert.Equal(t, "second", got.ID())

	_, ok = manager.GetSection("missing")
	assert.False(t, ok)
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("applies stored data", func(t *testing.T) {
		store := newMockStore()
		store.sections["a"] = map[string]interface{}{"key": "value"}

		manager := NewManager(store)
		a := &mockSection{id: "a", data: map[string]interface{}{}}
		b := &mockSection{id: "b", data: map[string]interface{}{"default": true}}
		require.NoError(t, manager.RegisterSection(a))
		require.NoError(t, manager.RegisterSection(b))

		require.NoError(t, manager.LoadAll())
		assert.Equal(t, "value", a.data["key"])
		assert.Equal(t, true, b.data["default"], "sections without stored data keep defaults")
	})

	t.Run("store error", func(t *testing.T) {
		store := newMockStore()
		store.loadErr = errors.New("load error")
		assert.Error(t, NewManager(store).LoadAll())
	})
}

func TestManager_SaveAll(t *testing.T) {
	t.Run("writes every section", func(t *testing.T) {
		store := newMockStore()
		manager := NewManager(store)
		require.NoError(t, manager.RegisterSection(&mockSection{id: "a", data: map[string]interface{}{"k1": "v1"}}))
		require.NoError(t, manager.RegisterSection(&mockSection{id: "b", data: map[string]interface{}{"k2": "v2"}}))

		require.NoError(t, manager.SaveAll())
		assert.Equal(t, "v1", store.sections["a"]["k1"])
		assert.Equal(t, "v2", store.sections["b"]["k2"])
		assert.Equal(t, 1, store.saves)
	})

	t.Run("validates before writing", func(t *testing.T) {
		store := newMockStore()
		manager := NewManager(store)
		require.NoError(t, manager.RegisterSection(&mockSection{id: "ok", data: map[string]interface{}{"k": "v"}}))
		require.NoError(t, manager.RegisterSection(&mockSection{id: "bad", validateErr: errors.New("invalid")}))

		assert.Error(t, manager.SaveAll())
		assert.Empty(t, store.sections)
		assert.Zero(t, store.saves)
	})

	t.Run("store error", func(t *testing.T) {
		store := newMockStore()
		store.saveErr = errors.New("save error")
		manager := NewManager(store)
		require.NoError(t, manager.RegisterSection(&mockSection{id: "a"}))

		assert.Error(t, manager.SaveAll())
	})
}

func TestManager_ResetAll(t *testing.T) {
	manager := NewManager(newMockStore())
	manager.ResetAll()

	a := &mockSection{id: "a", data: map[string]interface{}{"k": "v"}}
	require.NoError(t, manager.RegisterSection(a))
	manager.ResetAll()
	assert.Empty(t, a.data)
}

func TestManager_ConcurrentRegistration(t *testing.T) {
	manager := NewManager(newMockStore())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = manager.RegisterSection(&mockSection{id: fmt.Sprintf("section%d", i)})
			manager.GetSections()
		}(i)
	}
	wg.Wait()

	assert.Len(t, manager.GetSections(), 10)
}
