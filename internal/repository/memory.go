package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vancomm/crystal-levels/internal/level"
)

// Memory keeps authors and levels in process. It backs development runs
// without a database and handler tests.
type Memory struct {
	mu      sync.Mutex
	authors map[string]*Author
	levels  []*LevelRecord
}

func NewMemory() *Memory {
	return &Memory{authors: make(map[string]*Author)}
}

func (m *Memory) CreateAuthor(_ context.Context, username string, passwordHash []byte) (*Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.authors[username]; ok {
		return nil, ErrUsernameTaken
	}
	a := &Author{
		AuthorId:     int64(len(m.authors) + 1),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.authors[username] = a
	return a, nil
}

func (m *Memory) FetchAuthor(_ context.Context, username string) (*Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.authors[username]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *Memory) CreateLevel(_ context.Context, authorId *int64, lvl *level.Level) (*LevelRecord, error) {
	state, err := lvl.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to encode level: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r := &LevelRecord{
		LevelId:          int64(len(m.levels) + 1),
		AuthorId:         authorId,
		Width:            int32(lvl.Grid.Width()),
		Height:           int32(lvl.Grid.Height()),
		RequiredCrystals: int32(lvl.RequiredCrystals),
		Seed:             int64(lvl.Seed),
		Attempts:         int32(lvl.Attempts),
		State:            state,
		CreatedAt:        time.Now().UTC(),
	}
	m.levels = append(m.levels, r)
	return r, nil
}

func (m *Memory) FetchLevel(_ context.Context, levelId int64) (*LevelRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if levelId < 1 || levelId > int64(len(m.levels)) {
		return nil, ErrNotFound
	}
	return m.levels[levelId-1], nil
}

func (m *Memory) ListLevels(_ context.Context, filter LevelFilter) ([]LevelRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]LevelRecord, 0)
	for i := len(m.levels) - 1; i >= 0 && len(records) < filter.limit(); i-- {
		if filter.Matches(m.levels[i]) {
			records = append(records, *m.levels[i])
		}
	}
	return records, nil
}
