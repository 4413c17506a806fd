package demo

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketTodo = "todo"

// Item is a todo list entry. ID is assigned by the store and never reused,
// which makes it usable as a widget ID.
type Item struct {
	ID        uint64 `json:"-"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TodoStore persists todo items in insertion order.
type TodoStore interface {
	Items() ([]Item, error)
	Add(text string) (Item, error)
	Put(item Item) error
	Delete(id uint64) error
	Close() error
}

// BoltStore is a TodoStore backed by a bbolt database file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open todo store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketTodo))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize todo store: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Items returns every item in insertion order.
func (s *BoltStore) Items() ([]Item, error) {
	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketTodo)).ForEach(func(k, v []byte) error {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("item %d: %w", unmarshalSeq(k), err)
			}
			item.ID = unmarshalSeq(k)
			items = append(items, item)
			return nil
		})
	})
	return items, err
}

// Add stores a new active item.
func (s *BoltStore) Add(text string) (Item, error) {
	item := Item{Text: text}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketTodo))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		item.ID = seq
		return putItem(b, item)
	})
	return item, err
}

// Put overwrites an existing item.
func (s *BoltStore) Put(item Item) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketTodo))
		if b.Get(marshalSeq(item.ID)) == nil {
			return fmt.Errorf("no todo item %d", item.ID)
		}
		return putItem(b, item)
	})
}

// Delete removes an item. Deleting a missing item is not an error.
func (s *BoltStore) Delete(id uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketTodo)).Delete(marshalSeq(id))
	})
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func putItem(b *bolt.Bucket, item Item) error {
	v, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return b.Put(marshalSeq(item.ID), v)
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}

// MemStore is an in-memory TodoStore.
type MemStore struct {
	mu    sync.Mutex
	seq   uint64
	items []Item
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Items() ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...), nil
}

func (s *MemStore) Add(text string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	item := Item{ID: s.seq, Text: text}
	s.items = append(s.items, item)
	return item, nil
}

func (s *MemStore) Put(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return nil
		}
	}
	return fmt.Errorf("no todo item %d", item.ID)
}

func (s *MemStore) Delete(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemStore) Close() error { return nil }
