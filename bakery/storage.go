package bakery

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"
)

// Storage defines storage for macaroon root keys and their associated
// caveats, keyed by macaroon identifier. Calling its methods
// concurrently is allowed.
type Storage interface {
	// Put stores the item at the given location, overwriting
	// any item that might already be there.
	Put(location string, item string) error

	// Get retrieves an item from the given location.
	// If the item is not there, it returns ErrNotFound.
	Get(location string) (item string, err error)

	// Del deletes the item from the given location.
	Del(location string) error
}

var ErrNotFound = errors.New("item not found")

// NewMemStorage returns an implementation of Storage
// that stores all items in memory.
func NewMemStorage() Storage {
	return &memStorage{
		values: make(map[string]string),
	}
}

type memStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func (s *memStorage) Put(location, item string) error {
	logrus.WithField("location", location).Debug("storage put")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[location] = item
	return nil
}

func (s *memStorage) Get(location string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.values[location]
	if !ok {
		logrus.WithField("location", location).Debug("storage get: not found")
		return "", ErrNotFound
	}
	logrus.WithField("location", location).Debug("storage get: found")
	return item, nil
}

func (s *memStorage) Del(location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, location)
	return nil
}

// storageItem is the format used to store a minted macaroon's root key
// and the caveats it was minted with, keyed by the macaroon's
// identifier. Nothing in this package reads these records back; the
// Discharger works from the caveat identifier alone.
type storageItem struct {
	RootKey []byte
	Caveats []Caveat
}

type storage struct {
	store Storage
}

func (s storage) Get(location string) (*storageItem, error) {
	itemStr, err := s.store.Get(location)
	if err != nil {
		return nil, err
	}
	var item storageItem
	if err := json.Unmarshal([]byte(itemStr), &item); err != nil {
		return nil, errgo.Notef(err, "badly formatted item in store")
	}
	return &item, nil
}

func (s storage) Put(location string, item *storageItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return errgo.Notef(err, "cannot marshal storage item")
	}
	return s.store.Put(location, string(data))
}
