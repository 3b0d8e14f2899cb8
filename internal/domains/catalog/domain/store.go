package domain

import (
	"errors"
	"strings"
)

var ErrEmptyOwnerID = errors.New("store owner id is required")

// Store is a tenant of the dashboard owned by a single principal.
type Store struct {
	ID      string
	Name    string
	OwnerID string
}

// NewStore builds a store ensuring it has an id and an owner.
func NewStore(id, name, ownerID string) (*Store, error) {
	s := &Store{
		ID:      strings.TrimSpace(id),
		Name:    strings.TrimSpace(name),
		OwnerID: strings.TrimSpace(ownerID),
	}
	if s.ID == "" {
		return nil, ErrEmptyStoreID
	}
	if s.OwnerID == "" {
		return nil, ErrEmptyOwnerID
	}
	return s, nil
}

// OwnedBy reports whether userID owns the store.
func (s *Store) OwnedBy(userID string) bool {
	userID = strings.TrimSpace(userID)
	return userID != "" && s.OwnerID == userID
}
