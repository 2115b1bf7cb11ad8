package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Storage keys.
const (
	KeyName             = "name"
	KeyEmail            = "email"
	KeyPhone            = "phone"
	KeyAddress          = "address"
	KeyMessage          = "message"
	KeySelectedProducts = "selected_products"
	KeyPhotoPieces      = "photo_pieces"
	KeyQuoteID          = "quote_id"
)

// ContactFields are the form fields saved as they are typed.
var ContactFields = []string{KeyName, KeyEmail, KeyPhone, KeyAddress, KeyMessage}

var (
	ErrUnknownField     = errors.New("unknown contact field")
	ErrInvalidSelection = errors.New("invalid stored selection")
)

// Contact is the quote requester.
type Contact struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Message string
}

func (c *Contact) field(key string) *string {
	switch key {
	case KeyName:
		return &c.Name
	case KeyEmail:
		return &c.Email
	case KeyPhone:
		return &c.Phone
	case KeyAddress:
		return &c.Address
	case KeyMessage:
		return &c.Message
	}
	return nil
}

// State reads and writes quote state through a Store.
type State struct {
	store Store
	newID func() string
}

// NewState wraps store.
func NewState(store Store) *State {
	return &State{store: store, newID: uuid.NewString}
}

// Store returns the backing store.
func (s *State) Store() Store { return s.store }

// SaveSelections stores the estimate under KeySelectedProducts.
func (s *State) SaveSelections(ctx context.Context, e *Estimate) error {
	encoded, err := EncodeSelections(e.Selections())
	if err != nil {
		return err
	}
	return s.store.Set(ctx, KeySelectedProducts, encoded)
}

// LoadSelections restores the estimate from KeySelectedProducts. A missing
// key leaves the estimate untouched. Pieces the catalog no longer has are
// skipped and reported with the rest restored.
func (s *State) LoadSelections(ctx context.Context, e *Estimate) error {
	raw, ok, err := s.store.Get(ctx, KeySelectedProducts)
	if err != nil || !ok || raw == "" {
		return err
	}
	sel, err := DecodeSelections(raw)
	if err != nil {
		return err
	}
	return e.Restore(sel)
}

// Contact loads every contact field. Unset fields are empty.
func (s *State) Contact(ctx context.Context) (Contact, error) {
	var c Contact
	for _, key := range ContactFields {
		v, _, err := s.store.Get(ctx, key)
		if err != nil {
			return Contact{}, err
		}
		*c.field(key) = v
	}
	return c, nil
}

// SetContactField saves one contact field.
func (s *State) SetContactField(ctx context.Context, key, value string) error {
	if !slices.Contains(ContactFields, key) {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return s.store.Set(ctx, key, value)
}

// SetPhotoPieces remembers the pieces of the photo being viewed.
func (s *State) SetPhotoPieces(ctx context.Context, photo *Photo) error {
	encoded, err := EncodeSelections(photo.Products)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, KeyPhotoPieces, encoded)
}

// SavePhotoPieces makes the last viewed photo's pieces the selection. It
// reports false when no photo was viewed.
func (s *State) SavePhotoPieces(ctx context.Context) (bool, error) {
	raw, ok, err := s.store.Get(ctx, KeyPhotoPieces)
	if err != nil || !ok {
		return false, err
	}
	if err := s.store.Set(ctx, KeySelectedProducts, raw); err != nil {
		return false, err
	}
	return true, nil
}

// QuoteID returns the quote reference, creating it on first use.
func (s *State) QuoteID(ctx context.Context) (string, error) {
	id, ok, err := s.store.Get(ctx, KeyQuoteID)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}
	id = s.newID()
	if err := s.store.Set(ctx, KeyQuoteID, id); err != nil {
		return "", err
	}
	return id, nil
}

// EncodeSelections renders sel as a JSON array of single-key objects,
// [{"product":"variant"}, ...], keeping order.
func EncodeSelections(sel []Selection) (string, error) {
	out := make([]map[string]string, 0, len(sel))
	for _, s := range sel {
		out = append(out, map[string]string{s.ProductID: s.VariantID})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode selections: %w", err)
	}
	return string(data), nil
}

// DecodeSelections parses the EncodeSelections format. Objects with more
// than one key contribute every key, in key order.
func DecodeSelections(raw string) ([]Selection, error) {
	var objs []map[string]string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &objs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	var out []Selection
	for _, obj := range objs {
		ids := make([]string, 0, len(obj))
		for id := range obj {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			out = append(out, Selection{ProductID: id, VariantID: obj[id]})
		}
	}
	return out, nil
}
