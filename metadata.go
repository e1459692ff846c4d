package editproj

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/iancoleman/orderedmap"
	"github.com/invopop/jsonschema"
)

// MetadataStore 插件自定义数据, 值对核心流程不透明, 按插入顺序保存.
// 可并发使用
type MetadataStore struct {
	mu *sync.RWMutex
	om *orderedmap.OrderedMap
}

func NewMetadataStore() *MetadataStore {
	return &MetadataStore{mu: new(sync.RWMutex), om: orderedmap.New()}
}

// Add stores value under key, replacing any previous value. value is kept
// as its JSON encoding.
func (s *MetadataStore) Add(key string, value any) error {
	raw, ok := value.(json.RawMessage)
	if !ok {
		bt, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("metadata %q: %w", key, err)
		}
		raw = bt
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.om.Set(key, raw)
	return nil
}

func (s *MetadataStore) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.om.Get(key); !ok {
		return false
	}
	s.om.Delete(key)
	return true
}

// Get returns the raw JSON value of key, nil when absent.
func (s *MetadataStore) Get(key string) json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.om.Get(key)
	if !ok {
		return nil
	}
	raw, _ := v.(json.RawMessage)
	return raw
}

func (s *MetadataStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.om.Keys()...)
}

func (s *MetadataStore) Len() int {
	return len(s.Keys())
}

func (s *MetadataStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.om = orderedmap.New()
}

// CopyFrom adds every entry of o, in order.
func (s *MetadataStore) CopyFrom(o *MetadataStore) {
	if o == nil || o == s {
		return
	}
	o.mu.RLock()
	keys := append([]string(nil), o.om.Keys()...)
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i], _ = o.om.Get(k)
	}
	o.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, k := range keys {
		s.om.Set(k, values[i])
	}
}

func (s *MetadataStore) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.om.MarshalJSON()
}

func (s *MetadataStore) UnmarshalJSON(data []byte) error {
	order := orderedmap.New()
	if err := order.UnmarshalJSON(data); err != nil {
		return err
	}
	values := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	om := orderedmap.New()
	for _, k := range order.Keys() {
		om.Set(k, values[k])
	}
	if s.mu == nil {
		s.mu = new(sync.RWMutex)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.om = om
	return nil
}

// JSONSchema describes the store as a free-form object.
func (MetadataStore) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:  "object",
		Title: "customMetadatas",
	}
}

// MetadataAs decodes the value of key into T.
func MetadataAs[T any](s *MetadataStore, key string) (T, bool, error) {
	var v T
	raw := s.Get(key)
	if raw == nil {
		return v, false, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, true, fmt.Errorf("metadata %q: %w", key, err)
	}
	return v, true, nil
}
