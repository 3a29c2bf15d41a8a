package prefs

import (
	"encoding/json"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"go.uber.org/zap"
)

// Storage keys of the two preference kinds.
const (
	ColorStorageKey = "quarterchart.colorsByCategory.v1"
	OrderStorageKey = "quarterchart.categoryOrder.v1"
)

// Store resolves effective preferences and persists user overrides.
// It is not safe for concurrent use; callers serialize access.
type Store struct {
	storage   Storage
	published models.PreferenceDefaults
	log       *zap.Logger
}

// NewStore returns a store writing overrides to storage.
func NewStore(storage Storage, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{storage: storage, log: log}
}

// SetPublished installs the published defaults tier.
func (s *Store) SetPublished(d models.PreferenceDefaults) {
	s.published = sanitizeDefaults(d)
}

// Published returns the published defaults tier.
func (s *Store) Published() models.PreferenceDefaults {
	return s.published
}

// ColorOverrides returns the user's valid color overrides.
// Missing or malformed stored data yields an empty map.
func (s *Store) ColorOverrides() map[string]string {
	out := make(map[string]string)
	raw, ok := s.read(ColorStorageKey)
	if !ok {
		return out
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.log.Debug("Ignoring malformed color overrides", zap.Error(err))
		return out
	}
	return sanitizeColors(parsed)
}

// OrderOverride returns the user's stored category order.
func (s *Store) OrderOverride() []string {
	raw, ok := s.read(OrderStorageKey)
	if !ok {
		return []string{}
	}
	var parsed []interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.log.Debug("Ignoring malformed category order", zap.Error(err))
		return []string{}
	}
	return sanitizeOrder(parsed)
}

// Palette returns the color lookup for categories in the given display
// order: override, then published, then the computed sweep.
func (s *Store) Palette(ordered []string) ColorFunc {
	return Chain(
		colorMap(s.ColorOverrides()),
		colorMap(s.published.ColorsByCategory),
		newComputedTier(ordered),
	)
}

// EffectiveColor resolves one category's color.
func (s *Store) EffectiveColor(category string, ordered []string) string {
	return s.Palette(ordered)(category)
}

// EffectiveOrder orders all categories by the override, else the
// published order, else leaves them as given.
func (s *Store) EffectiveOrder(all []string) []string {
	return MergeOrder(all, s.OrderOverride(), s.published.CategoryOrder)
}

// SetColorOverride stores a color for one category. Invalid colors are
// rejected with ErrInvalidColor and nothing is written.
func (s *Store) SetColorOverride(category, color string) error {
	normalized, err := NormalizeColor(color)
	if err != nil {
		return err
	}
	overrides := s.ColorOverrides()
	overrides[category] = normalized
	if err := s.write(ColorStorageKey, overrides); err != nil {
		return err
	}
	s.log.Debug("Stored color override", zap.String("category", category), zap.String("color", normalized))
	return nil
}

// ClearColorOverrides removes all color overrides.
func (s *Store) ClearColorOverrides() error {
	return s.write(ColorStorageKey, map[string]string{})
}

// SetOrderOverride stores a category order. An empty order clears it.
func (s *Store) SetOrderOverride(order []string) error {
	if len(order) == 0 {
		return s.ClearOrderOverride()
	}
	return s.write(OrderStorageKey, order)
}

// ClearOrderOverride removes the stored order.
func (s *Store) ClearOrderOverride() error {
	return s.write(OrderStorageKey, []string{})
}

// MoveCategory drops from onto to within the effective order of all and
// stores the result. moved is false when nothing changed.
func (s *Store) MoveCategory(all []string, from, to string) (moved bool, err error) {
	order, ok := Move(s.EffectiveOrder(all), from, to)
	if !ok {
		return false, nil
	}
	return true, s.SetOrderOverride(order)
}

// ExportSnapshot returns the user overrides (not merged values) in the
// published-defaults shape.
func (s *Store) ExportSnapshot() models.PreferenceDefaults {
	return models.PreferenceDefaults{
		ColorsByCategory: s.ColorOverrides(),
		CategoryOrder:    s.OrderOverride(),
	}
}

func (s *Store) read(key string) (string, bool) {
	raw, ok, err := s.storage.Get(key)
	if err != nil {
		s.log.Debug("Preference storage unreadable", zap.String("key", key), zap.Error(err))
		return "", false
	}
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

func (s *Store) write(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.storage.Set(key, string(data))
}
