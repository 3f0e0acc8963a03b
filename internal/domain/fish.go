package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Fish represents one fish species in the catalog.
// JSON field names match the bundled dataset document so records round-trip
// through the bulk importer without a mapping layer. Lifespan, Size, and
// Weight are display strings ("5-15 years", "12-24 in (30-60 cm)"), not
// numerics. Image fields are opaque asset references.
type Fish struct {
	ID                 string      `gorm:"type:text;primaryKey" json:"id"`
	UniqueName         string      `gorm:"type:text;not null;index:idx_fish_name" json:"unique_name"`
	Description        string      `gorm:"type:text" json:"description"`
	CommonAliases      StringArray `gorm:"type:text" json:"common_aliases"`
	ScientificName     string      `gorm:"type:text;not null" json:"scientific_name"`
	JapaneseNameRomaji string      `gorm:"type:text" json:"japanese_name_romaji"`
	JapaneseNameKanji  string      `gorm:"type:text" json:"japanese_name_kanji"`
	Lifespan           string      `gorm:"type:text" json:"lifespan"`
	Size               string      `gorm:"type:text" json:"size"`
	Weight             string      `gorm:"type:text" json:"weight"`
	Habitats           StringArray `gorm:"type:text" json:"habitats"`
	WaysToEat          StringArray `gorm:"type:text" json:"ways_to_eat"`
	SushiImages        StringArray `gorm:"type:text" json:"sushi_images"`
	WildImages         StringArray `gorm:"type:text" json:"wild_images"`
	HabitatMapImage    string      `gorm:"type:text" json:"habitat_map_image"`
	CreatedAt          time.Time   `json:"created_at,omitempty"`
	UpdatedAt          time.Time   `json:"updated_at,omitempty"`
}

// TableName returns the database table name for Fish.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Fish) TableName() string {
	return "fish"
}

// Normalize replaces nil list fields with empty slices. Records loaded from
// partial documents must never carry nil collections.
func (f *Fish) Normalize() {
	if f.CommonAliases == nil {
		f.CommonAliases = StringArray{}
	}
	if f.Habitats == nil {
		f.Habitats = StringArray{}
	}
	if f.WaysToEat == nil {
		f.WaysToEat = StringArray{}
	}
	if f.SushiImages == nil {
		f.SushiImages = StringArray{}
	}
	if f.WildImages == nil {
		f.WildImages = StringArray{}
	}
}

// Validate checks the invariants required of every catalog record.
// Parameters: none.
// Returns:
//   - error: non-nil if a required field is missing.
func (f *Fish) Validate() error {
	if f.ID == "" {
		return errors.New("fish id is required")
	}
	if f.UniqueName == "" {
		return errors.New("fish unique_name is required")
	}
	if f.ScientificName == "" {
		return errors.New("fish scientific_name is required")
	}
	return nil
}
