package entities

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Setting is a raw key/value row as persisted in the settings table.
type Setting struct {
	Key   string `gorm:"primaryKey;type:text" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

func (Setting) TableName() string {
	return "settings"
}

// SettingKey names one of the recognised display preferences.
type SettingKey string

// Known setting keys
const (
	SettingViewMode    SettingKey = "viewMode"
	SettingFontSize    SettingKey = "fontSize"
	SettingLineHeight  SettingKey = "lineHeight"
	SettingMargin      SettingKey = "margin"
	SettingFont        SettingKey = "font"
	SettingEinkMode    SettingKey = "einkMode"
	SettingHaptic      SettingKey = "haptic"
	SettingSound       SettingKey = "sound"
	SettingScrollAccel SettingKey = "scrollAccel"
)

// SettingKind distinguishes boolean settings from enumerations.
type SettingKind int

const (
	SettingKindEnum SettingKind = iota
	SettingKindBool
)

func (k SettingKind) String() string {
	if k == SettingKindBool {
		return "bool"
	}
	return "enum"
}

// Literal encodings of boolean values at the storage boundary.
const (
	settingTrue  = "true"
	settingFalse = "false"
)

// SettingValue is a tagged value: either a boolean or an enumeration tag.
type SettingValue struct {
	kind SettingKind
	b    bool
	tag  string
}

// BoolValue wraps a boolean setting value.
func BoolValue(b bool) SettingValue {
	return SettingValue{kind: SettingKindBool, b: b}
}

// EnumValue wraps an enumeration tag.
func EnumValue(tag string) SettingValue {
	return SettingValue{kind: SettingKindEnum, tag: tag}
}

// DecodeSettingValue turns a stored string back into a tagged value. Only the
// literals "true" and "false" decode to booleans.
func DecodeSettingValue(raw string) SettingValue {
	switch raw {
	case settingTrue:
		return BoolValue(true)
	case settingFalse:
		return BoolValue(false)
	default:
		return EnumValue(raw)
	}
}

func (v SettingValue) Kind() SettingKind { return v.kind }

// Bool returns the boolean and whether the value is a boolean at all.
func (v SettingValue) Bool() (bool, bool) {
	return v.b, v.kind == SettingKindBool
}

// Tag returns the enumeration tag, or "" for booleans.
func (v SettingValue) Tag() string {
	if v.kind == SettingKindBool {
		return ""
	}
	return v.tag
}

// Encode renders the value in its persisted text form.
func (v SettingValue) Encode() string {
	if v.kind == SettingKindBool {
		if v.b {
			return settingTrue
		}
		return settingFalse
	}
	return v.tag
}

func (v SettingValue) String() string { return v.Encode() }

func (v SettingValue) MarshalJSON() ([]byte, error) {
	if v.kind == SettingKindBool {
		return json.Marshal(v.b)
	}
	return json.Marshal(v.tag)
}

func (v *SettingValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolValue(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("setting value must be a boolean or a string")
	}
	*v = DecodeSettingValue(s)
	return nil
}

type settingDef struct {
	kind    SettingKind
	allowed []string
	def     SettingValue
}

var settingKeys = []SettingKey{
	SettingViewMode,
	SettingFontSize,
	SettingLineHeight,
	SettingMargin,
	SettingFont,
	SettingEinkMode,
	SettingHaptic,
	SettingSound,
	SettingScrollAccel,
}

var settingDefs = map[SettingKey]settingDef{
	SettingViewMode:    {kind: SettingKindEnum, allowed: []string{"continuous", "page"}, def: EnumValue("page")},
	SettingFontSize:    {kind: SettingKindEnum, allowed: []string{"small", "medium", "large"}, def: EnumValue("medium")},
	SettingLineHeight:  {kind: SettingKindEnum, allowed: []string{"normal", "wide"}, def: EnumValue("normal")},
	SettingMargin:      {kind: SettingKindEnum, allowed: []string{"normal", "wide"}, def: EnumValue("normal")},
	SettingFont:        {kind: SettingKindEnum, allowed: []string{"sans", "mono"}, def: EnumValue("sans")},
	SettingEinkMode:    {kind: SettingKindBool, def: BoolValue(false)},
	SettingHaptic:      {kind: SettingKindBool, def: BoolValue(false)},
	SettingSound:       {kind: SettingKindBool, def: BoolValue(false)},
	SettingScrollAccel: {kind: SettingKindEnum, allowed: []string{"slow", "normal"}, def: EnumValue("normal")},
}

// SettingKeys lists the recognised keys in display order.
func SettingKeys() []SettingKey {
	return slices.Clone(settingKeys)
}

// ParseSettingKey reports whether s names a recognised setting.
func ParseSettingKey(s string) (SettingKey, bool) {
	k := SettingKey(s)
	_, ok := settingDefs[k]
	return k, ok
}

// Known reports whether k is a recognised setting.
func (k SettingKey) Known() bool {
	_, ok := settingDefs[k]
	return ok
}

// Kind returns the value kind of k.
func (k SettingKey) Kind() SettingKind {
	return settingDefs[k].kind
}

// Allowed returns the permitted enumeration tags of k (nil for booleans).
func (k SettingKey) Allowed() []string {
	return slices.Clone(settingDefs[k].allowed)
}

// Default returns the seeded value of k.
func (k SettingKey) Default() SettingValue {
	return settingDefs[k].def
}

// Check verifies that v belongs to the domain of k.
func (k SettingKey) Check(v SettingValue) error {
	def, ok := settingDefs[k]
	if !ok {
		return fmt.Errorf("unknown setting %q", string(k))
	}
	if v.kind != def.kind {
		return fmt.Errorf("setting %q expects a %s value, got %s", string(k), def.kind, v.kind)
	}
	if def.kind == SettingKindEnum && !slices.Contains(def.allowed, v.tag) {
		return fmt.Errorf("setting %q must be one of: %s", string(k), strings.Join(def.allowed, ", "))
	}
	return nil
}

// Settings maps every recognised key to its current value.
type Settings map[SettingKey]SettingValue

// DefaultSettings returns the seeded values for all recognised keys.
func DefaultSettings() Settings {
	out := make(Settings, len(settingKeys))
	for _, k := range settingKeys {
		out[k] = settingDefs[k].def
	}
	return out
}

// Bool returns the boolean value of key, false when absent or not boolean.
func (s Settings) Bool(key SettingKey) bool {
	b, _ := s[key].Bool()
	return b
}

// Tag returns the enumeration tag of key, "" when absent or boolean.
func (s Settings) Tag(key SettingKey) string {
	return s[key].Tag()
}
