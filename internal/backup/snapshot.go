package backup

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/entities"
	"github.com/mrlokans/gong/internal/validation"
)

// FormatVersion is written into every snapshot. Snapshots with the same
// major version can be restored.
const FormatVersion = "1.0.0"

//go:embed snapshot.schema.json
var snapshotSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(snapshotSchema)

// Snapshot is the full content of the store at one instant.
type Snapshot struct {
	Version   string             `json:"version"`
	Timestamp int64              `json:"timestamp"` // epoch millis
	Books     []entities.Book    `json:"books"`
	Entries   []entities.Entry   `json:"entries"`
	Settings  []entities.Setting `json:"settings"`
}

// Decode parses and checks a snapshot without touching the store. Every
// failure wraps database.ErrFormat.
func Decode(data []byte) (*Snapshot, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, database.FormatError("unreadable snapshot: %v", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, database.FormatError("%s", strings.Join(msgs, "; "))
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, database.FormatError("decode snapshot: %v", err)
	}
	if err := snap.check(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// check verifies that the snapshot can be restored as a whole: supported
// version, unique ids, entries pointing at books in the same snapshot,
// recognised settings and rows that satisfy the store's invariants.
func (s *Snapshot) check() error {
	major, _, _ := strings.Cut(s.Version, ".")
	supported, _, _ := strings.Cut(FormatVersion, ".")
	if major != supported {
		return database.FormatError("unsupported snapshot version %q", s.Version)
	}

	v := validation.New()

	bookIDs := make(map[string]bool, len(s.Books))
	for i, b := range s.Books {
		if bookIDs[b.ID] {
			return database.FormatError("books[%d]: duplicate id %q", i, b.ID)
		}
		bookIDs[b.ID] = true
		if err := v.Struct(b); err != nil {
			return database.FormatError("books[%d]: %v", i, err)
		}
	}

	entryIDs := make(map[string]bool, len(s.Entries))
	for i, e := range s.Entries {
		if entryIDs[e.ID] {
			return database.FormatError("entries[%d]: duplicate id %q", i, e.ID)
		}
		entryIDs[e.ID] = true
		if !bookIDs[e.BookID] {
			return database.FormatError("entries[%d]: unknown book_id %q", i, e.BookID)
		}
		if err := v.Struct(e); err != nil {
			return database.FormatError("entries[%d]: %v", i, err)
		}
	}

	keys := make(map[string]bool, len(s.Settings))
	for i, row := range s.Settings {
		key, ok := entities.ParseSettingKey(row.Key)
		if !ok {
			return database.FormatError("settings[%d]: unknown key %q", i, row.Key)
		}
		if keys[row.Key] {
			return database.FormatError("settings[%d]: duplicate key %q", i, row.Key)
		}
		keys[row.Key] = true
		if err := key.Check(entities.DecodeSettingValue(row.Value)); err != nil {
			return database.FormatError("settings[%d]: %v", i, err)
		}
	}
	return nil
}

// Counts summarises the number of rows per table.
type Counts struct {
	Books    int `json:"books"`
	Entries  int `json:"entries"`
	Settings int `json:"settings"`
}

func (s *Snapshot) Counts() Counts {
	return Counts{Books: len(s.Books), Entries: len(s.Entries), Settings: len(s.Settings)}
}

func (c Counts) String() string {
	return fmt.Sprintf("%d books, %d entries, %d settings", c.Books, c.Entries, c.Settings)
}
